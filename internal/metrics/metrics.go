package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts handled HTTP requests by method, path pattern and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voiceofsoul_http_requests_total",
		Help: "Handled HTTP requests.",
	}, []string{"method", "path", "status"})

	// AttendanceSubmissions counts attendance writes by status.
	AttendanceSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voiceofsoul_attendance_submissions_total",
		Help: "Attendance records written, by submitted status.",
	}, []string{"status"})

	// ExportsGenerated counts generated CSV exports.
	ExportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voiceofsoul_exports_generated_total",
		Help: "CSV exports generated.",
	})
)

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records a counter sample per handled request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		RequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
