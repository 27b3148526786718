// Package server exposes the HTTP API: authentication, membership
// management, scheduling, attendance, announcements and reports.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/danlumempouw/voiceofsoul/internal/auth"
	"github.com/danlumempouw/voiceofsoul/internal/cache"
	"github.com/danlumempouw/voiceofsoul/internal/config"
	"github.com/danlumempouw/voiceofsoul/internal/metrics"
	"github.com/danlumempouw/voiceofsoul/pkg/core/ledger"
	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
	"github.com/danlumempouw/voiceofsoul/pkg/core/services"
	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

const snapshotCacheKey = "snapshot"

// Server holds the API dependencies.
type Server struct {
	store    db.Store
	cache    *cache.Cache // nil disables caching
	cfg      *config.Config
	logger   *zap.Logger
	validate *validator.Validate
}

// New creates an API server over the given store. cache may be nil.
func New(store db.Store, c *cache.Cache, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		store:    store,
		cache:    c,
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(),
	}
}

// Router assembles all routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.requestLogger,
		metrics.Middleware,
	)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/signup", s.handleSignup)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.cfg.Auth.JWTSecret, s.logger))

			r.Get("/members", s.handleListMembers)
			r.Get("/events", s.handleListEvents)
			r.Get("/events/{eventID}/composition", s.handleEventComposition)
			r.Post("/events/{eventID}/attendance", s.handleSubmitAttendance)
			r.Get("/announcements", s.handleListAnnouncements)
			r.Get("/reports/me", s.handleMyHistory)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(model.RoleAdmin, model.RoleCoordinator))
				r.Get("/events/{eventID}/share-text", s.handleShareText)
				r.Put("/events/{eventID}/attendance/{userID}", s.handleOverrideAttendance)
				r.Delete("/events/{eventID}/attendance/{userID}", s.handleRemoveAttendance)
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(model.RoleAdmin))

				r.Post("/members", s.handleCreateMember)
				r.Put("/members/{userID}", s.handleUpdateMember)
				r.Delete("/members/{userID}", s.handleDeleteMember)
				r.Post("/members/{userID}/approve", s.handleApproveMember)
				r.Post("/members/{userID}/reject", s.handleRejectMember)
				r.Post("/members/{userID}/reset-password", s.handleResetPassword)

				r.Post("/events", s.handleCreateEvent)
				r.Put("/events/{eventID}", s.handleUpdateEvent)
				r.Delete("/events/{eventID}", s.handleDeleteEvent)
				r.Post("/events/generate", s.handleGenerateEvents)

				r.Post("/announcements", s.handlePostAnnouncement)
				r.Put("/announcements/{announcementID}", s.handleEditAnnouncement)
				r.Delete("/announcements/{announcementID}", s.handleDeleteAnnouncement)

				r.Get("/reports/summary", s.handleRecapSummary)
				r.Get("/reports/export", s.handleExport)
			})
		})
	})

	return r
}

// requestLogger logs each handled request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("duration", time.Since(start)))
	})
}

// ListenAndServe runs the HTTP server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTP.Address,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
		IdleTimeout:  s.cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", zap.String("address", s.cfg.HTTP.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}

// snapshot returns the current data snapshot, served from the cache when one
// is configured and warm.
func (s *Server) snapshot(ctx context.Context) (model.Snapshot, error) {
	if s.cache != nil {
		var cached model.Snapshot
		found, err := s.cache.Get(ctx, snapshotCacheKey, &cached)
		if err != nil {
			s.logger.Warn("Snapshot cache read failed", zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	snapshot, err := services.LoadSnapshot(ctx, s.store, s.logger)
	if err != nil {
		return model.Snapshot{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, snapshotCacheKey, snapshot); err != nil {
			s.logger.Warn("Snapshot cache write failed", zap.Error(err))
		}
	}
	return snapshot, nil
}

// ledgerView builds a ledger over a fresh (or cached) snapshot.
func (s *Server) ledgerView(ctx context.Context) (*ledger.Ledger, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.New(snapshot), nil
}

// invalidateSnapshot drops the cached snapshot after a mutation.
func (s *Server) invalidateSnapshot(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, snapshotCacheKey); err != nil {
		s.logger.Warn("Snapshot cache invalidation failed", zap.Error(err))
	}
}
