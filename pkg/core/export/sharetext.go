package export

import (
	"fmt"
	"strings"

	"github.com/danlumempouw/voiceofsoul/pkg/core/attendance"
	"github.com/danlumempouw/voiceofsoul/pkg/core/ledger"
	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
)

// EventShareText builds the plain-text attendance summary that coordinators
// and admins forward to their messaging groups. Admins see every part;
// coordinators see only their own part, including the pending list so they
// can chase members who have not responded yet.
func EventShareText(l *ledger.Ledger, eventID string, viewer model.User) (string, error) {
	comp, ok := attendance.EventComposition(l, eventID)
	if !ok {
		return "", fmt.Errorf("event %s not found", eventID)
	}
	event := comp.Event

	var b strings.Builder
	fmt.Fprintf(&b, "*CHOIR SCHEDULE*\n")
	fmt.Fprintf(&b, "--------------------------\n")
	fmt.Fprintf(&b, "*Event:* %s\n", event.Title)
	fmt.Fprintf(&b, "*When:* %s\n", event.Date.Format("Monday, 2 January 2006 @ 15:04"))
	fmt.Fprintf(&b, "*Where:* %s\n\n", event.Location)

	switch viewer.Role {
	case model.RoleAdmin:
		fmt.Fprintf(&b, "*ATTENDANCE (SATB)*\n")
		fmt.Fprintf(&b, "\nPRESENT (%d):\n", comp.TotalPresent())
		for _, part := range comp.Parts {
			if len(part.Present) > 0 {
				fmt.Fprintf(&b, "_%s_: %s\n", part.Part, memberNames(part.Present))
			}
		}
		if comp.TotalAbsent() > 0 {
			fmt.Fprintf(&b, "\nABSENT (%d):\n", comp.TotalAbsent())
			for _, part := range comp.Parts {
				if len(part.Absent) > 0 {
					fmt.Fprintf(&b, "_%s_: %s\n", part.Part, absentNames(part.Absent))
				}
			}
		}
	case model.RoleCoordinator:
		part, ok := comp.PartFor(viewer.VoicePart)
		if !ok {
			return "", fmt.Errorf("no composition for voice part %s", viewer.VoicePart)
		}
		fmt.Fprintf(&b, "*ATTENDANCE %s*\n", partLabel(part.Part))
		fmt.Fprintf(&b, "\nPRESENT (%d):\n", len(part.Present))
		if len(part.Present) > 0 {
			fmt.Fprintf(&b, "%s\n", memberNames(part.Present))
		} else {
			fmt.Fprintf(&b, "-\n")
		}
		if len(part.Absent) > 0 {
			fmt.Fprintf(&b, "\nABSENT (%d):\n%s\n", len(part.Absent), absentNames(part.Absent))
		}
		if len(part.Pending) > 0 {
			fmt.Fprintf(&b, "\nNO RESPONSE (%d):\n%s\n", len(part.Pending), memberNames(part.Pending))
		}
	default:
		return "", fmt.Errorf("role %s may not share attendance", viewer.Role)
	}

	return b.String(), nil
}

func memberNames(members []attendance.Member) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}

func absentNames(members []attendance.AbsentMember) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = fmt.Sprintf("%s (%s)", m.Name, m.Reason)
	}
	return strings.Join(names, ", ")
}
