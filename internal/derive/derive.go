package derive

import (
	"fmt"
	"time"

	"github.com/noah-isme/sma-adp-console/internal/schema"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// Transform mutates a draft entity just before it is submitted. The
// controller runs the schema's transform after validation passes, so the
// derived fields never block the user's own input.
type Transform func(draft schema.Entity, now time.Time) error

// ForSchema returns the pre-submit transform for a schema name, or nil when
// the entity has no derived fields.
func ForSchema(name string) Transform {
	switch name {
	case "tasks":
		return TaskProgress
	case "shifts":
		return ShiftHours
	default:
		return nil
	}
}

// TaskProgress keeps progress, status and completed_date consistent:
// progress clamps to [0,100]; reaching 100 stamps today's completion date
// (unless one is already set) and marks the task done; dropping below 100
// clears the stamp.
func TaskProgress(draft schema.Entity, now time.Time) error {
	progress := draft.Number("progress")
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	draft["progress"] = progress

	if progress >= 100 {
		if draft.String("completed_date") == "" {
			draft["completed_date"] = now.Format("2006-01-02")
		}
		draft["status"] = "DONE"
		return nil
	}

	delete(draft, "completed_date")
	if progress > 0 && draft.String("status") != "OPEN" {
		draft["status"] = "IN_PROGRESS"
	}
	return nil
}

// ShiftHours computes worked and overtime hours from the clock fields.
// Overtime is the positive part of clock-out minus scheduled end. A clock-out
// before clock-in is rejected; an open shift (no clock-out yet) derives
// nothing.
func ShiftHours(draft schema.Entity, now time.Time) error {
	clockOut := draft.String("clock_out")
	if clockOut == "" {
		delete(draft, "worked_hours")
		delete(draft, "overtime_hours")
		return nil
	}

	in, err := parseClock(draft.String("clock_in"))
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "clock in must be hh:mm")
	}
	out, err := parseClock(clockOut)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "clock out must be hh:mm")
	}
	if out.Before(in) {
		return appErrors.Clone(appErrors.ErrValidation, "clock out is before clock in")
	}

	draft["worked_hours"] = roundHours(out.Sub(in))

	scheduledEnd, err := parseClock(draft.String("scheduled_end"))
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "scheduled end must be hh:mm")
	}
	if out.After(scheduledEnd) {
		draft["overtime_hours"] = roundHours(out.Sub(scheduledEnd))
	} else {
		draft["overtime_hours"] = float64(0)
	}
	return nil
}

func parseClock(raw string) (time.Time, error) {
	ts, err := time.Parse("15:04", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q: %w", raw, err)
	}
	return ts, nil
}

// roundHours keeps two decimals so 7h30m reads as 7.5.
func roundHours(d time.Duration) float64 {
	hours := d.Hours()
	return float64(int(hours*100+0.5)) / 100
}
