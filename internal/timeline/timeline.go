// Package timeline derives a qualitative health label for a project from its
// date range, its status and the current day.
package timeline

import (
	"time"

	"github.com/frahmantamala/workforce-admin/internal/core/status"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityNeutral Severity = "neutral"
)

const (
	LabelCompleted    = "Completed"
	LabelOverdue      = "Overdue"
	LabelNotStarted   = "Not Started"
	LabelOnTrack      = "On Track"
	LabelInProgress   = "In Progress"
	LabelNearDeadline = "Near Deadline"
)

const (
	inProgressThreshold   = 0.50
	nearDeadlineThreshold = 0.80
)

type Health struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

// Evaluate returns the timeline health of a project on the day of now.
// Callers pass the current time on every call; nothing is cached here.
func Evaluate(start, end time.Time, st status.ProjectStatus, now time.Time) Health {
	if st == status.ProjectCompleted {
		return Health{Label: LabelCompleted, Severity: SeveritySuccess}
	}

	today := day(now)
	startDay, endDay := day(start), day(end)

	if today.After(endDay) {
		return Health{Label: LabelOverdue, Severity: SeverityError}
	}
	if today.Before(startDay) {
		return Health{Label: LabelNotStarted, Severity: SeverityNeutral}
	}

	ratio := ElapsedRatio(startDay, endDay, today)
	switch {
	case ratio < inProgressThreshold:
		return Health{Label: LabelOnTrack, Severity: SeveritySuccess}
	case ratio < nearDeadlineThreshold:
		return Health{Label: LabelInProgress, Severity: SeverityInfo}
	default:
		return Health{Label: LabelNearDeadline, Severity: SeverityWarning}
	}
}

// ElapsedRatio is the share of the start..end interval already elapsed at
// today. A zero-length interval is treated as immediately due.
func ElapsedRatio(start, end, today time.Time) float64 {
	total := end.Sub(start)
	if total <= 0 {
		return 1
	}
	return float64(today.Sub(start)) / float64(total)
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
