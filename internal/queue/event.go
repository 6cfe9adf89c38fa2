// Package queue publishes batch events to the message broker for the
// downstream analytics/export pipeline.
package queue

import "github.com/ecomslots/slotsync/internal/model"

// SlotsAppliedEvent is published after a non-dry-run batch finishes.
// It carries enough information for consumers to log or trigger the
// export pipeline without calling back into this service.
type SlotsAppliedEvent struct {
	Event     string        `json:"event"`
	Source    string        `json:"source"` // "apply" or "import"
	StartDate string        `json:"start_date,omitempty"`
	EndDate   string        `json:"end_date,omitempty"`
	Summary   model.Summary `json:"summary"`
	Warnings  int           `json:"warnings"`
	AppliedAt string        `json:"applied_at"`
}
