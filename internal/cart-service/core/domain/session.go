package domain

import "time"

// SessionSnapshot is the stored state of one page session: its cart lines and
// the customization in flight, if any.
type SessionSnapshot struct {
	ID        string                `json:"id"`
	Lines     []LineItem            `json:"lines"`
	Pending   *PendingCustomization `json:"pending,omitempty"`
	UpdatedAt time.Time             `json:"updated_at"`
}
