// Package dispatchlog records every order message handed off to the external
// messaging service.
//
// The log is append-only and write-mostly. It answers "what did session X send,
// and when" and links each hand-off to the trace of the request that made it.
// It never feeds a cart back: carts stay ephemeral per page session.
package dispatchlog

import "time"

// Channel identifies how the order summary left the service.
type Channel string

const (
	ChannelMessage Channel = "MESSAGE"
	ChannelDialog  Channel = "DIALOG"
)

// Dispatch is a single row in the order_dispatches table.
type Dispatch struct {
	// ID is a fresh UUID per hand-off.
	ID string

	// SessionID is the page session whose cart was sent.
	SessionID string

	Channel Channel

	// Message is the exact text that was handed off.
	Message string

	// Link is the deep link opened by the client. Empty for dialog checkouts.
	Link string

	TotalQuantity int
	TotalPrice    int64

	// TraceID and SpanID come from the OpenTelemetry span active when the
	// order was confirmed.
	TraceID string
	SpanID  string

	CreatedAt time.Time
}
