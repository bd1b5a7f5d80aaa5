package dispatchlog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active span from ctx. Both fields are empty when
// the context carries no valid span.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}

	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds a Dispatch with a new ID and the trace info found in ctx.
//
//	entry := dispatchlog.NewEntry(ctx, sessionID, dispatchlog.ChannelMessage, text, link, qty, total)
//	_ = repo.Save(ctx, entry)
func NewEntry(
	ctx context.Context,
	sessionID string,
	channel Channel,
	message string,
	link string,
	totalQuantity int,
	totalPrice int64,
) *Dispatch {
	ti := ExtractTraceInfo(ctx)

	return &Dispatch{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		Channel:       channel,
		Message:       message,
		Link:          link,
		TotalQuantity: totalQuantity,
		TotalPrice:    totalPrice,
		TraceID:       ti.TraceID,
		SpanID:        ti.SpanID,
		CreatedAt:     time.Now().UTC(),
	}
}
