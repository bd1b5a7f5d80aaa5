package dispatchlog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNewEntryWithoutSpan(t *testing.T) {
	t.Parallel()

	e := NewEntry(context.Background(), "sess-1", ChannelMessage, "hola", "https://wa.me/1?text=hola", 2, 50000)

	_, err := uuid.Parse(e.ID)
	require.NoError(t, err)
	require.Equal(t, "sess-1", e.SessionID)
	require.Equal(t, ChannelMessage, e.Channel)
	require.Equal(t, 2, e.TotalQuantity)
	require.Equal(t, int64(50000), e.TotalPrice)
	require.Empty(t, e.TraceID)
	require.Empty(t, e.SpanID)
	require.False(t, e.CreatedAt.IsZero())
}

func TestExtractTraceInfoFromSpanContext(t *testing.T) {
	t.Parallel()

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	ti := ExtractTraceInfo(ctx)
	require.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", ti.TraceID)
	require.Equal(t, "00f067aa0ba902b7", ti.SpanID)
}
