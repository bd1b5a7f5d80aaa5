package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/jcmexdev/menu-cart/internal/cart-service/core/service"

type metrics struct {
	intents         metric.Int64Counter
	itemsAdded      metric.Int64Counter
	ordersConfirmed metric.Int64Counter
	orderValue      metric.Int64Histogram
}

// newMetrics registers the counters on the global meter provider, a no-op
// until the process installs one.
func newMetrics() (*metrics, error) {
	meter := otel.Meter(instrumentationName)

	intents, err := meter.Int64Counter("cart.intents",
		metric.WithDescription("Intents handled, by name and outcome."))
	if err != nil {
		return nil, err
	}
	itemsAdded, err := meter.Int64Counter("cart.items_added",
		metric.WithDescription("Dish units added to carts."))
	if err != nil {
		return nil, err
	}
	ordersConfirmed, err := meter.Int64Counter("cart.orders_confirmed",
		metric.WithDescription("Orders handed off to the messaging service."))
	if err != nil {
		return nil, err
	}
	orderValue, err := meter.Int64Histogram("cart.order_value",
		metric.WithDescription("Total of confirmed orders."),
		metric.WithUnit("{COP}"))
	if err != nil {
		return nil, err
	}

	return &metrics{
		intents:         intents,
		itemsAdded:      itemsAdded,
		ordersConfirmed: ordersConfirmed,
		orderValue:      orderValue,
	}, nil
}

func (m *metrics) record(ctx context.Context, in Intent, r Result) {
	m.intents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("intent", IntentName(in)),
		attribute.Bool("applied", r.Applied),
	))
	if r.Applied && len(r.Toasts) > 0 {
		m.itemsAdded.Add(ctx, int64(len(r.Toasts)))
	}
	if r.Confirmed && r.Summary != nil {
		m.ordersConfirmed.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", string(r.Summary.Mode))))
		m.orderValue.Record(ctx, r.Summary.Total)
	}
}
