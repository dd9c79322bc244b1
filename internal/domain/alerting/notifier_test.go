package alerting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventra/internal/domain/catalogs/product"
	"inventra/internal/domain/orders"
)

type capturePublisher struct {
	events []Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, event Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func TestNotifier_PublishesOnlyLowRows(t *testing.T) {
	publisher := &capturePublisher{}
	notifier := NewNotifier(nil, publisher)

	order := orders.NewOrder(orders.TypeSale, orders.PaymentCash)
	order.Number = "SO-000042"

	rows := []*product.Product{
		row("Widget", "Acme", 3, 10),
		row("Widget", "Acme", 50, 10),
	}

	err := notifier.NotifyLowStock(context.Background(), rows, order)
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, EventLowStock, event.EventType)
	assert.Equal(t, "product", event.AggregateType)
	assert.Equal(t, rows[0].ID, event.AggregateID)

	alert, ok := event.Payload.(LowStockAlert)
	require.True(t, ok)
	assert.Equal(t, 3, alert.Stock)
	assert.Equal(t, 10, alert.Threshold)
	assert.Equal(t, "SO-000042", alert.OrderNumber)
	require.NotNil(t, alert.OrderID)
	assert.Equal(t, order.ID, *alert.OrderID)
}

func TestNotifier_NoEventWhenNothingLow(t *testing.T) {
	publisher := &capturePublisher{}
	notifier := NewNotifier(nil, publisher)

	rows := []*product.Product{row("Widget", "Acme", 50, 10)}

	err := notifier.NotifyLowStock(context.Background(), rows, nil)
	require.NoError(t, err)
	assert.Empty(t, publisher.events)
}

func TestNotifier_PublisherErrorPropagates(t *testing.T) {
	publisher := &capturePublisher{err: assert.AnError}
	notifier := NewNotifier(nil, publisher)

	err := notifier.NotifyLowStock(context.Background(), []*product.Product{row("Widget", "Acme", 1, 10)}, nil)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestLogNotifier_NeverFails(t *testing.T) {
	notifier := NewLogNotifier(nil)

	rows := []*product.Product{
		row("Widget", "Acme", 0, 10),
		row("Widget", "Acme", 99, 10),
	}

	err := notifier.NotifyLowStock(context.Background(), rows, nil)
	assert.NoError(t, err)
}
