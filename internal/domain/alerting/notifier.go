package alerting

import (
	"context"
	"time"

	"inventra/internal/core/id"
	"inventra/internal/domain/catalogs/product"
	"inventra/internal/domain/orders"
	"inventra/pkg/logger"
)

// Event is a domain event handed to the publisher. The outbox relay
// in cmd/worker ships published events to external channels.
type Event struct {
	AggregateType string `json:"aggregateType"`
	AggregateID   id.ID  `json:"aggregateId"`
	EventType     string `json:"eventType"`
	Payload       any    `json:"payload"`
}

// EventPublisher persists events for asynchronous delivery.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Event types emitted by this package.
const (
	EventLowStock      = "inventory.low_stock"
	EventLowStockSweep = "inventory.low_stock_sweep"
)

// LowStockAlert is the payload of a low-stock event.
type LowStockAlert struct {
	ProductID   id.ID     `json:"productId"`
	ProductName string    `json:"productName"`
	Brand       string    `json:"brand"`
	SupplierID  id.ID     `json:"supplierId"`
	Stock       int       `json:"stock"`
	Threshold   int       `json:"threshold"`
	OrderID     *id.ID    `json:"orderId,omitempty"`
	OrderNumber string    `json:"orderNumber,omitempty"`
	RaisedAt    time.Time `json:"raisedAt"`
}

// Notifier filters touched rows through the rule and publishes one
// event per low row. It implements the order service's notification
// contract.
type Notifier struct {
	rule      *Rule
	publisher EventPublisher
}

// NewNotifier creates a rule-driven notifier. A nil rule falls back
// to the default threshold rule.
func NewNotifier(rule *Rule, publisher EventPublisher) *Notifier {
	if rule == nil {
		rule = DefaultRule()
	}
	return &Notifier{rule: rule, publisher: publisher}
}

// NotifyLowStock publishes an alert for every touched row the rule
// flags. Rows above threshold are ignored.
func (n *Notifier) NotifyLowStock(ctx context.Context, rows []*product.Product, order *orders.Order) error {
	low, err := n.rule.FilterLow(rows)
	if err != nil {
		return err
	}
	if len(low) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, p := range low {
		alert := LowStockAlert{
			ProductID:   p.ID,
			ProductName: p.Name,
			Brand:       p.Brand,
			SupplierID:  p.SupplierID,
			Stock:       p.StockQuantity,
			Threshold:   p.LowStockThreshold,
			RaisedAt:    now,
		}
		if order != nil {
			orderID := order.ID
			alert.OrderID = &orderID
			alert.OrderNumber = order.Number
		}

		event := Event{
			AggregateType: "product",
			AggregateID:   p.ID,
			EventType:     EventLowStock,
			Payload:       alert,
		}
		if err := n.publisher.Publish(ctx, event); err != nil {
			return err
		}

		logger.Warn(ctx, "low stock alert raised",
			"product_id", p.ID,
			"name", p.Name,
			"brand", p.Brand,
			"stock", p.StockQuantity,
			"threshold", p.LowStockThreshold)
	}
	return nil
}

// LogNotifier only logs low rows. Used when no outbox is configured
// and in development setups.
type LogNotifier struct {
	rule *Rule
}

// NewLogNotifier creates a logging-only notifier.
func NewLogNotifier(rule *Rule) *LogNotifier {
	if rule == nil {
		rule = DefaultRule()
	}
	return &LogNotifier{rule: rule}
}

// NotifyLowStock logs every row the rule flags.
func (n *LogNotifier) NotifyLowStock(ctx context.Context, rows []*product.Product, order *orders.Order) error {
	low, err := n.rule.FilterLow(rows)
	if err != nil {
		return err
	}
	for _, p := range low {
		fields := []any{
			"product_id", p.ID,
			"name", p.Name,
			"brand", p.Brand,
			"stock", p.StockQuantity,
			"threshold", p.LowStockThreshold,
		}
		if order != nil {
			fields = append(fields, "order_id", order.ID, "order_number", order.Number)
		}
		logger.Warn(ctx, "low stock alert", fields...)
	}
	return nil
}
