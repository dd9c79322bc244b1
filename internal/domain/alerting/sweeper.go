package alerting

import (
	"context"
	"time"

	"inventra/internal/core/id"
	"inventra/internal/domain/catalogs/product"
	"inventra/pkg/logger"
)

// Sweeper runs the periodic low-stock inventory scan. Unlike the
// order-triggered notifier it covers the whole catalog, catching rows
// drained by paths that never raised an alert.
type Sweeper struct {
	products  product.Repository
	rule      *Rule
	publisher EventPublisher
}

// NewSweeper creates the scheduled sweep.
func NewSweeper(products product.Repository, rule *Rule, publisher EventPublisher) *Sweeper {
	if rule == nil {
		rule = DefaultRule()
	}
	return &Sweeper{products: products, rule: rule, publisher: publisher}
}

// SweepResult summarizes one sweep run.
type SweepResult struct {
	Scanned int `json:"scanned"`
	Flagged int `json:"flagged"`
}

// Run scans low-stock candidates and publishes a digest event when any
// row is flagged.
func (s *Sweeper) Run(ctx context.Context) (SweepResult, error) {
	rows, err := s.products.ListLowStock(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	low, err := s.rule.FilterLow(rows)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Scanned: len(rows), Flagged: len(low)}
	if len(low) == 0 {
		logger.Debug(ctx, "low stock sweep clean", "scanned", result.Scanned)
		return result, nil
	}

	now := time.Now().UTC()
	alerts := make([]LowStockAlert, 0, len(low))
	for _, p := range low {
		alerts = append(alerts, LowStockAlert{
			ProductID:   p.ID,
			ProductName: p.Name,
			Brand:       p.Brand,
			SupplierID:  p.SupplierID,
			Stock:       p.StockQuantity,
			Threshold:   p.LowStockThreshold,
			RaisedAt:    now,
		})
	}

	event := Event{
		AggregateType: "inventory",
		AggregateID:   id.New(),
		EventType:     EventLowStockSweep,
		Payload:       alerts,
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event); err != nil {
			return result, err
		}
	}

	logger.Warn(ctx, "low stock sweep flagged products",
		"scanned", result.Scanned,
		"flagged", result.Flagged)

	return result, nil
}
