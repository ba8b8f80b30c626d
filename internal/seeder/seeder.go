package seeder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pawmart/orderledger/internal/database"
	"github.com/pawmart/orderledger/internal/entity"
)

// Module provides the seeder to Fx for CLI wiring.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Orders seeds a few order/receipt pairs so the dashboard has data.
// Receipts are written alongside each order, same as checkout does.
func (s *Seeder) Orders(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []struct {
		items  []entity.OrderItem
		status string
		age    time.Duration
	}{
		{
			items: []entity.OrderItem{
				{ItemRef: "itm-leash-01", Name: "Rope Leash", Price: 14.50, Quantity: 1},
				{ItemRef: "itm-kibble-5kg", Name: "Salmon Kibble 5kg", Price: 42.00, Quantity: 2},
			},
			status: entity.DeliveryPending,
		},
		{
			items: []entity.OrderItem{
				{ItemRef: "itm-scratch-post", Name: "Sisal Scratching Post", Price: 59.90, Quantity: 1},
			},
			status: entity.DeliveryShipped,
			age:    48 * time.Hour,
		},
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, sample := range samples {
			var total float64
			for _, item := range sample.items {
				total += item.Price * float64(item.Quantity)
			}
			createdAt := now.Add(-sample.age)
			order := entity.Order{
				ID:             uuid.NewString(),
				Items:          sample.items,
				Payment:        entity.PaymentCard{Name: "Seed Customer", CardNumberMasked: "**** **** **** 4242", Expiry: "12/29"},
				Total:          total,
				Status:         entity.StatusPaid,
				DeliveryStatus: sample.status,
				CreatedAt:      createdAt,
			}
			receipt := entity.Receipt{
				ID:      uuid.NewString(),
				OrderID: order.ID,
				Items:   sample.items,
				Payment: order.Payment,
				Total:   total,
				Date:    createdAt,
			}
			if _, err := tx.NewInsert().Model(&order).Exec(ctx); err != nil {
				return err
			}
			if _, err := tx.NewInsert().Model(&receipt).Exec(ctx); err != nil {
				return err
			}
		}
		s.logger.Info("seeded orders", zap.Int("count", len(samples)))
		return nil
	})
}
