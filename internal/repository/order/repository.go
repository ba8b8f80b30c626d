package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pawmart/orderledger/internal/database"
	"github.com/pawmart/orderledger/internal/entity"
)

var repoTracer = otel.Tracer("github.com/pawmart/orderledger/repository/order")

// ErrNotFound is returned when an active order is missing.
var ErrNotFound = errors.New("order not found")

// Store is the active-order persistence contract the services depend on.
type Store interface {
	CreateWithReceipt(ctx context.Context, order *entity.Order, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]entity.Order, error)
	UpdateDeliveryStatus(ctx context.Context, id, status string) (*entity.Order, error)
	Archive(ctx context.Context, snapshot *entity.CancelledOrder) error
}

// Repository encapsulates read/write access for active orders.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// CreateWithReceipt persists an order and its receipt as one transaction,
// so a receipt-less order can never become visible.
func (r *Repository) CreateWithReceipt(ctx context.Context, order *entity.Order, receipt *entity.Receipt) error {
	if order == nil || receipt == nil {
		return errors.New("nil order or receipt")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.CreateWithReceipt", trace.WithAttributes(attribute.String("order.id", order.ID)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(receipt).Exec(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches an active order using the read replica when available.
func (r *Repository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// List returns every active order, newest first.
func (r *Repository) List(ctx context.Context) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	var orders []entity.Order
	if err := r.reader.NewSelect().Model(&orders).OrderExpr("created_at DESC").Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// ListCreatedSince returns orders created at or after the cutoff, oldest
// first, for time-window aggregation.
func (r *Repository) ListCreatedSince(ctx context.Context, since time.Time) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ListCreatedSince", trace.WithAttributes(attribute.String("since", since.Format(time.RFC3339))))
	defer span.End()

	var orders []entity.Order
	err := r.reader.NewSelect().Model(&orders).
		Where("created_at >= ?", since).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// UpdateDeliveryStatus sets the delivery status and returns the updated
// order. Zero rows affected means the order is gone, which also covers
// an update racing a concurrent cancellation.
func (r *Repository) UpdateDeliveryStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.UpdateDeliveryStatus",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("order.delivery_status", status)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Order)(nil)).
		Set("delivery_status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}

	// Re-read from the writer so the caller sees its own write.
	order := new(entity.Order)
	if err := r.writer.NewSelect().Model(order).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, err
	}
	return order, nil
}

// Archive moves an order into cancelled_orders in one transaction:
// insert the snapshot, delete the original. Zero deleted rows aborts the
// transaction, so an order that vanished concurrently is never archived
// twice.
func (r *Repository) Archive(ctx context.Context, snapshot *entity.CancelledOrder) error {
	if snapshot == nil {
		return errors.New("nil snapshot")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Archive", trace.WithAttributes(attribute.String("order.id", snapshot.OrderID)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(snapshot).Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().Model((*entity.Order)(nil)).Where("id = ?", snapshot.OrderID).Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "archive failed")
	}
	return err
}
