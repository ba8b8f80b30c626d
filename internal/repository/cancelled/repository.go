package cancelled

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

var repoTracer = otel.Tracer("github.com/pawmart/orderledger/repository/cancelled")

// ErrNotFound is returned when a cancelled order is missing.
var ErrNotFound = errors.New("cancelled order not found")

// Store exposes the archived-order side of the ledger. Archival records
// are written by the order store's archive transaction; this store
// lists, sums, and finalizes them.
type Store interface {
	List(ctx context.Context) ([]entity.CancelledOrder, error)
	ListCancelledSince(ctx context.Context, since time.Time) ([]entity.CancelledOrder, error)
	TotalRefunded(ctx context.Context) (float64, error)
	Delete(ctx context.Context, id string) error
}

// Repository encapsulates access to the cancelled_orders table.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a cancelled-order repository.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// List returns all archived orders, most recent cancellation first.
func (r *Repository) List(ctx context.Context) ([]entity.CancelledOrder, error) {
	ctx, span := repoTracer.Start(ctx, "CancelledRepository.List")
	defer span.End()

	var records []entity.CancelledOrder
	if err := r.reader.NewSelect().Model(&records).OrderExpr("cancelled_at DESC").Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return records, nil
}

// ListCancelledSince returns archived orders cancelled at or after the
// cutoff, oldest first, for refund aggregation.
func (r *Repository) ListCancelledSince(ctx context.Context, since time.Time) ([]entity.CancelledOrder, error) {
	ctx, span := repoTracer.Start(ctx, "CancelledRepository.ListCancelledSince", trace.WithAttributes(attribute.String("since", since.Format(time.RFC3339))))
	defer span.End()

	var records []entity.CancelledOrder
	err := r.reader.NewSelect().Model(&records).
		Where("cancelled_at >= ?", since).
		OrderExpr("cancelled_at ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return records, nil
}

// TotalRefunded sums every archived order's total, all-time.
func (r *Repository) TotalRefunded(ctx context.Context) (float64, error) {
	ctx, span := repoTracer.Start(ctx, "CancelledRepository.TotalRefunded")
	defer span.End()

	var total sql.NullFloat64
	err := r.reader.NewSelect().Model((*entity.CancelledOrder)(nil)).
		ColumnExpr("SUM(total)").
		Scan(ctx, &total)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sum failed")
		return 0, err
	}
	return total.Float64, nil
}

// Delete removes an archival record, finalizing its refund payout.
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := repoTracer.Start(ctx, "CancelledRepository.Delete", trace.WithAttributes(attribute.String("cancelled.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.CancelledOrder)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		span.RecordError(err)
		return err
	}
	if affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}
