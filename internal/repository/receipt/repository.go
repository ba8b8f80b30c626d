package receipt

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pawmart/orderledger/internal/database"
	"github.com/pawmart/orderledger/internal/entity"
)

var repoTracer = otel.Tracer("github.com/pawmart/orderledger/repository/receipt")

// ErrNotFound is returned when a receipt is missing.
var ErrNotFound = errors.New("receipt not found")

// Store is the read-only receipt contract. Receipts are written only by
// the order store's checkout transaction.
type Store interface {
	GetByID(ctx context.Context, id string) (*entity.Receipt, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Receipt, error)
}

// Repository reads receipts via the replica connection.
type Repository struct {
	reader *bun.DB
}

// NewRepository wires a receipt repository.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{reader: conns.Reader}
}

// GetByID fetches a receipt by its own identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*entity.Receipt, error) {
	ctx, span := repoTracer.Start(ctx, "ReceiptRepository.GetByID", trace.WithAttributes(attribute.String("receipt.id", id)))
	defer span.End()

	receipt := new(entity.Receipt)
	err := r.reader.NewSelect().Model(receipt).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return receipt, nil
}

// GetByOrderID fetches the receipt paired with an order. Every order has
// exactly one.
func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*entity.Receipt, error) {
	ctx, span := repoTracer.Start(ctx, "ReceiptRepository.GetByOrderID", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	receipt := new(entity.Receipt)
	err := r.reader.NewSelect().Model(receipt).Where("order_id = ?", orderID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return receipt, nil
}
