package order

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pawmart/orderledger/internal/entity"
	cancelledrepo "github.com/pawmart/orderledger/internal/repository/cancelled"
	orderrepo "github.com/pawmart/orderledger/internal/repository/order"
	"github.com/pawmart/orderledger/pkg/errorbank"
)

// Cancel moves an active order into the cancelled-order ledger. Delivered
// orders are refused. Resubmitting a cancellation whose first attempt
// already removed the order reports not_found rather than failing oddly,
// so callers can retry safely.
func (s *Service) Cancel(ctx context.Context, id, reason string) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Cancel", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errorbank.BadRequest("cancellation reason is required")
	}

	// Read straight from the store; a cached copy could hide a concurrent
	// delivery or cancellation.
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderrepo.ErrNotFound) {
			return errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if order.DeliveryStatus == entity.DeliveryDelivered {
		return errorbank.Conflict("cannot cancel delivered orders")
	}

	cancelledAt := s.now().UTC()
	snapshot := &entity.CancelledOrder{
		ID:                 uuid.NewString(),
		OrderID:            order.ID,
		Items:              order.Items,
		Payment:            order.Payment,
		Total:              order.Total,
		CreatedAt:          order.CreatedAt,
		DeliveryStatus:     order.DeliveryStatus,
		CancellationReason: reason,
		CancelledAt:        cancelledAt,
	}

	if err := s.orders.Archive(ctx, snapshot); err != nil {
		if errors.Is(err, orderrepo.ErrNotFound) {
			// Lost a race with another cancellation; the order is already
			// archived and the transaction rolled this snapshot back.
			return errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to cancel order", errorbank.WithCause(err))
	}

	s.dropCachedOrder(ctx, id)
	s.publishEvent(ctx, LifecycleEvent{
		Type:       EventOrderCancelled,
		OrderID:    order.ID,
		Total:      order.Total,
		Reason:     reason,
		OccurredAt: cancelledAt,
	})

	s.logger.Info("order cancelled",
		zap.String("order_id", order.ID),
		zap.String("delivery_status", order.DeliveryStatus),
		zap.Float64("total", order.Total),
	)
	return nil
}

// ListCancelled returns every archived order, most recent first.
func (s *Service) ListCancelled(ctx context.Context) ([]entity.CancelledOrder, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ListCancelled")
	defer span.End()

	records, err := s.cancelled.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list cancelled orders", errorbank.WithCause(err))
	}
	return records, nil
}

// TotalRefunded reports the all-time sum of archived order totals.
func (s *Service) TotalRefunded(ctx context.Context) (float64, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.TotalRefunded")
	defer span.End()

	total, err := s.cancelled.TotalRefunded(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return 0, errorbank.Internal("failed to sum refunds", errorbank.WithCause(err))
	}
	return total, nil
}

// DeleteCancelled removes an archival record once its refund has been
// paid out.
func (s *Service) DeleteCancelled(ctx context.Context, id string) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.DeleteCancelled", trace.WithAttributes(attribute.String("cancelled.id", id)))
	defer span.End()

	if err := s.cancelled.Delete(ctx, id); err != nil {
		if errors.Is(err, cancelledrepo.ErrNotFound) {
			return errorbank.NotFound("cancelled order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete cancelled order", errorbank.WithCause(err))
	}

	s.logger.Info("cancelled order finalized", zap.String("cancelled_id", id))
	return nil
}
