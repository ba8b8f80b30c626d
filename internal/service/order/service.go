package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pawmart/orderledger/internal/cache"
	"github.com/pawmart/orderledger/internal/config"
	"github.com/pawmart/orderledger/internal/entity"
	"github.com/pawmart/orderledger/internal/messaging"
	"github.com/pawmart/orderledger/internal/payment"
	cancelledrepo "github.com/pawmart/orderledger/internal/repository/cancelled"
	orderrepo "github.com/pawmart/orderledger/internal/repository/order"
	receiptrepo "github.com/pawmart/orderledger/internal/repository/receipt"
	"github.com/pawmart/orderledger/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/pawmart/orderledger/service/order")

// totalEpsilon bounds acceptable rounding drift between the submitted
// total and the recomputed item sum.
const totalEpsilon = 0.01

// CheckoutInput is the payload accepted from a checkout submission. The
// payment capture is still raw at this point; it is redacted before
// anything is persisted.
type CheckoutInput struct {
	Items   []entity.OrderItem
	Payment payment.Card
	Total   float64
}

// Service owns the order lifecycle: checkout, delivery status updates,
// archival, and the cancelled-order ledger.
type Service struct {
	orders    orderrepo.Store
	receipts  receiptrepo.Store
	cancelled cancelledrepo.Store
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
	now       func() time.Time
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Orders    orderrepo.Store
	Receipts  receiptrepo.Store
	Cancelled cancelledrepo.Store
	Cache     cache.Store
	Config    config.Config
	Logger    *zap.Logger
	Publisher messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		orders:    p.Orders,
		receipts:  p.Receipts,
		cancelled: p.Cancelled,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    p.Logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
		now: time.Now,
	}
}

// Checkout redacts the payment capture, writes the order and its receipt
// as one transaction, and returns the receipt identifier. The submitted
// total must match the recomputed item sum within rounding tolerance.
func (s *Service) Checkout(ctx context.Context, input CheckoutInput) (string, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Checkout", trace.WithAttributes(attribute.Int("order.items", len(input.Items))))
	defer span.End()

	if len(input.Items) == 0 {
		return "", errorbank.BadRequest("cart is empty")
	}

	redacted, err := payment.Redact(input.Payment)
	if err != nil {
		if errors.Is(err, payment.ErrMalformedPayment) {
			return "", errorbank.BadRequest("malformed payment capture")
		}
		return "", errorbank.Internal("failed to redact payment", errorbank.WithCause(err))
	}

	var computed float64
	for _, item := range input.Items {
		computed += item.Price * float64(item.Quantity)
	}
	if math.Abs(computed-input.Total) > totalEpsilon {
		return "", errorbank.BadRequest("total mismatch",
			errorbank.WithDetail("submitted", input.Total),
			errorbank.WithDetail("computed", computed),
		)
	}

	now := s.now().UTC()
	order := &entity.Order{
		ID:             uuid.NewString(),
		Items:          input.Items,
		Payment:        redacted,
		Total:          input.Total,
		Status:         entity.StatusPaid,
		DeliveryStatus: entity.DeliveryPending,
		CreatedAt:      now,
	}
	receipt := &entity.Receipt{
		ID:      uuid.NewString(),
		OrderID: order.ID,
		Items:   input.Items,
		Payment: redacted,
		Total:   input.Total,
		Date:    now,
	}

	if err := s.orders.CreateWithReceipt(ctx, order, receipt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return "", errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	s.cacheOrder(ctx, order)
	s.cacheReceipt(ctx, receipt)
	s.publishEvent(ctx, LifecycleEvent{
		Type:       EventOrderCreated,
		OrderID:    order.ID,
		ReceiptID:  receipt.ID,
		Total:      order.Total,
		OccurredAt: now,
	})

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("receipt_id", receipt.ID),
		zap.Float64("total", order.Total),
	)
	return receipt.ID, nil
}

// List returns every active order, newest first.
func (s *Service) List(ctx context.Context) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	orders, err := s.orders.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// Get retrieves an active order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if order, err := s.orderFromCache(ctx, id); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.String("id", id), zap.Error(err))
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderrepo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	s.cacheOrder(ctx, order)
	return order, nil
}

// UpdateDeliveryStatus sets the delivery state of an active order. Any
// member of the status set may be assigned, including moving backward;
// only membership is validated.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.UpdateDeliveryStatus",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("order.delivery_status", status)))
	defer span.End()

	if !entity.ValidDeliveryStatus(status) {
		return nil, errorbank.BadRequest("unknown delivery status", errorbank.WithDetail("status", status))
	}

	order, err := s.orders.UpdateDeliveryStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, orderrepo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update delivery status", errorbank.WithCause(err))
	}

	s.cacheOrder(ctx, order)
	return order, nil
}

// GetReceipt fetches a receipt by its identifier. Receipts never change,
// so cache hits are always valid.
func (s *Service) GetReceipt(ctx context.Context, id string) (*entity.Receipt, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.GetReceipt", trace.WithAttributes(attribute.String("receipt.id", id)))
	defer span.End()

	if receipt, err := s.receiptFromCache(ctx, id); err == nil {
		return receipt, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("receipts cache read failed", zap.String("id", id), zap.Error(err))
	}

	receipt, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, receiptrepo.ErrNotFound) {
			return nil, errorbank.NotFound("receipt not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load receipt", errorbank.WithCause(err))
	}

	s.cacheReceipt(ctx, receipt)
	return receipt, nil
}

func (s *Service) orderCacheKey(id string) string {
	return fmt.Sprintf("orders:%s", id)
}

func (s *Service) receiptCacheKey(id string) string {
	return fmt.Sprintf("receipts:%s", id)
}

func (s *Service) orderFromCache(ctx context.Context, id string) (*entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.orderCacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) cacheOrder(ctx context.Context, order *entity.Order) {
	if s.cache == nil || order == nil {
		return
	}
	bytes, err := json.Marshal(order)
	if err == nil {
		err = s.cache.Set(ctx, s.orderCacheKey(order.ID), bytes, s.cacheTTL)
	}
	if err != nil {
		s.logger.Warn("orders cache write failed", zap.String("id", order.ID), zap.Error(err))
	}
}

func (s *Service) dropCachedOrder(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.orderCacheKey(id)); err != nil {
		s.logger.Warn("orders cache delete failed", zap.String("id", id), zap.Error(err))
	}
}

func (s *Service) receiptFromCache(ctx context.Context, id string) (*entity.Receipt, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.receiptCacheKey(id))
	if err != nil {
		return nil, err
	}
	var receipt entity.Receipt
	if err := json.Unmarshal(bytes, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (s *Service) cacheReceipt(ctx context.Context, receipt *entity.Receipt) {
	if s.cache == nil || receipt == nil {
		return
	}
	bytes, err := json.Marshal(receipt)
	if err == nil {
		err = s.cache.Set(ctx, s.receiptCacheKey(receipt.ID), bytes, s.cacheTTL)
	}
	if err != nil {
		s.logger.Warn("receipts cache write failed", zap.String("id", receipt.ID), zap.Error(err))
	}
}
