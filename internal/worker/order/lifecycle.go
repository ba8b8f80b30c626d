package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pawmart/orderledger/internal/config"
	"github.com/pawmart/orderledger/internal/messaging"
	ordersvc "github.com/pawmart/orderledger/internal/service/order"
	"github.com/pawmart/orderledger/internal/worker"
)

var workerTracer = otel.Tracer("github.com/pawmart/orderledger/worker/order")

// Module registers the order lifecycle worker handler.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewLifecycleHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewLifecycleHandler consumes order lifecycle events from the orders
// topic. Unknown event types are skipped; decode failures are returned
// so the message is redelivered.
func NewLifecycleHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.lifecycle", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.LifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode lifecycle event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		span.SetAttributes(attribute.String("order.event", event.Type))

		switch event.Type {
		case ordersvc.EventOrderCreated:
			logger.Info("order created event processed",
				zap.String("order_id", event.OrderID),
				zap.String("receipt_id", event.ReceiptID),
				zap.Float64("total", event.Total),
			)
		case ordersvc.EventOrderCancelled:
			logger.Info("order cancelled event processed",
				zap.String("order_id", event.OrderID),
				zap.String("reason", event.Reason),
				zap.Float64("total", event.Total),
			)
		default:
			logger.Warn("unknown lifecycle event type", zap.String("type", event.Type))
		}

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
