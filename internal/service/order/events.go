package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Lifecycle event types published to the orders topic.
const (
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
)

// LifecycleEvent is emitted after an order lifecycle transition commits.
type LifecycleEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	ReceiptID  string    `json:"receiptId,omitempty"`
	Total      float64   `json:"total"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (s *Service) publishEvent(ctx context.Context, event LifecycleEvent) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal lifecycle event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	key := []byte(fmt.Sprintf("order-%s", event.OrderID))
	if err := s.publisher.Publish(ctx, key, payload); err != nil {
		s.logger.Error("publish lifecycle event", zap.String("type", event.Type), zap.Error(err))
	}
}
