package dto

import (
	"time"

	"github.com/pawmart/orderledger/internal/entity"
)

// OrderResponse represents an active order as exposed via transport layers.
type OrderResponse struct {
	ID             string             `json:"id"`
	Items          []entity.OrderItem `json:"items"`
	Payment        entity.PaymentCard `json:"payment"`
	Total          float64            `json:"total"`
	Status         string             `json:"status"`
	DeliveryStatus string             `json:"deliveryStatus"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// CheckoutResponse acknowledges a checkout with the receipt to fetch.
type CheckoutResponse struct {
	ReceiptID string `json:"receiptId"`
}

// CancelledOrderResponse represents an archived order.
type CancelledOrderResponse struct {
	ID                 string             `json:"id"`
	OrderID            string             `json:"orderId"`
	Items              []entity.OrderItem `json:"items"`
	Payment            entity.PaymentCard `json:"payment"`
	Total              float64            `json:"total"`
	CreatedAt          time.Time          `json:"createdAt"`
	DeliveryStatus     string             `json:"deliveryStatus"`
	CancellationReason string             `json:"cancellationReason"`
	CancelledAt        time.Time          `json:"cancelledAt"`
}

// FromOrder maps a stored order onto its transport shape.
func FromOrder(order *entity.Order) OrderResponse {
	return OrderResponse{
		ID:             order.ID,
		Items:          order.Items,
		Payment:        order.Payment,
		Total:          order.Total,
		Status:         order.Status,
		DeliveryStatus: order.DeliveryStatus,
		CreatedAt:      order.CreatedAt,
	}
}

// FromCancelledOrder maps an archived order onto its transport shape.
func FromCancelledOrder(co *entity.CancelledOrder) CancelledOrderResponse {
	return CancelledOrderResponse{
		ID:                 co.ID,
		OrderID:            co.OrderID,
		Items:              co.Items,
		Payment:            co.Payment,
		Total:              co.Total,
		CreatedAt:          co.CreatedAt,
		DeliveryStatus:     co.DeliveryStatus,
		CancellationReason: co.CancellationReason,
		CancelledAt:        co.CancelledAt,
	}
}
