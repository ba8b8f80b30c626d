package dto

import (
	"time"

	"github.com/pawmart/orderledger/internal/entity"
)

// ReceiptResponse represents a receipt as exposed via transport layers.
type ReceiptResponse struct {
	ID      string             `json:"id"`
	OrderID string             `json:"orderId"`
	Items   []entity.OrderItem `json:"items"`
	Payment entity.PaymentCard `json:"payment"`
	Total   float64            `json:"total"`
	Date    time.Time          `json:"date"`
}

// FromReceipt maps a stored receipt onto its transport shape.
func FromReceipt(receipt *entity.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:      receipt.ID,
		OrderID: receipt.OrderID,
		Items:   receipt.Items,
		Payment: receipt.Payment,
		Total:   receipt.Total,
		Date:    receipt.Date,
	}
}
