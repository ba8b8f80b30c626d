package order

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pawmart/orderledger/internal/dto"
	"github.com/pawmart/orderledger/internal/entity"
	"github.com/pawmart/orderledger/internal/payment"
	"github.com/pawmart/orderledger/internal/presentation/http/response"
	service "github.com/pawmart/orderledger/internal/service/order"
	"github.com/pawmart/orderledger/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/pawmart/orderledger/transport/http/order")

// Handler exposes the order lifecycle over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/orders")
	g.POST("", h.checkout)
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.PUT("/:id/status", h.updateStatus)
	g.POST("/:id/cancel", h.cancel)

	e.GET("/receipts/:id", h.getReceipt)

	c := e.Group("/cancelledorders")
	c.GET("", h.listCancelled)
	c.GET("/total", h.totalRefunded)
	c.DELETE("/:id", h.deleteCancelled)
}

// checkoutPayload mirrors the checkout submission: the cart snapshot,
// the raw payment capture, and the client-computed total.
type checkoutPayload struct {
	Items   []entity.OrderItem `json:"items"`
	Payment payment.Card       `json:"payment"`
	Total   float64            `json:"total"`
}

func (h *Handler) checkout(c echo.Context) error {
	b := response.New(c)

	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.checkout", trace.WithAttributes(attribute.Int("order.items", len(payload.Items))))
	defer span.End()

	receiptID, err := h.svc.Checkout(ctx, service.CheckoutInput{
		Items:   payload.Items,
		Payment: payload.Payment,
		Total:   payload.Total,
	})
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.CheckoutResponse{ReceiptID: receiptID}).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list")
	defer span.End()

	orders, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, dto.FromOrder(&orders[i]))
	}
	return b.WithData(out).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)
	id := c.Param("id")

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromOrder(order)).Build()
}

func (h *Handler) updateStatus(c echo.Context) error {
	b := response.New(c)
	id := c.Param("id")

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.updateStatus",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("order.delivery_status", payload.Status)))
	defer span.End()

	order, err := h.svc.UpdateDeliveryStatus(ctx, id, payload.Status)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromOrder(order)).Build()
}

func (h *Handler) cancel(c echo.Context) error {
	b := response.New(c)
	id := c.Param("id")

	var payload struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.cancel", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if err := h.svc.Cancel(ctx, id, payload.Reason); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]string{"message": "order cancelled"}).Build()
}

func (h *Handler) getReceipt(c echo.Context) error {
	b := response.New(c)
	id := c.Param("id")

	ctx, span := httpTracer.Start(c.Request().Context(), "receipts.getByID", trace.WithAttributes(attribute.String("receipt.id", id)))
	defer span.End()

	receipt, err := h.svc.GetReceipt(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromReceipt(receipt)).Build()
}

func (h *Handler) listCancelled(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "cancelledorders.list")
	defer span.End()

	records, err := h.svc.ListCancelled(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.CancelledOrderResponse, 0, len(records))
	for i := range records {
		out = append(out, dto.FromCancelledOrder(&records[i]))
	}
	return b.WithData(out).Build()
}

func (h *Handler) totalRefunded(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "cancelledorders.total")
	defer span.End()

	total, err := h.svc.TotalRefunded(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.TotalRefundedResponse{Total: total}).Build()
}

func (h *Handler) deleteCancelled(c echo.Context) error {
	b := response.New(c)
	id := c.Param("id")

	ctx, span := httpTracer.Start(c.Request().Context(), "cancelledorders.delete", trace.WithAttributes(attribute.String("cancelled.id", id)))
	defer span.End()

	if err := h.svc.DeleteCancelled(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]string{"message": "cancelled order removed"}).Build()
}
