package report

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pawmart/orderledger/internal/presentation/http/response"
	service "github.com/pawmart/orderledger/internal/service/report"
)

var httpTracer = otel.Tracer("github.com/pawmart/orderledger/transport/http/report")

// Handler exposes the reporting engine over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a report Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/reports")
	g.GET("/revenue", h.revenue)
	g.GET("/refunds", h.refunds)
	g.GET("/summary", h.summary)
}

func (h *Handler) revenue(c echo.Context) error {
	b := response.New(c)
	timeFrame := c.QueryParam("timeFrame")

	ctx, span := httpTracer.Start(c.Request().Context(), "reports.revenue", trace.WithAttributes(attribute.String("report.time_frame", timeFrame)))
	defer span.End()

	buckets, err := h.svc.Revenue(ctx, timeFrame)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(buckets).Build()
}

func (h *Handler) refunds(c echo.Context) error {
	b := response.New(c)
	timeFrame := c.QueryParam("timeFrame")

	ctx, span := httpTracer.Start(c.Request().Context(), "reports.refunds", trace.WithAttributes(attribute.String("report.time_frame", timeFrame)))
	defer span.End()

	buckets, err := h.svc.Refunds(ctx, timeFrame)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(buckets).Build()
}

func (h *Handler) summary(c echo.Context) error {
	b := response.New(c)
	timeFrame := c.QueryParam("timeFrame")

	ctx, span := httpTracer.Start(c.Request().Context(), "reports.summary", trace.WithAttributes(attribute.String("report.time_frame", timeFrame)))
	defer span.End()

	summary, err := h.svc.Summary(ctx, timeFrame)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(summary).Build()
}
