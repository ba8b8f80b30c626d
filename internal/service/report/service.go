// Package report computes time-bucketed revenue and refund aggregates
// over the order ledger.
package report

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pawmart/orderledger/internal/dto"
	cancelledrepo "github.com/pawmart/orderledger/internal/repository/cancelled"
	orderrepo "github.com/pawmart/orderledger/internal/repository/order"
	"github.com/pawmart/orderledger/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/pawmart/orderledger/service/report")

// Time frame selectors. Anything other than daily is treated as monthly.
const (
	TimeFrameDaily   = "daily"
	TimeFrameMonthly = "monthly"
)

const (
	dailyWindowDays     = 30
	monthlyWindowMonths = 12

	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "2006-01"
)

// Service aggregates orders and cancelled orders into report buckets.
// The clock is a field so tests can pin "now"; bucketing is otherwise
// wall-clock dependent.
type Service struct {
	orders    orderrepo.Store
	cancelled cancelledrepo.Store
	logger    *zap.Logger
	now       func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Orders    orderrepo.Store
	Cancelled cancelledrepo.Store
	Logger    *zap.Logger
}

// NewService wires a new reporting Service.
func NewService(p Params) *Service {
	return &Service{
		orders:    p.Orders,
		cancelled: p.Cancelled,
		logger:    p.Logger,
		now:       time.Now,
	}
}

// Module provides the reporting service to Fx.
var Module = fx.Provide(NewService)

// Revenue buckets active orders by creation time over the selected
// window. Every bucket in the window is present, zero-filled, in
// chronological order.
func (s *Service) Revenue(ctx context.Context, timeFrame string) ([]dto.ReportBucket, error) {
	ctx, span := serviceTracer.Start(ctx, "ReportService.Revenue", trace.WithAttributes(attribute.String("report.time_frame", timeFrame)))
	defer span.End()

	win := s.window(timeFrame)
	orders, err := s.orders.ListCreatedSince(ctx, win.start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load orders for report", errorbank.WithCause(err))
	}

	samples := make([]sample, 0, len(orders))
	for _, o := range orders {
		samples = append(samples, sample{at: o.CreatedAt, total: o.Total})
	}
	return win.bucket(samples), nil
}

// Refunds buckets cancelled orders by cancellation time over the
// selected window.
func (s *Service) Refunds(ctx context.Context, timeFrame string) ([]dto.ReportBucket, error) {
	ctx, span := serviceTracer.Start(ctx, "ReportService.Refunds", trace.WithAttributes(attribute.String("report.time_frame", timeFrame)))
	defer span.End()

	win := s.window(timeFrame)
	records, err := s.cancelled.ListCancelledSince(ctx, win.start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load cancelled orders for report", errorbank.WithCause(err))
	}

	samples := make([]sample, 0, len(records))
	for _, r := range records {
		samples = append(samples, sample{at: r.CancelledAt, total: r.Total})
	}
	return win.bucket(samples), nil
}

// Summary derives the dashboard headline metrics from the revenue and
// refund reports for the same window. averageOrderValue is zero when the
// window holds no orders.
func (s *Service) Summary(ctx context.Context, timeFrame string) (dto.ReportSummary, error) {
	ctx, span := serviceTracer.Start(ctx, "ReportService.Summary", trace.WithAttributes(attribute.String("report.time_frame", timeFrame)))
	defer span.End()

	revenue, err := s.Revenue(ctx, timeFrame)
	if err != nil {
		return dto.ReportSummary{}, err
	}
	refunds, err := s.Refunds(ctx, timeFrame)
	if err != nil {
		return dto.ReportSummary{}, err
	}

	var summary dto.ReportSummary
	for _, b := range revenue {
		summary.TotalRevenue += b.Total
		summary.OrderCount += b.Count
	}
	for _, b := range refunds {
		summary.TotalRefunds += b.Total
	}
	summary.NetRevenue = summary.TotalRevenue - summary.TotalRefunds
	if summary.OrderCount > 0 {
		summary.AverageOrderValue = summary.TotalRevenue / float64(summary.OrderCount)
	}
	return summary, nil
}

// sample is one record flattened to the timestamp and amount the
// aggregation cares about.
type sample struct {
	at    time.Time
	total float64
}

// reportWindow fixes the lookback start, the ordered bucket keys, and
// the timestamp-to-key mapping for one report run.
type reportWindow struct {
	start  time.Time
	keys   []string
	layout string
}

func (s *Service) window(timeFrame string) reportWindow {
	now := s.now().UTC()

	if timeFrame == TimeFrameDaily {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		keys := make([]string, 0, dailyWindowDays)
		for i := dailyWindowDays - 1; i >= 0; i-- {
			keys = append(keys, today.AddDate(0, 0, -i).Format(dayKeyLayout))
		}
		return reportWindow{
			start:  today.AddDate(0, 0, -(dailyWindowDays - 1)),
			keys:   keys,
			layout: dayKeyLayout,
		}
	}

	// Months are anchored to the first of the month so AddDate never
	// normalizes across a short month.
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	keys := make([]string, 0, monthlyWindowMonths)
	for i := monthlyWindowMonths - 1; i >= 0; i-- {
		keys = append(keys, first.AddDate(0, -i, 0).Format(monthKeyLayout))
	}
	return reportWindow{
		start:  first.AddDate(0, -(monthlyWindowMonths - 1), 0),
		keys:   keys,
		layout: monthKeyLayout,
	}
}

func (w reportWindow) bucket(samples []sample) []dto.ReportBucket {
	totals := make(map[string]float64, len(w.keys))
	counts := make(map[string]int, len(w.keys))
	for _, s := range samples {
		key := s.at.UTC().Format(w.layout)
		totals[key] += s.total
		counts[key]++
	}

	buckets := make([]dto.ReportBucket, 0, len(w.keys))
	for _, key := range w.keys {
		buckets = append(buckets, dto.ReportBucket{
			Bucket: key,
			Total:  totals[key],
			Count:  counts[key],
		})
	}
	return buckets
}
