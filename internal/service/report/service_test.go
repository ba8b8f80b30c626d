package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pawmart/orderledger/internal/entity"
)

var testNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

// fakeOrderSource implements the slice of orderrepo.Store the reporting
// engine touches; the rest panics if reached.
type fakeOrderSource struct {
	orders []entity.Order
	since  time.Time
}

func (f *fakeOrderSource) CreateWithReceipt(context.Context, *entity.Order, *entity.Receipt) error {
	panic("not used by reports")
}

func (f *fakeOrderSource) GetByID(context.Context, string) (*entity.Order, error) {
	panic("not used by reports")
}

func (f *fakeOrderSource) List(context.Context) ([]entity.Order, error) {
	panic("not used by reports")
}

func (f *fakeOrderSource) UpdateDeliveryStatus(context.Context, string, string) (*entity.Order, error) {
	panic("not used by reports")
}

func (f *fakeOrderSource) Archive(context.Context, *entity.CancelledOrder) error {
	panic("not used by reports")
}

func (f *fakeOrderSource) ListCreatedSince(_ context.Context, since time.Time) ([]entity.Order, error) {
	f.since = since
	var out []entity.Order
	for _, o := range f.orders {
		if !o.CreatedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeCancelledSource struct {
	records []entity.CancelledOrder
	since   time.Time
}

func (f *fakeCancelledSource) List(context.Context) ([]entity.CancelledOrder, error) {
	panic("not used by reports")
}

func (f *fakeCancelledSource) TotalRefunded(context.Context) (float64, error) {
	panic("not used by reports")
}

func (f *fakeCancelledSource) Delete(context.Context, string) error {
	panic("not used by reports")
}

func (f *fakeCancelledSource) ListCancelledSince(_ context.Context, since time.Time) ([]entity.CancelledOrder, error) {
	f.since = since
	var out []entity.CancelledOrder
	for _, r := range f.records {
		if !r.CancelledAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestService(orders *fakeOrderSource, cancelled *fakeCancelledSource) *Service {
	return &Service{
		orders:    orders,
		cancelled: cancelled,
		logger:    zap.NewNop(),
		now:       func() time.Time { return testNow },
	}
}

func orderAt(at time.Time, total float64) entity.Order {
	return entity.Order{ID: "o", Total: total, CreatedAt: at}
}

func cancelledAt(at time.Time, total float64) entity.CancelledOrder {
	return entity.CancelledOrder{ID: "c", Total: total, CancelledAt: at}
}

func TestRevenue_DailySumsTodaysOrders(t *testing.T) {
	orders := &fakeOrderSource{orders: []entity.Order{
		orderAt(testNow.Add(-time.Hour), 100),
		orderAt(testNow.Add(-2*time.Hour), 200),
		orderAt(testNow.Add(-3*time.Hour), 300),
	}}
	svc := newTestService(orders, &fakeCancelledSource{})

	buckets, err := svc.Revenue(context.Background(), TimeFrameDaily)

	require.NoError(t, err)
	require.Len(t, buckets, 30)

	today := buckets[len(buckets)-1]
	assert.Equal(t, "2026-03-15", today.Bucket)
	assert.InDelta(t, 600, today.Total, 0.001)
	assert.Equal(t, 3, today.Count)
}

func TestRevenue_DailyWindowIsZeroFilledAndChronological(t *testing.T) {
	orders := &fakeOrderSource{orders: []entity.Order{
		orderAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), 50),
	}}
	svc := newTestService(orders, &fakeCancelledSource{})

	buckets, err := svc.Revenue(context.Background(), TimeFrameDaily)

	require.NoError(t, err)
	require.Len(t, buckets, 30)
	assert.Equal(t, "2026-02-14", buckets[0].Bucket)
	assert.Equal(t, "2026-03-15", buckets[29].Bucket)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), orders.since)

	for i := 1; i < len(buckets); i++ {
		assert.Less(t, buckets[i-1].Bucket, buckets[i].Bucket)
	}

	var nonZero int
	for _, b := range buckets {
		if b.Count > 0 {
			nonZero++
			assert.Equal(t, "2026-03-01", b.Bucket)
		}
	}
	assert.Equal(t, 1, nonZero)
}

func TestRevenue_MonthlyIsTheDefault(t *testing.T) {
	orders := &fakeOrderSource{orders: []entity.Order{
		orderAt(time.Date(2025, 7, 20, 8, 0, 0, 0, time.UTC), 120),
		orderAt(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), 80),
	}}

	for _, frame := range []string{TimeFrameMonthly, "", "weekly"} {
		svc := newTestService(orders, &fakeCancelledSource{})

		buckets, err := svc.Revenue(context.Background(), frame)

		require.NoError(t, err)
		require.Len(t, buckets, 12)
		assert.Equal(t, "2025-04", buckets[0].Bucket)
		assert.Equal(t, "2026-03", buckets[11].Bucket)
		assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), orders.since)

		for _, b := range buckets {
			switch b.Bucket {
			case "2025-07":
				assert.InDelta(t, 120, b.Total, 0.001)
				assert.Equal(t, 1, b.Count)
			case "2026-03":
				assert.InDelta(t, 80, b.Total, 0.001)
				assert.Equal(t, 1, b.Count)
			default:
				assert.Zero(t, b.Total)
				assert.Zero(t, b.Count)
			}
		}
	}
}

func TestRefunds_BucketByCancellationTime(t *testing.T) {
	cancelled := &fakeCancelledSource{records: []entity.CancelledOrder{
		// Created long ago, cancelled today: counts for today.
		{ID: "c1", Total: 45, CreatedAt: testNow.AddDate(-1, 0, 0), CancelledAt: testNow.Add(-time.Minute)},
		cancelledAt(testNow.AddDate(0, 0, -40), 99), // outside the daily window
	}}
	svc := newTestService(&fakeOrderSource{}, cancelled)

	buckets, err := svc.Refunds(context.Background(), TimeFrameDaily)

	require.NoError(t, err)
	require.Len(t, buckets, 30)

	today := buckets[len(buckets)-1]
	assert.InDelta(t, 45, today.Total, 0.001)
	assert.Equal(t, 1, today.Count)

	var sum float64
	for _, b := range buckets {
		sum += b.Total
	}
	assert.InDelta(t, 45, sum, 0.001, "records outside the window are excluded")
}

func TestSummary(t *testing.T) {
	orders := &fakeOrderSource{orders: []entity.Order{
		orderAt(testNow.Add(-time.Hour), 100),
		orderAt(testNow.Add(-2*time.Hour), 200),
		orderAt(testNow.Add(-26*time.Hour), 300),
	}}
	cancelled := &fakeCancelledSource{records: []entity.CancelledOrder{
		cancelledAt(testNow.Add(-time.Hour), 150),
	}}
	svc := newTestService(orders, cancelled)

	summary, err := svc.Summary(context.Background(), TimeFrameDaily)

	require.NoError(t, err)
	assert.InDelta(t, 600, summary.TotalRevenue, 0.001)
	assert.InDelta(t, 150, summary.TotalRefunds, 0.001)
	assert.InDelta(t, 450, summary.NetRevenue, 0.001)
	assert.Equal(t, 3, summary.OrderCount)
	assert.InDelta(t, 200, summary.AverageOrderValue, 0.001)
}

func TestSummary_EmptyWindowHasZeroAverage(t *testing.T) {
	svc := newTestService(&fakeOrderSource{}, &fakeCancelledSource{})

	summary, err := svc.Summary(context.Background(), TimeFrameMonthly)

	require.NoError(t, err)
	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.OrderCount)
	assert.Zero(t, summary.AverageOrderValue)
}
