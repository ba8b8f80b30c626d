package order

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/pawmart/orderledger/internal/entity"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A single connection keeps every statement on the same in-memory DB.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, model := range []interface{}{
		(*entity.Order)(nil),
		(*entity.Receipt)(nil),
		(*entity.CancelledOrder)(nil),
	} {
		_, err := db.NewCreateTable().Model(model).Exec(ctx)
		require.NoError(t, err)
	}
	return db
}

func newTestRepository(t *testing.T) (*Repository, *bun.DB) {
	t.Helper()
	db := newTestDB(t)
	return &Repository{writer: db, reader: db}, db
}

func sampleOrder(id string, createdAt time.Time) *entity.Order {
	return &entity.Order{
		ID: id,
		Items: []entity.OrderItem{
			{ItemRef: "item-1", Name: "Dog Bed", Price: 45, Quantity: 1},
			{ItemRef: "item-2", Name: "Chew Toy", Price: 13, Quantity: 2},
		},
		Payment: entity.PaymentCard{
			Name:             "Jamie Doe",
			CardNumberMasked: "**** **** **** 4444",
			Expiry:           "12/28",
		},
		Total:          71,
		Status:         entity.StatusPaid,
		DeliveryStatus: entity.DeliveryPending,
		CreatedAt:      createdAt,
	}
}

func sampleReceipt(id, orderID string, order *entity.Order) *entity.Receipt {
	return &entity.Receipt{
		ID:      id,
		OrderID: orderID,
		Items:   order.Items,
		Payment: order.Payment,
		Total:   order.Total,
		Date:    order.CreatedAt,
	}
}

func TestCreateWithReceipt_RoundTrip(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	createdAt := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	order := sampleOrder("order-1", createdAt)
	receipt := sampleReceipt("receipt-1", order.ID, order)

	require.NoError(t, repo.CreateWithReceipt(ctx, order, receipt))

	got, err := repo.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, order.Items, got.Items)
	assert.Equal(t, order.Payment, got.Payment)
	assert.InDelta(t, 71, got.Total, 0.001)
	assert.Equal(t, entity.DeliveryPending, got.DeliveryStatus)

	var stored entity.Receipt
	require.NoError(t, db.NewSelect().Model(&stored).Where("order_id = ?", "order-1").Scan(ctx))
	assert.Equal(t, "receipt-1", stored.ID)
	assert.Equal(t, order.Items, stored.Items)
}

func TestCreateWithReceipt_NilArguments(t *testing.T) {
	repo, _ := newTestRepository(t)

	assert.Error(t, repo.CreateWithReceipt(context.Background(), nil, &entity.Receipt{}))
	assert.Error(t, repo.CreateWithReceipt(context.Background(), &entity.Order{}, nil))
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		order := sampleOrder(id, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.CreateWithReceipt(ctx, order, sampleReceipt("r-"+id, id, order)))
	}

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "new", orders[0].ID)
	assert.Equal(t, "mid", orders[1].ID)
	assert.Equal(t, "old", orders[2].ID)
}

func TestListCreatedSince(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	before := sampleOrder("before", cutoff.Add(-time.Second))
	exact := sampleOrder("exact", cutoff)
	after := sampleOrder("after", cutoff.Add(48*time.Hour))
	for _, o := range []*entity.Order{before, exact, after} {
		require.NoError(t, repo.CreateWithReceipt(ctx, o, sampleReceipt("r-"+o.ID, o.ID, o)))
	}

	orders, err := repo.ListCreatedSince(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "exact", orders[0].ID)
	assert.Equal(t, "after", orders[1].ID)
}

func TestUpdateDeliveryStatus(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	order := sampleOrder("order-1", time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))
	require.NoError(t, repo.CreateWithReceipt(ctx, order, sampleReceipt("receipt-1", order.ID, order)))

	updated, err := repo.UpdateDeliveryStatus(ctx, "order-1", entity.DeliveryShipped)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryShipped, updated.DeliveryStatus)

	got, err := repo.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryShipped, got.DeliveryStatus)
}

func TestUpdateDeliveryStatus_NotFound(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.UpdateDeliveryStatus(context.Background(), "missing", entity.DeliveryShipped)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchive_MovesOrder(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	createdAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	order := sampleOrder("order-1", createdAt)
	require.NoError(t, repo.CreateWithReceipt(ctx, order, sampleReceipt("receipt-1", order.ID, order)))

	snapshot := &entity.CancelledOrder{
		ID:                 "cancelled-1",
		OrderID:            "order-1",
		Items:              order.Items,
		Payment:            order.Payment,
		Total:              order.Total,
		CreatedAt:          order.CreatedAt,
		DeliveryStatus:     order.DeliveryStatus,
		CancellationReason: "Customer changed mind",
		CancelledAt:        createdAt.Add(24 * time.Hour),
	}
	require.NoError(t, repo.Archive(ctx, snapshot))

	_, err := repo.GetByID(ctx, "order-1")
	assert.ErrorIs(t, err, ErrNotFound)

	var archived entity.CancelledOrder
	require.NoError(t, db.NewSelect().Model(&archived).Where("order_id = ?", "order-1").Scan(ctx))
	assert.Equal(t, "Customer changed mind", archived.CancellationReason)
	assert.Equal(t, order.Items, archived.Items)
}

func TestArchive_MissingOrderRollsBack(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	snapshot := &entity.CancelledOrder{
		ID:                 "cancelled-1",
		OrderID:            "missing",
		CancellationReason: "No longer needed",
		CancelledAt:        time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	err := repo.Archive(ctx, snapshot)
	assert.ErrorIs(t, err, ErrNotFound)

	// The rollback must discard the snapshot insert.
	count, err := db.NewSelect().Model((*entity.CancelledOrder)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestArchive_SecondAttemptFailsWithoutDuplicating(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	order := sampleOrder("order-1", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	require.NoError(t, repo.CreateWithReceipt(ctx, order, sampleReceipt("receipt-1", order.ID, order)))

	first := &entity.CancelledOrder{
		ID: "cancelled-1", OrderID: "order-1",
		CancellationReason: "Duplicate order",
		CancelledAt:        time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Archive(ctx, first))

	second := &entity.CancelledOrder{
		ID: "cancelled-2", OrderID: "order-1",
		CancellationReason: "Duplicate order",
		CancelledAt:        time.Date(2026, 3, 15, 12, 1, 0, 0, time.UTC),
	}
	assert.ErrorIs(t, repo.Archive(ctx, second), ErrNotFound)

	count, err := db.NewSelect().Model((*entity.CancelledOrder)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
