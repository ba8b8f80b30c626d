package order

import (
	"context"
	"sort"
	"time"

	"github.com/pawmart/orderledger/internal/entity"
	cancelledrepo "github.com/pawmart/orderledger/internal/repository/cancelled"
	orderrepo "github.com/pawmart/orderledger/internal/repository/order"
	receiptrepo "github.com/pawmart/orderledger/internal/repository/receipt"
)

// mockOrderStore implements orderrepo.Store with in-memory semantics
// matching the SQL repository: transactional pairing and archival.
type mockOrderStore struct {
	orders     map[string]*entity.Order
	receipts   map[string]*entity.Receipt
	archived   []*entity.CancelledOrder
	createErr  error
	archiveErr error
	updateErr  error
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{
		orders:   make(map[string]*entity.Order),
		receipts: make(map[string]*entity.Receipt),
	}
}

func (m *mockOrderStore) CreateWithReceipt(_ context.Context, order *entity.Order, receipt *entity.Receipt) error {
	if m.createErr != nil {
		return m.createErr
	}
	o := *order
	r := *receipt
	m.orders[o.ID] = &o
	m.receipts[r.ID] = &r
	return nil
}

func (m *mockOrderStore) GetByID(_ context.Context, id string) (*entity.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, orderrepo.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderStore) List(_ context.Context) ([]entity.Order, error) {
	out := make([]entity.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockOrderStore) ListCreatedSince(_ context.Context, since time.Time) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range m.orders {
		if !o.CreatedAt.Before(since) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockOrderStore) UpdateDeliveryStatus(_ context.Context, id, status string) (*entity.Order, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	order, ok := m.orders[id]
	if !ok {
		return nil, orderrepo.ErrNotFound
	}
	order.DeliveryStatus = status
	copied := *order
	return &copied, nil
}

func (m *mockOrderStore) Archive(_ context.Context, snapshot *entity.CancelledOrder) error {
	if m.archiveErr != nil {
		return m.archiveErr
	}
	if _, ok := m.orders[snapshot.OrderID]; !ok {
		return orderrepo.ErrNotFound
	}
	copied := *snapshot
	m.archived = append(m.archived, &copied)
	delete(m.orders, snapshot.OrderID)
	return nil
}

// mockReceiptStore implements receiptrepo.Store over the order mock's
// receipt map so pairing can be asserted.
type mockReceiptStore struct {
	backing *mockOrderStore
}

func (m *mockReceiptStore) GetByID(_ context.Context, id string) (*entity.Receipt, error) {
	receipt, ok := m.backing.receipts[id]
	if !ok {
		return nil, receiptrepo.ErrNotFound
	}
	copied := *receipt
	return &copied, nil
}

func (m *mockReceiptStore) GetByOrderID(_ context.Context, orderID string) (*entity.Receipt, error) {
	for _, receipt := range m.backing.receipts {
		if receipt.OrderID == orderID {
			copied := *receipt
			return &copied, nil
		}
	}
	return nil, receiptrepo.ErrNotFound
}

// mockCancelledStore implements cancelledrepo.Store over the order
// mock's archive slice.
type mockCancelledStore struct {
	backing   *mockOrderStore
	deleteErr error
}

func (m *mockCancelledStore) List(_ context.Context) ([]entity.CancelledOrder, error) {
	out := make([]entity.CancelledOrder, 0, len(m.backing.archived))
	for _, record := range m.backing.archived {
		out = append(out, *record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CancelledAt.After(out[j].CancelledAt) })
	return out, nil
}

func (m *mockCancelledStore) ListCancelledSince(_ context.Context, since time.Time) ([]entity.CancelledOrder, error) {
	var out []entity.CancelledOrder
	for _, record := range m.backing.archived {
		if !record.CancelledAt.Before(since) {
			out = append(out, *record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CancelledAt.Before(out[j].CancelledAt) })
	return out, nil
}

func (m *mockCancelledStore) TotalRefunded(_ context.Context) (float64, error) {
	var total float64
	for _, record := range m.backing.archived {
		total += record.Total
	}
	return total, nil
}

func (m *mockCancelledStore) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, record := range m.backing.archived {
		if record.ID == id {
			m.backing.archived = append(m.backing.archived[:i], m.backing.archived[i+1:]...)
			return nil
		}
	}
	return cancelledrepo.ErrNotFound
}
