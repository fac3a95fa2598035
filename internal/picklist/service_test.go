package picklist

import (
	"context"
	"errors"
	"testing"

	"fireworks-wms-api-server/internal/models"

	"go.uber.org/zap"
)

type fakeOrderStore struct {
	orders map[int64]*models.Order
	// failOn makes UpdateFulfillmentStatus fail for one order id.
	failOn int64
}

func newFakeOrderStore(orders ...*models.Order) *fakeOrderStore {
	s := &fakeOrderStore{orders: map[int64]*models.Order{}}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *fakeOrderStore) FindByIDsWithItems(ctx context.Context, ids []int64) ([]models.Order, error) {
	result := []models.Order{}
	for _, id := range ids {
		if o, ok := s.orders[id]; ok {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (s *fakeOrderStore) UpdateFulfillmentStatus(ctx context.Context, id int64, status string) error {
	if id == s.failOn {
		return errors.New("write rejected")
	}
	o, ok := s.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	o.FulfillmentStatus = status
	return nil
}

func TestCompleteTransitionsAllOrdersUnconditionally(t *testing.T) {
	store := newFakeOrderStore(
		&models.Order{ID: 1, FulfillmentStatus: models.FulfillmentUnfulfilled},
		&models.Order{ID: 2, FulfillmentStatus: models.FulfillmentUnfulfilled},
	)
	service := NewService(store, zap.NewNop())

	// No picked check happens here: completion applies regardless of how
	// many pick-list rows were checked off.
	if err := service.Complete(context.Background(), []int64{1, 2}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, id := range []int64{1, 2} {
		if got := store.orders[id].FulfillmentStatus; got != models.FulfillmentFulfilled {
			t.Errorf("Expected order %d fulfilled, got %q", id, got)
		}
	}
}

func TestCompletePartialFailureKeepsUpdatedPrefix(t *testing.T) {
	store := newFakeOrderStore(
		&models.Order{ID: 1, FulfillmentStatus: models.FulfillmentUnfulfilled},
		&models.Order{ID: 2, FulfillmentStatus: models.FulfillmentUnfulfilled},
		&models.Order{ID: 3, FulfillmentStatus: models.FulfillmentUnfulfilled},
	)
	store.failOn = 2
	service := NewService(store, zap.NewNop())

	err := service.Complete(context.Background(), []int64{1, 2, 3})
	if err == nil {
		t.Fatalf("Expected error from failing write")
	}

	// No compensating rollback: order 1 stays fulfilled, 2 and 3 untouched.
	if store.orders[1].FulfillmentStatus != models.FulfillmentFulfilled {
		t.Errorf("Expected order 1 to stay fulfilled")
	}
	if store.orders[2].FulfillmentStatus != models.FulfillmentUnfulfilled {
		t.Errorf("Expected order 2 to remain unfulfilled")
	}
	if store.orders[3].FulfillmentStatus != models.FulfillmentUnfulfilled {
		t.Errorf("Expected order 3 to remain unfulfilled")
	}
}

func TestCompleteEmptySelection(t *testing.T) {
	service := NewService(newFakeOrderStore(), zap.NewNop())

	if err := service.Complete(context.Background(), nil); err != ErrNoOrdersSelected {
		t.Fatalf("Expected ErrNoOrdersSelected, got %v", err)
	}
}

func TestBuildForOrdersLoadsFromStore(t *testing.T) {
	loc := "A-01-1-1"
	store := newFakeOrderStore(
		&models.Order{
			ID: 1, OrderNumber: "1001", CustomerName: "Anna Berger",
			Items: []models.OrderItem{
				{SKU: "FW-100", Title: "Rocket Set", Quantity: 2,
					Product: &models.Product{StorageLocation: &loc}},
			},
		},
	)
	service := NewService(store, zap.NewNop())

	items, err := service.BuildForOrders(context.Background(), []int64{1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(items) != 1 || items[0].TotalQuantity != 2 {
		t.Fatalf("Expected 1 item with quantity 2, got %+v", items)
	}

	if _, err := service.BuildForOrders(context.Background(), nil); err != ErrNoOrdersSelected {
		t.Errorf("Expected ErrNoOrdersSelected for empty selection, got %v", err)
	}

	// Ids that resolve to nothing behave like an empty selection.
	if _, err := service.BuildForOrders(context.Background(), []int64{99}); err != ErrNoOrdersSelected {
		t.Errorf("Expected ErrNoOrdersSelected for unknown ids, got %v", err)
	}
}
