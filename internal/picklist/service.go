package picklist

import (
	"context"
	"fmt"

	"fireworks-wms-api-server/internal/models"

	"go.uber.org/zap"
)

// OrderStore is the slice of the order repository the pick-list flow needs.
type OrderStore interface {
	FindByIDsWithItems(ctx context.Context, ids []int64) ([]models.Order, error)
	UpdateFulfillmentStatus(ctx context.Context, id int64, status string) error
}

type Service struct {
	Orders OrderStore
	Log    *zap.Logger
}

func NewService(orders OrderStore, log *zap.Logger) *Service {
	return &Service{Orders: orders, Log: log}
}

// BuildForOrders loads the selected orders with their items and builds the
// consolidated pick list.
func (s *Service) BuildForOrders(ctx context.Context, orderIDs []int64) ([]*Item, error) {
	if len(orderIDs) == 0 {
		return nil, ErrNoOrdersSelected
	}

	orders, err := s.Orders.FindByIDsWithItems(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, ErrNoOrdersSelected
	}

	return Build(orders)
}

// Complete marks every selected order fulfilled. The transition is applied
// unconditionally, whether or not every row of the pick list was checked
// off; confirming intent for unpicked rows is the caller's job. Writes are
// per order with no rollback: on error the orders already updated stay
// updated and the error surfaces to the caller.
func (s *Service) Complete(ctx context.Context, orderIDs []int64) error {
	if len(orderIDs) == 0 {
		return ErrNoOrdersSelected
	}

	for _, id := range orderIDs {
		if err := s.Orders.UpdateFulfillmentStatus(ctx, id, models.FulfillmentFulfilled); err != nil {
			return fmt.Errorf("failed to fulfill order %d: %w", id, err)
		}
		s.Log.Info("order fulfilled", zap.Int64("orderID", id))
	}

	return nil
}
