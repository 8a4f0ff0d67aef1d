// README: Cart service; accumulates items prior to order placement.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickbite/internal/types"
)

var ErrValidation = errors.New("validation failed")

// CatalogChecker verifies that a food id resolves before it enters a
// cart, so checkout rarely discovers dangling references.
type CatalogChecker interface {
	FoodExists(ctx context.Context, id types.ID) (bool, error)
}

type Service struct {
	store   Store
	catalog CatalogChecker
}

func NewService(store Store, catalog CatalogChecker) *Service {
	return &Service{store: store, catalog: catalog}
}

func (s *Service) Add(ctx context.Context, customerID, foodID types.ID, qty int) error {
	if qty < 1 {
		qty = 1
	}
	ok, err := s.catalog.FoodExists(ctx, foodID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: food %s does not exist", ErrValidation, foodID)
	}
	return s.store.Upsert(ctx, Item{
		CustomerID: customerID,
		FoodID:     foodID,
		Quantity:   qty,
		AddedAt:    time.Now().UTC(),
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, customerID, foodID types.ID, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	return s.store.SetQuantity(ctx, customerID, foodID, qty)
}

func (s *Service) Remove(ctx context.Context, customerID, foodID types.ID) error {
	return s.store.Remove(ctx, customerID, foodID)
}

// Items returns the cart contents; an absent cart is an empty list.
func (s *Service) Items(ctx context.Context, customerID types.ID) ([]Item, error) {
	items, err := s.store.Items(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (s *Service) Clear(ctx context.Context, customerID types.ID) error {
	return s.store.Clear(ctx, customerID)
}
