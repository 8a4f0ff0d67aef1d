// README: Catalog service; read lookups for ordering plus admin block control.
package catalog

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"quickbite/internal/modules/order"
	"quickbite/internal/types"
)

var ErrValidation = errors.New("validation failed")

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Food satisfies the order module's catalog contract: placement re-reads
// the current price here instead of trusting the client.
func (s *Service) Food(ctx context.Context, id types.ID) (order.FoodInfo, error) {
	f, err := s.store.GetFood(ctx, id)
	if err != nil {
		return order.FoodInfo{}, err
	}
	return order.FoodInfo{
		ID:           f.ID,
		RestaurantID: f.RestaurantID,
		Name:         f.Name,
		Price:        f.Price,
	}, nil
}

// RestaurantEmail feeds the order notifier.
func (s *Service) RestaurantEmail(ctx context.Context, id types.ID) (string, error) {
	r, err := s.store.GetRestaurant(ctx, id)
	if err != nil {
		return "", err
	}
	return r.Email, nil
}

func (s *Service) RestaurantBlocked(ctx context.Context, id types.ID) (bool, error) {
	r, err := s.store.GetRestaurant(ctx, id)
	if err != nil {
		return false, err
	}
	return r.IsBlocked, nil
}

// FoodExists satisfies the cart module's catalog check.
func (s *Service) FoodExists(ctx context.Context, id types.ID) (bool, error) {
	_, err := s.store.GetFood(ctx, id)
	if errors.Is(err, ErrFoodNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type AddRestaurantCommand struct {
	Name         string
	OwnerName    string
	Mobile       string
	Email        string
	Location     types.Point
	FSSAILicense string
	BankAccount  string
	BankIFSC     string
}

func (s *Service) AddRestaurant(ctx context.Context, cmd AddRestaurantCommand) (*Restaurant, error) {
	if cmd.Name == "" || cmd.OwnerName == "" || cmd.Mobile == "" || cmd.Email == "" {
		return nil, fmt.Errorf("%w: name, owner, mobile and email are required", ErrValidation)
	}
	if !cmd.Location.Valid() {
		return nil, fmt.Errorf("%w: restaurant location required", ErrValidation)
	}
	now := time.Now().UTC()
	r := &Restaurant{
		ID:           newID(),
		Name:         cmd.Name,
		OwnerName:    cmd.OwnerName,
		Mobile:       cmd.Mobile,
		Email:        cmd.Email,
		Location:     cmd.Location,
		FSSAILicense: cmd.FSSAILicense,
		BankAccount:  cmd.BankAccount,
		BankIFSC:     cmd.BankIFSC,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateRestaurant(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) GetRestaurant(ctx context.Context, id types.ID) (*Restaurant, error) {
	return s.store.GetRestaurant(ctx, id)
}

func (s *Service) SetRestaurantBlocked(ctx context.Context, id types.ID, blocked bool) (*Restaurant, error) {
	return s.store.SetRestaurantBlocked(ctx, id, blocked)
}

func (s *Service) NearbyRestaurants(ctx context.Context, p types.Point, radiusKm float64) ([]*Restaurant, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: latitude and longitude required", ErrValidation)
	}
	if radiusKm <= 0 {
		radiusKm = 5
	}
	return s.store.NearbyRestaurants(ctx, p, radiusKm)
}

type AddFoodCommand struct {
	RestaurantID types.ID
	Name         string
	Description  string
	Price        float64
	Category     string
	Rating       string
	DeliveryTime string
	ImageURL     string
}

func (s *Service) AddFood(ctx context.Context, cmd AddFoodCommand) (*Food, error) {
	if cmd.Name == "" || cmd.RestaurantID == "" {
		return nil, fmt.Errorf("%w: name and restaurant are required", ErrValidation)
	}
	if cmd.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if _, err := s.store.GetRestaurant(ctx, cmd.RestaurantID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	f := &Food{
		ID:           newID(),
		RestaurantID: cmd.RestaurantID,
		Name:         cmd.Name,
		Description:  cmd.Description,
		Price:        cmd.Price,
		Category:     cmd.Category,
		Rating:       cmd.Rating,
		DeliveryTime: cmd.DeliveryTime,
		ImageURL:     cmd.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateFood(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) GetFood(ctx context.Context, id types.ID) (*Food, error) {
	return s.store.GetFood(ctx, id)
}

func (s *Service) ListFoods(ctx context.Context, restaurantID types.ID) ([]*Food, error) {
	return s.store.ListFoods(ctx, restaurantID)
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
