// README: Order service implements placement, the three-axis state machine and role scoping.
package order

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"quickbite/internal/types"
)

var (
	ErrNotFound           = errors.New("order not found")
	ErrValidation         = errors.New("validation failed")
	ErrMissingLocation    = errors.New("delivery location required")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrMixedRestaurants   = errors.New("cart items span multiple restaurants")
	ErrRestaurantBlocked  = errors.New("restaurant is blocked")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrConflict           = errors.New("order state conflict")
	ErrForbidden          = errors.New("operation not allowed for caller")
	ErrNoPartnerAvailable = errors.New("no delivery partner available")
)

// FoodInfo is the catalog view the order service needs at placement time.
// Prices are always re-fetched here, never trusted from the client.
type FoodInfo struct {
	ID           types.ID
	RestaurantID types.ID
	Name         string
	Price        float64
}

type Catalog interface {
	Food(ctx context.Context, id types.ID) (FoodInfo, error)
	RestaurantBlocked(ctx context.Context, id types.ID) (bool, error)
}

// Assigner binds the nearest free delivery partner to a confirmed order.
// AssignNearest returns ErrNoPartnerAvailable when the radius is empty;
// Release is idempotent.
type Assigner interface {
	AssignNearest(ctx context.Context, orderID types.ID, loc types.Point) (types.ID, error)
	Release(ctx context.Context, partnerID types.ID) error
}

// Notifier receives state-change events. Implementations must be
// fire-and-forget: they may not block or fail the triggering operation.
type Notifier interface {
	OrderPlaced(o *Order)
	OrderStatusChanged(o *Order, axis, from, to string)
}

// TimeoutPolicy decides whether an order stuck in `placed` should be
// auto-rejected. The product has no SLA today, so the default policy
// never expires anything; the monitor is the extension point.
type TimeoutPolicy interface {
	Expired(o *Order, now time.Time) bool
}

type neverExpire struct{}

func (neverExpire) Expired(*Order, time.Time) bool { return false }

// NeverExpire keeps placed orders pending indefinitely.
var NeverExpire TimeoutPolicy = neverExpire{}

// Requester identifies the caller for scoped reads and mutations.
type Requester struct {
	ID      types.ID
	Role    string
	IsAdmin bool
}

type Service struct {
	store    Store
	catalog  Catalog
	assigner Assigner
	notifier Notifier
	timeout  TimeoutPolicy
	log      *logrus.Logger
}

func NewService(store Store, catalog Catalog, assigner Assigner, notifier Notifier, log *logrus.Logger) *Service {
	return &Service{
		store:    store,
		catalog:  catalog,
		assigner: assigner,
		notifier: notifier,
		timeout:  NeverExpire,
		log:      log,
	}
}

// SetTimeoutPolicy replaces the default never-expire policy.
func (s *Service) SetTimeoutPolicy(p TimeoutPolicy) {
	if p != nil {
		s.timeout = p
	}
}

type PlaceCommand struct {
	CustomerID    types.ID
	Address       string
	Mobile        string
	PaymentMethod PaymentMethod
	Location      types.Point
}

// Place turns the customer's cart into an order. The cart snapshot and
// cart clearing are atomic; notifications go out only after commit.
func (s *Service) Place(ctx context.Context, cmd PlaceCommand) (*Order, error) {
	if cmd.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer id required", ErrValidation)
	}
	if !cmd.Location.Valid() {
		return nil, ErrMissingLocation
	}
	if cmd.Mobile == "" {
		return nil, fmt.Errorf("%w: mobile number required", ErrValidation)
	}
	if cmd.Address == "" {
		return nil, fmt.Errorf("%w: delivery address required", ErrValidation)
	}
	method := cmd.PaymentMethod
	if method == "" {
		method = PaymentCOD
	}
	if !ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, cmd.PaymentMethod)
	}

	o, err := s.store.PlaceFromCart(ctx, cmd.CustomerID, func(items []LineRequest) (*Order, error) {
		return s.buildOrder(ctx, cmd, method, items)
	})
	if err != nil {
		return nil, err
	}

	s.appendEvent(ctx, o.ID, "order", "", string(StatusPlaced), "customer", &cmd.CustomerID)
	if s.notifier != nil {
		s.notifier.OrderPlaced(o)
	}
	return o, nil
}

// buildOrder resolves cart entries against the catalog and snapshots
// name/price per line. Runs inside the placement transaction.
func (s *Service) buildOrder(ctx context.Context, cmd PlaceCommand, method PaymentMethod, items []LineRequest) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	var restaurantID types.ID
	lines := make([]LineItem, 0, len(items))
	total := 0.0
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
		food, err := s.catalog.Food(ctx, it.FoodID)
		if err != nil {
			return nil, fmt.Errorf("%w: food %s does not exist", ErrValidation, it.FoodID)
		}
		if restaurantID == "" {
			restaurantID = food.RestaurantID
		} else if food.RestaurantID != restaurantID {
			// The legacy system silently dropped items from other
			// restaurants; we reject the whole cart instead.
			return nil, ErrMixedRestaurants
		}
		lines = append(lines, LineItem{
			FoodID:    food.ID,
			Name:      food.Name,
			UnitPrice: food.Price,
			Quantity:  it.Quantity,
		})
		total += food.Price * float64(it.Quantity)
	}

	blocked, err := s.catalog.RestaurantBlocked(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrRestaurantBlocked
	}

	now := time.Now().UTC()
	return &Order{
		ID:             newID(),
		CustomerID:     cmd.CustomerID,
		RestaurantID:   restaurantID,
		Items:          lines,
		TotalPrice:     total,
		PaymentMethod:  method,
		Address:        cmd.Address,
		Mobile:         cmd.Mobile,
		Location:       cmd.Location,
		Status:         StatusPlaced,
		DeliveryStatus: DeliveryPending,
		PaymentStatus:  PaymentPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

type DecideCommand struct {
	OrderID types.ID
	Confirm bool
	Actor   Requester
}

// RestaurantDecision handles confirm/reject. Confirming triggers
// assignment; an empty partner pool leaves the order in `confirmed`
// awaiting retry, which is not an error for the caller.
func (s *Service) RestaurantDecision(ctx context.Context, cmd DecideCommand) (*Order, error) {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if !cmd.Actor.IsAdmin && o.RestaurantID != cmd.Actor.ID {
		return nil, ErrForbidden
	}

	target := StatusRejected
	if cmd.Confirm {
		target = StatusConfirmed
	}
	if !CanTransition(o.Status, target) {
		return nil, ErrInvalidTransition
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	s.appendEvent(ctx, o.ID, "order", string(o.Status), string(target), cmd.Actor.Role, &cmd.Actor.ID)

	if cmd.Confirm {
		if err := s.tryAssign(ctx, o); err != nil && !errors.Is(err, ErrNoPartnerAvailable) {
			return nil, err
		}
	}

	updated, err := s.store.Get(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(updated, "order", string(o.Status), string(updated.Status))
	}
	return updated, nil
}

// RetryAssignment re-runs assignment for a confirmed order that never
// got a partner. Admin-only at the API layer.
func (s *Service) RetryAssignment(ctx context.Context, orderID types.ID) (*Order, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusConfirmed || o.PartnerID != nil {
		return nil, ErrInvalidTransition
	}
	if err := s.tryAssign(ctx, o); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, orderID)
}

func (s *Service) tryAssign(ctx context.Context, o *Order) error {
	partnerID, err := s.assigner.AssignNearest(ctx, o.ID, o.Location)
	if errors.Is(err, ErrNoPartnerAvailable) {
		s.log.WithField("order_id", o.ID).Info("no delivery partner in radius, order stays confirmed")
		return err
	}
	if err != nil {
		return err
	}
	s.appendEvent(ctx, o.ID, "order", string(StatusConfirmed), string(StatusAssigned), "system", &partnerID)
	return nil
}

type ProgressCommand struct {
	OrderID   types.ID
	PartnerID types.ID
	Target    DeliveryStatus
}

// ProgressDelivery advances the delivery axis. Only the assigned partner
// may call it, and only to the immediate successor state.
func (s *Service) ProgressDelivery(ctx context.Context, cmd ProgressCommand) (*Order, error) {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if o.PartnerID == nil || *o.PartnerID != cmd.PartnerID {
		return nil, ErrForbidden
	}
	if !CanProgressDelivery(o.DeliveryStatus, cmd.Target) {
		return nil, ErrInvalidTransition
	}
	mirror := MirrorStatus(cmd.Target)
	if !CanTransition(o.Status, mirror) {
		return nil, ErrInvalidTransition
	}

	var ok bool
	if cmd.Target == DeliveryDelivered {
		// Terminal transition and partner release are one transaction.
		ok, err = s.store.MarkDelivered(ctx, o.ID)
	} else {
		ok, err = s.store.ProgressDelivery(ctx, o.ID, o.DeliveryStatus, cmd.Target, o.Status, mirror)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	s.appendEvent(ctx, o.ID, "delivery", string(o.DeliveryStatus), string(cmd.Target), "partner", &cmd.PartnerID)
	if cmd.Target == DeliveryDelivered {
		// Restores the partner to the geo pool; the availability flag is
		// already free, so this is a no-op there.
		if err := s.assigner.Release(ctx, cmd.PartnerID); err != nil {
			s.log.WithError(err).WithField("partner_id", cmd.PartnerID).Warn("geo pool restore failed")
		}
	}

	updated, err := s.store.Get(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(updated, "delivery", string(o.DeliveryStatus), string(cmd.Target))
	}
	return updated, nil
}

// MarkPaymentReceived flips the payment axis. One-way; a second call is
// an invalid transition.
func (s *Service) MarkPaymentReceived(ctx context.Context, orderID types.ID, actor Requester) (*Order, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus != PaymentPending {
		return nil, ErrInvalidTransition
	}
	ok, err := s.store.SetPaymentReceived(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	s.appendEvent(ctx, orderID, "payment", string(PaymentPending), string(PaymentReceived), actor.Role, &actor.ID)

	updated, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(updated, "payment", string(PaymentPending), string(PaymentReceived))
	}
	return updated, nil
}

// Get fetches an order scoped to the requester: customers see their own,
// restaurants theirs, partners their assigned one, admins everything.
// Out-of-scope reads report not-found rather than leaking existence.
func (s *Service) Get(ctx context.Context, id types.ID, req Requester) (*Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.inScope(o, req) {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, req Requester) ([]*Order, error) {
	if req.IsAdmin {
		return s.store.List(ctx, ListFilter{})
	}
	switch req.Role {
	case "customer":
		return s.store.List(ctx, ListFilter{CustomerID: &req.ID})
	case "restaurant":
		return s.store.List(ctx, ListFilter{RestaurantID: &req.ID})
	case "partner":
		return s.store.List(ctx, ListFilter{PartnerID: &req.ID})
	}
	return nil, ErrForbidden
}

func (s *Service) inScope(o *Order, req Requester) bool {
	if req.IsAdmin {
		return true
	}
	switch req.Role {
	case "customer":
		return o.CustomerID == req.ID
	case "restaurant":
		return o.RestaurantID == req.ID
	case "partner":
		return o.PartnerID != nil && *o.PartnerID == req.ID
	}
	return false
}

// Delete hard-deletes an order. A partner still bound to it is released
// first so no partner stays phantom-busy.
func (s *Service) Delete(ctx context.Context, id types.ID) error {
	released, err := s.store.DeleteWithRelease(ctx, id)
	if err != nil {
		return err
	}
	if released != nil {
		if err := s.assigner.Release(ctx, *released); err != nil {
			s.log.WithError(err).WithField("partner_id", *released).Warn("geo pool restore failed")
		}
	}
	return nil
}

// RunTimeoutMonitor periodically applies the timeout policy to orders
// still awaiting a restaurant decision.
func (s *Service) RunTimeoutMonitor(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.expireStuckOrders(ctx)
		}
	}
}

func (s *Service) expireStuckOrders(ctx context.Context) {
	orders, err := s.store.ListByStatus(ctx, StatusPlaced)
	if err != nil {
		s.log.WithError(err).Warn("timeout monitor: list placed orders")
		return
	}
	now := time.Now().UTC()
	for _, o := range orders {
		if !s.timeout.Expired(o, now) {
			continue
		}
		ok, err := s.store.UpdateStatus(ctx, o.ID, StatusPlaced, StatusRejected)
		if err != nil || !ok {
			continue
		}
		s.appendEvent(ctx, o.ID, "order", string(StatusPlaced), string(StatusRejected), "system", nil)
		if s.notifier != nil {
			s.notifier.OrderStatusChanged(o, "order", string(StatusPlaced), string(StatusRejected))
		}
	}
}

func (s *Service) appendEvent(ctx context.Context, orderID types.ID, axis, from, to, actorType string, actorID *types.ID) {
	err := s.store.AppendEvent(ctx, &Event{
		OrderID:   orderID,
		Axis:      axis,
		From:      from,
		To:        to,
		ActorType: actorType,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.WithError(err).WithField("order_id", orderID).Warn("append order event")
	}
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
