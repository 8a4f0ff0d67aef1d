// README: Partner service: registration, duty toggling and location pushes.
package partner

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

var ErrValidation = errors.New("validation failed")

// GeoPool is the slice of the geo index the partner module touches:
// membership upkeep for available partners. Satisfied by the assignment
// module's Redis geo index.
type GeoPool interface {
	Add(ctx context.Context, id types.ID, p types.Point) error
	Remove(ctx context.Context, id types.ID) error
}

type Service struct {
	store    Store
	geocoder Geocoder
	geo      GeoPool
	log      *logrus.Logger
}

func NewService(store Store, geocoder Geocoder, geo GeoPool, log *logrus.Logger) *Service {
	return &Service{store: store, geocoder: geocoder, geo: geo, log: log}
}

type RegisterCommand struct {
	Name        string
	Email       string
	Phone       string
	VehicleType string
	Address     string
}

// Register creates a partner, geocoding the street address for the
// initial position, and places them in the available pool.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*Partner, error) {
	if cmd.Name == "" || cmd.Email == "" || cmd.Phone == "" || cmd.VehicleType == "" {
		return nil, fmt.Errorf("%w: name, email, phone and vehicle type are required", ErrValidation)
	}
	if cmd.Address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrValidation)
	}
	pos, err := s.geocoder.Geocode(ctx, cmd.Address)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Partner{
		ID:          newID(),
		Name:        cmd.Name,
		Email:       cmd.Email,
		Phone:       cmd.Phone,
		VehicleType: cmd.VehicleType,
		Address:     cmd.Address,
		Location:    pos,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	if err := s.geo.Add(ctx, p.ID, p.Location); err != nil {
		s.log.WithError(err).WithField("partner_id", p.ID).Warn("geo index add failed")
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Partner, error) {
	return s.store.Get(ctx, id)
}

// UpdateLocation stores the device position and refreshes the geo index
// entry when the partner is in the free pool.
func (s *Service) UpdateLocation(ctx context.Context, id types.ID, pos types.Point) (*Partner, error) {
	if !pos.Valid() {
		return nil, fmt.Errorf("%w: latitude and longitude required", ErrValidation)
	}
	p, err := s.store.UpdateLocation(ctx, id, pos)
	if err != nil {
		return nil, err
	}
	if p.IsAvailable {
		if err := s.geo.Add(ctx, p.ID, pos); err != nil {
			s.log.WithError(err).WithField("partner_id", p.ID).Warn("geo index refresh failed")
		}
	}
	return p, nil
}

// SetAvailability is the partner's own on/off-duty switch. A partner
// bound to an order cannot toggle; delivery completion releases them.
func (s *Service) SetAvailability(ctx context.Context, id types.ID, available bool) (*Partner, error) {
	p, err := s.store.SetAvailability(ctx, id, available)
	if err != nil {
		return nil, err
	}
	if available {
		err = s.geo.Add(ctx, p.ID, p.Location)
	} else {
		err = s.geo.Remove(ctx, p.ID)
	}
	if err != nil {
		s.log.WithError(err).WithField("partner_id", p.ID).Warn("geo index update failed")
	}
	return p, nil
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
