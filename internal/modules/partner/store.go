// README: Delivery partner store backed by PostgreSQL.
package partner

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quickbite/internal/types"
)

var ErrNotFound = errors.New("delivery partner not found")

type Store interface {
	Create(ctx context.Context, p *Partner) error
	Get(ctx context.Context, id types.ID) (*Partner, error)
	UpdateLocation(ctx context.Context, id types.ID, pos types.Point) (*Partner, error)
	// SetAvailability toggles the on/off-duty flag. It refuses while a
	// current order is bound, preserving the availability⇔current-order
	// invariant; only the assignment engine releases a busy partner.
	SetAvailability(ctx context.Context, id types.ID, available bool) (*Partner, error)
}

var ErrHasActiveOrder = errors.New("partner has an active order")

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

const partnerColumns = `
	id, name, email, phone, vehicle_type, address,
	location_lat, location_lng, is_available, current_order_id,
	created_at, updated_at`

func (s *PgStore) Create(ctx context.Context, p *Partner) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO delivery_partners (
			id, name, email, phone, vehicle_type, address,
			location_lat, location_lng, is_available, current_order_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULL, $10, $10)`,
		string(p.ID), p.Name, p.Email, p.Phone, p.VehicleType, p.Address,
		p.Location.Lat, p.Location.Lng, p.IsAvailable, p.CreatedAt,
	)
	return err
}

func (s *PgStore) Get(ctx context.Context, id types.ID) (*Partner, error) {
	row := s.db.QueryRow(ctx, `SELECT`+partnerColumns+` FROM delivery_partners WHERE id = $1`, string(id))
	return scanPartner(row)
}

func (s *PgStore) UpdateLocation(ctx context.Context, id types.ID, pos types.Point) (*Partner, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE delivery_partners
		SET location_lat = $1, location_lng = $2, updated_at = now()
		WHERE id = $3
		RETURNING`+partnerColumns, pos.Lat, pos.Lng, string(id),
	)
	return scanPartner(row)
}

func (s *PgStore) SetAvailability(ctx context.Context, id types.ID, available bool) (*Partner, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE delivery_partners
		SET is_available = $1, updated_at = now()
		WHERE id = $2 AND current_order_id IS NULL
		RETURNING`+partnerColumns, available, string(id),
	)
	p, err := scanPartner(row)
	if errors.Is(err, ErrNotFound) {
		// Row exists but is bound to an order, or truly missing.
		if _, gerr := s.Get(ctx, id); gerr == nil {
			return nil, ErrHasActiveOrder
		}
		return nil, ErrNotFound
	}
	return p, err
}

func scanPartner(row pgx.Row) (*Partner, error) {
	var p Partner
	var currentOrder *string
	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.VehicleType, &p.Address,
		&p.Location.Lat, &p.Location.Lng, &p.IsAvailable, &currentOrder,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if currentOrder != nil {
		o := types.ID(*currentOrder)
		p.CurrentOrderID = &o
	}
	return &p, nil
}
