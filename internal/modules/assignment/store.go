// README: Atomic partner claim/release against PostgreSQL.
package assignment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quickbite/internal/types"
)

// ErrOrderNotAssignable means the order left the `confirmed` state (or
// already has a partner) while assignment was in flight.
var ErrOrderNotAssignable = errors.New("order no longer awaiting assignment")

// ClaimStore performs the reservation primitives. Both mutations in
// ClaimAndBind commit together: a partner is never reserved for an
// unassigned order and vice versa.
type ClaimStore interface {
	// ClaimAndBind reserves the partner (available → busy, back-reference
	// set) and binds it to the order (confirmed → assigned). Returns
	// false when the partner was grabbed concurrently — the caller moves
	// to the next candidate. Returns ErrOrderNotAssignable when the
	// order side of the swap fails.
	ClaimAndBind(ctx context.Context, partnerID, orderID types.ID) (bool, error)
	// Release frees the partner and clears the back-reference. Idempotent:
	// releasing an already-free partner succeeds and changes nothing.
	// Returns the partner's last known position for geo-index restore.
	Release(ctx context.Context, partnerID types.ID) (types.Point, error)
}

type PgClaimStore struct {
	db *pgxpool.Pool
}

func NewPgClaimStore(db *pgxpool.Pool) *PgClaimStore {
	return &PgClaimStore{db: db}
}

func (s *PgClaimStore) ClaimAndBind(ctx context.Context, partnerID, orderID types.ID) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	// Conditional claim closes the read-then-write race: only one of
	// several concurrent assignments can flip the availability flag.
	tag, err := tx.Exec(ctx, `
		UPDATE delivery_partners
		SET is_available = FALSE, current_order_id = $1, updated_at = now()
		WHERE id = $2 AND is_available`,
		string(orderID), string(partnerID),
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	tag, err = tx.Exec(ctx, `
		UPDATE orders
		SET status = 'assigned', partner_id = $1,
		    status_version = status_version + 1, updated_at = now()
		WHERE id = $2 AND status = 'confirmed' AND partner_id IS NULL`,
		string(partnerID), string(orderID),
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		// Rollback also undoes the partner claim.
		return false, ErrOrderNotAssignable
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *PgClaimStore) Release(ctx context.Context, partnerID types.ID) (types.Point, error) {
	var p types.Point
	err := s.db.QueryRow(ctx, `
		UPDATE delivery_partners
		SET is_available = TRUE, current_order_id = NULL, updated_at = now()
		WHERE id = $1
		RETURNING location_lat, location_lng`, string(partnerID),
	).Scan(&p.Lat, &p.Lng)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Point{}, ErrPartnerNotFound
	}
	if err != nil {
		return types.Point{}, err
	}
	return p, nil
}

var ErrPartnerNotFound = errors.New("delivery partner not found")
