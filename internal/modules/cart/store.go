// README: Cart store backed by PostgreSQL.
package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"quickbite/internal/types"
)

var ErrItemNotFound = errors.New("cart item not found")

type Store interface {
	Upsert(ctx context.Context, it Item) error
	SetQuantity(ctx context.Context, customerID, foodID types.ID, qty int) error
	Remove(ctx context.Context, customerID, foodID types.ID) error
	Items(ctx context.Context, customerID types.ID) ([]Item, error)
	Clear(ctx context.Context, customerID types.ID) error
}

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) Upsert(ctx context.Context, it Item) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO cart_items (customer_id, food_id, quantity, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (customer_id, food_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		string(it.CustomerID), string(it.FoodID), it.Quantity, it.AddedAt,
	)
	return err
}

func (s *PgStore) SetQuantity(ctx context.Context, customerID, foodID types.ID, qty int) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE cart_items SET quantity = $1
		WHERE customer_id = $2 AND food_id = $3`,
		qty, string(customerID), string(foodID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *PgStore) Remove(ctx context.Context, customerID, foodID types.ID) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM cart_items WHERE customer_id = $1 AND food_id = $2`,
		string(customerID), string(foodID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *PgStore) Items(ctx context.Context, customerID types.ID) ([]Item, error) {
	rows, err := s.db.Query(ctx, `
		SELECT food_id, quantity, added_at
		FROM cart_items WHERE customer_id = $1 ORDER BY added_at`, string(customerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it := Item{CustomerID: customerID}
		if err := rows.Scan(&it.FoodID, &it.Quantity, &it.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *PgStore) Clear(ctx context.Context, customerID types.ID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM cart_items WHERE customer_id = $1`, string(customerID))
	return err
}
