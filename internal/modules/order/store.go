// README: Order store interface and its PostgreSQL implementation.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quickbite/internal/types"
)

// LineRequest is a raw cart entry before catalog resolution.
type LineRequest struct {
	FoodID   types.ID
	Quantity int
}

// BuildFunc turns the locked cart contents into a fully validated order.
// It runs inside the placement transaction; returning an error aborts
// the transaction, leaving the cart untouched.
type BuildFunc func(items []LineRequest) (*Order, error)

type ListFilter struct {
	CustomerID   *types.ID
	RestaurantID *types.ID
	PartnerID    *types.ID
}

// Store is the persistence contract for orders. The PostgreSQL
// implementation is PgStore; tests use an in-memory double.
type Store interface {
	// PlaceFromCart atomically consumes the customer's cart and creates
	// the order built from it. Cart rows are locked for the duration, so
	// concurrent placements against the same cart serialize and the
	// loser observes an empty cart.
	PlaceFromCart(ctx context.Context, customerID types.ID, build BuildFunc) (*Order, error)
	Get(ctx context.Context, id types.ID) (*Order, error)
	List(ctx context.Context, f ListFilter) ([]*Order, error)
	ListByStatus(ctx context.Context, st Status) ([]*Order, error)
	// UpdateStatus is a conditional update on the order-status axis:
	// it succeeds only when the row is still in `from`.
	UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error)
	// ProgressDelivery advances both the delivery axis and its order-status
	// mirror in one conditional update.
	ProgressDelivery(ctx context.Context, id types.ID, fromD, toD DeliveryStatus, fromS, toS Status) (bool, error)
	// MarkDelivered commits the terminal delivery transition and the
	// partner release as one transaction: order status, delivery status,
	// partner availability and the current-order back-reference change
	// together or not at all.
	MarkDelivered(ctx context.Context, id types.ID) (bool, error)
	SetPaymentReceived(ctx context.Context, id types.ID) (bool, error)
	// DeleteWithRelease hard-deletes the order; an assigned-but-undelivered
	// partner is released in the same transaction. Returns the released
	// partner id, if any, so the caller can restore it to the geo index.
	DeleteWithRelease(ctx context.Context, id types.ID) (*types.ID, error)
	AppendEvent(ctx context.Context, e *Event) error
}

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) PlaceFromCart(ctx context.Context, customerID types.ID, build BuildFunc) (*Order, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT food_id, quantity
		FROM cart_items
		WHERE customer_id = $1
		ORDER BY added_at
		FOR UPDATE`, string(customerID),
	)
	if err != nil {
		return nil, err
	}
	var items []LineRequest
	for rows.Next() {
		var it LineRequest
		if err := rows.Scan(&it.FoodID, &it.Quantity); err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, it)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	o, err := build(items)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (
			id, customer_id, restaurant_id, partner_id,
			total_price, payment_method, address, mobile,
			location_lat, location_lng,
			status, delivery_status, payment_status, status_version,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, NULL,
			$4, $5, $6, $7,
			$8, $9,
			$10, $11, $12, 0,
			$13, $13
		)`,
		string(o.ID), string(o.CustomerID), string(o.RestaurantID),
		o.TotalPrice, string(o.PaymentMethod), o.Address, o.Mobile,
		o.Location.Lat, o.Location.Lng,
		string(o.Status), string(o.DeliveryStatus), string(o.PaymentStatus),
		o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	for i, li := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, pos, food_id, name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			string(o.ID), i, string(li.FoodID), li.Name, li.UnitPrice, li.Quantity,
		)
		if err != nil {
			return nil, err
		}
	}

	if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE customer_id = $1`, string(customerID)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

const orderColumns = `
	id, customer_id, restaurant_id, partner_id,
	total_price, payment_method, address, mobile,
	location_lat, location_lng,
	status, delivery_status, payment_status, status_version,
	created_at, updated_at`

func (s *PgStore) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `SELECT`+orderColumns+` FROM orders WHERE id = $1`, string(id))
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *PgStore) List(ctx context.Context, f ListFilter) ([]*Order, error) {
	q := `SELECT` + orderColumns + ` FROM orders`
	var args []any
	switch {
	case f.CustomerID != nil:
		q += ` WHERE customer_id = $1`
		args = append(args, string(*f.CustomerID))
	case f.RestaurantID != nil:
		q += ` WHERE restaurant_id = $1`
		args = append(args, string(*f.RestaurantID))
	case f.PartnerID != nil:
		q += ` WHERE partner_id = $1`
		args = append(args, string(*f.PartnerID))
	}
	q += ` ORDER BY created_at DESC`
	return s.queryOrders(ctx, q, args...)
}

func (s *PgStore) ListByStatus(ctx context.Context, st Status) ([]*Order, error) {
	return s.queryOrders(ctx,
		`SELECT`+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at`, string(st))
}

func (s *PgStore) queryOrders(ctx context.Context, q string, args ...any) ([]*Order, error) {
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	for _, o := range out {
		if err := s.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PgStore) loadItems(ctx context.Context, o *Order) error {
	rows, err := s.db.Query(ctx, `
		SELECT food_id, name, unit_price, quantity
		FROM order_items WHERE order_id = $1 ORDER BY pos`, string(o.ID))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var li LineItem
		if err := rows.Scan(&li.FoodID, &li.Name, &li.UnitPrice, &li.Quantity); err != nil {
			return err
		}
		o.Items = append(o.Items, li)
	}
	return rows.Err()
}

func (s *PgStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET status = $1, status_version = status_version + 1, updated_at = now()
		WHERE id = $2 AND status = $3`,
		string(to), string(id), string(from),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PgStore) ProgressDelivery(ctx context.Context, id types.ID, fromD, toD DeliveryStatus, fromS, toS Status) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET delivery_status = $1, status = $2,
		    status_version = status_version + 1, updated_at = now()
		WHERE id = $3 AND delivery_status = $4 AND status = $5`,
		string(toD), string(toS), string(id), string(fromD), string(fromS),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PgStore) MarkDelivered(ctx context.Context, id types.ID) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var partnerID *string
	err = tx.QueryRow(ctx, `
		UPDATE orders
		SET status = 'delivered', delivery_status = 'delivered',
		    status_version = status_version + 1, updated_at = now()
		WHERE id = $1 AND status = 'on-the-way' AND delivery_status = 'on-the-way'
		RETURNING partner_id`, string(id),
	).Scan(&partnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if partnerID != nil {
		_, err = tx.Exec(ctx, `
			UPDATE delivery_partners
			SET is_available = TRUE, current_order_id = NULL, updated_at = now()
			WHERE id = $1 AND current_order_id = $2`,
			*partnerID, string(id),
		)
		if err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *PgStore) SetPaymentReceived(ctx context.Context, id types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET payment_status = 'received', updated_at = now()
		WHERE id = $1 AND payment_status = 'pending'`, string(id),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PgStore) DeleteWithRelease(ctx context.Context, id types.ID) (*types.ID, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var partnerID *string
	var status string
	err = tx.QueryRow(ctx, `
		SELECT partner_id, status FROM orders WHERE id = $1 FOR UPDATE`, string(id),
	).Scan(&partnerID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var released *types.ID
	if partnerID != nil && Status(status) != StatusDelivered {
		_, err = tx.Exec(ctx, `
			UPDATE delivery_partners
			SET is_available = TRUE, current_order_id = NULL, updated_at = now()
			WHERE id = $1 AND current_order_id = $2`,
			*partnerID, string(id),
		)
		if err != nil {
			return nil, err
		}
		p := types.ID(*partnerID)
		released = &p
	}

	for _, q := range []string{
		`DELETE FROM order_state_events WHERE order_id = $1`,
		`DELETE FROM order_items WHERE order_id = $1`,
		`DELETE FROM orders WHERE id = $1`,
	} {
		if _, err := tx.Exec(ctx, q, string(id)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return released, nil
}

func (s *PgStore) AppendEvent(ctx context.Context, e *Event) error {
	var actorID *string
	if e.ActorID != nil {
		v := string(*e.ActorID)
		actorID = &v
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO order_state_events (order_id, axis, from_state, to_state, actor_type, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(e.OrderID), e.Axis, e.From, e.To, e.ActorType, actorID, e.CreatedAt,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var partnerID *string
	var method, status, deliveryStatus, paymentStatus string
	var created, updated time.Time

	err := row.Scan(
		&o.ID, &o.CustomerID, &o.RestaurantID, &partnerID,
		&o.TotalPrice, &method, &o.Address, &o.Mobile,
		&o.Location.Lat, &o.Location.Lng,
		&status, &deliveryStatus, &paymentStatus, &o.StatusVersion,
		&created, &updated,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	if partnerID != nil {
		p := types.ID(*partnerID)
		o.PartnerID = &p
	}
	o.PaymentMethod = PaymentMethod(method)
	o.Status = Status(status)
	o.DeliveryStatus = DeliveryStatus(deliveryStatus)
	o.PaymentStatus = PaymentStatus(paymentStatus)
	o.CreatedAt = created
	o.UpdatedAt = updated
	return &o, nil
}
