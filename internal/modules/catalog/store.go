// README: Catalog store: PostgreSQL rows plus a Redis geo set for restaurant discovery.
package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"quickbite/internal/types"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrFoodNotFound       = errors.New("food not found")
)

const restaurantGeoKey = "geo:restaurants"

type Store interface {
	CreateRestaurant(ctx context.Context, r *Restaurant) error
	GetRestaurant(ctx context.Context, id types.ID) (*Restaurant, error)
	SetRestaurantBlocked(ctx context.Context, id types.ID, blocked bool) (*Restaurant, error)
	NearbyRestaurants(ctx context.Context, p types.Point, radiusKm float64) ([]*Restaurant, error)
	CreateFood(ctx context.Context, f *Food) error
	GetFood(ctx context.Context, id types.ID) (*Food, error)
	ListFoods(ctx context.Context, restaurantID types.ID) ([]*Food, error)
}

type PgStore struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewPgStore(db *pgxpool.Pool, redis *redis.Client) *PgStore {
	return &PgStore{db: db, redis: redis}
}

const restaurantColumns = `
	id, name, owner_name, mobile, email,
	location_lat, location_lng,
	fssai_license, bank_account, bank_ifsc, is_blocked,
	created_at, updated_at`

func (s *PgStore) CreateRestaurant(ctx context.Context, r *Restaurant) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO restaurants (
			id, name, owner_name, mobile, email,
			location_lat, location_lng,
			fssai_license, bank_account, bank_ifsc, is_blocked,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		string(r.ID), r.Name, r.OwnerName, r.Mobile, r.Email,
		r.Location.Lat, r.Location.Lng,
		r.FSSAILicense, r.BankAccount, r.BankIFSC, r.IsBlocked,
		r.CreatedAt,
	)
	if err != nil {
		return err
	}
	if !r.IsBlocked {
		return s.geoAdd(ctx, r)
	}
	return nil
}

func (s *PgStore) GetRestaurant(ctx context.Context, id types.ID) (*Restaurant, error) {
	row := s.db.QueryRow(ctx, `SELECT`+restaurantColumns+` FROM restaurants WHERE id = $1`, string(id))
	return scanRestaurant(row)
}

// SetRestaurantBlocked flips the block flag and keeps the discovery geo
// set in sync. Blocking does not cancel in-flight orders.
func (s *PgStore) SetRestaurantBlocked(ctx context.Context, id types.ID, blocked bool) (*Restaurant, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE restaurants SET is_blocked = $1, updated_at = now()
		WHERE id = $2
		RETURNING`+restaurantColumns, blocked, string(id),
	)
	r, err := scanRestaurant(row)
	if err != nil {
		return nil, err
	}
	if blocked {
		err = s.redis.ZRem(ctx, restaurantGeoKey, string(id)).Err()
	} else {
		err = s.geoAdd(ctx, r)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PgStore) NearbyRestaurants(ctx context.Context, p types.Point, radiusKm float64) ([]*Restaurant, error) {
	ids, err := s.redis.GeoSearch(ctx, restaurantGeoKey, &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*Restaurant, 0, len(ids))
	for _, id := range ids {
		r, err := s.GetRestaurant(ctx, types.ID(id))
		if errors.Is(err, ErrRestaurantNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !r.IsBlocked {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *PgStore) geoAdd(ctx context.Context, r *Restaurant) error {
	return s.redis.GeoAdd(ctx, restaurantGeoKey, &redis.GeoLocation{
		Name:      string(r.ID),
		Longitude: r.Location.Lng,
		Latitude:  r.Location.Lat,
	}).Err()
}

const foodColumns = `
	id, restaurant_id, name, description, price,
	category, rating, delivery_time, image_url,
	created_at, updated_at`

func (s *PgStore) CreateFood(ctx context.Context, f *Food) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO foods (
			id, restaurant_id, name, description, price,
			category, rating, delivery_time, image_url,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		string(f.ID), string(f.RestaurantID), f.Name, f.Description, f.Price,
		f.Category, f.Rating, f.DeliveryTime, f.ImageURL, f.CreatedAt,
	)
	return err
}

func (s *PgStore) GetFood(ctx context.Context, id types.ID) (*Food, error) {
	row := s.db.QueryRow(ctx, `SELECT`+foodColumns+` FROM foods WHERE id = $1`, string(id))
	return scanFood(row)
}

func (s *PgStore) ListFoods(ctx context.Context, restaurantID types.ID) ([]*Food, error) {
	rows, err := s.db.Query(ctx,
		`SELECT`+foodColumns+` FROM foods WHERE restaurant_id = $1 ORDER BY name`, string(restaurantID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanRestaurant(row pgx.Row) (*Restaurant, error) {
	var r Restaurant
	err := row.Scan(
		&r.ID, &r.Name, &r.OwnerName, &r.Mobile, &r.Email,
		&r.Location.Lat, &r.Location.Lng,
		&r.FSSAILicense, &r.BankAccount, &r.BankIFSC, &r.IsBlocked,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanFood(row pgx.Row) (*Food, error) {
	var f Food
	err := row.Scan(
		&f.ID, &f.RestaurantID, &f.Name, &f.Description, &f.Price,
		&f.Category, &f.Rating, &f.DeliveryTime, &f.ImageURL,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFoodNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}
