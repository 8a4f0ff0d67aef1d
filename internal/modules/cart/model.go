// README: Cart item owned by a single customer.
package cart

import (
	"time"

	"quickbite/internal/types"
)

type Item struct {
	CustomerID types.ID  `json:"-"`
	FoodID     types.ID  `json:"food_id"`
	Quantity   int       `json:"quantity"`
	AddedAt    time.Time `json:"added_at"`
}
