// README: Delivery partner entity.
package partner

import (
	"time"

	"quickbite/internal/types"
)

type Partner struct {
	ID          types.ID    `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	VehicleType string      `json:"vehicle_type"`
	Address     string      `json:"address"`
	Location    types.Point `json:"location"`
	// IsAvailable is mutated by the assignment engine only (claim/release),
	// plus the partner's own on/off-duty toggle while idle. It is the
	// concurrency-control flag preventing double-assignment.
	IsAvailable    bool      `json:"is_available"`
	CurrentOrderID *types.ID `json:"current_order_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
