// README: Order aggregate and the three independent status axes.
package order

import (
	"time"

	"quickbite/internal/types"
)

// Status is the restaurant/system-driven axis.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusAssigned  Status = "assigned"
	StatusPicked    Status = "picked"
	StatusOnTheWay  Status = "on-the-way"
	StatusDelivered Status = "delivered"
)

// DeliveryStatus is the delivery-partner-driven axis. It is tracked
// separately from Status because the partner app only ever sees and
// mutates this axis.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryPicked    DeliveryStatus = "picked"
	DeliveryOnTheWay  DeliveryStatus = "on-the-way"
	DeliveryDelivered DeliveryStatus = "delivered"
)

// PaymentStatus is the admin-driven axis.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentReceived PaymentStatus = "received"
)

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

// LineItem is a snapshot taken at placement time. Later catalog price
// changes never alter historical orders.
type LineItem struct {
	FoodID    types.ID `json:"food_id"`
	Name      string   `json:"name"`
	UnitPrice float64  `json:"unit_price"`
	Quantity  int      `json:"quantity"`
}

func (li LineItem) Subtotal() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

type Order struct {
	ID             types.ID       `json:"id"`
	CustomerID     types.ID       `json:"customer_id"`
	RestaurantID   types.ID       `json:"restaurant_id"`
	PartnerID      *types.ID      `json:"partner_id,omitempty"`
	Items          []LineItem     `json:"items"`
	TotalPrice     float64        `json:"total_price"`
	PaymentMethod  PaymentMethod  `json:"payment_method"`
	Address        string         `json:"address"`
	Mobile         string         `json:"mobile"`
	Location       types.Point    `json:"location"`
	Status         Status         `json:"status"`
	DeliveryStatus DeliveryStatus `json:"delivery_status"`
	PaymentStatus  PaymentStatus  `json:"payment_status"`
	StatusVersion  int            `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Event is one entry in the per-order audit trail, appended on every
// axis transition.
type Event struct {
	ID        int64
	OrderID   types.ID
	Axis      string // "order", "delivery" or "payment"
	From      string
	To        string
	ActorType string
	ActorID   *types.ID
	CreatedAt time.Time
}

// AllowedTransitions represents the order-status axis as code.
// confirmed→assigned is system-driven; assigned onwards mirrors the
// delivery axis.
var AllowedTransitions = map[Status][]Status{
	StatusPlaced:    {StatusConfirmed, StatusRejected},
	StatusConfirmed: {StatusAssigned},
	StatusAssigned:  {StatusPicked},
	StatusPicked:    {StatusOnTheWay},
	StatusOnTheWay:  {StatusDelivered},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// deliverySuccessor encodes the strictly sequential delivery axis:
// no skipping, no reverse.
var deliverySuccessor = map[DeliveryStatus]DeliveryStatus{
	DeliveryPending:  DeliveryPicked,
	DeliveryPicked:   DeliveryOnTheWay,
	DeliveryOnTheWay: DeliveryDelivered,
}

func CanProgressDelivery(from, to DeliveryStatus) bool {
	return deliverySuccessor[from] == to
}

// MirrorStatus maps a delivery-axis value onto the order-status axis.
func MirrorStatus(ds DeliveryStatus) Status {
	switch ds {
	case DeliveryPicked:
		return StatusPicked
	case DeliveryOnTheWay:
		return StatusOnTheWay
	case DeliveryDelivered:
		return StatusDelivered
	}
	return ""
}

// Terminal reports whether the order-status axis has reached an end state.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusRejected
}

func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentCOD || m == PaymentOnline
}
