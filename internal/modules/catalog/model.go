// README: Read-mostly catalog entities: restaurants and their foods.
package catalog

import (
	"time"

	"quickbite/internal/types"
)

type Restaurant struct {
	ID        types.ID    `json:"id"`
	Name      string      `json:"name"`
	OwnerName string      `json:"owner_name"`
	Mobile    string      `json:"mobile"`
	Email     string      `json:"email"`
	Location  types.Point `json:"location"`
	// KYC fields captured at onboarding; opaque to the order core.
	FSSAILicense string    `json:"fssai_license,omitempty"`
	BankAccount  string    `json:"bank_account,omitempty"`
	BankIFSC     string    `json:"bank_ifsc,omitempty"`
	IsBlocked    bool      `json:"is_blocked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Food struct {
	ID           types.ID  `json:"id"`
	RestaurantID types.ID  `json:"restaurant_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price"`
	Category     string    `json:"category,omitempty"`
	Rating       string    `json:"rating,omitempty"`
	DeliveryTime string    `json:"delivery_time,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
