package models

import "time"

// CargoEntry is a parcel moved on a trip, with sender/recipient identities,
// pickup/delivery legs, affiliate assignments, and payment state.
type CargoEntry struct {
	ID                  string    `json:"id" db:"id"`
	TripID              string    `json:"trip_id" db:"trip_id"`
	Description         string    `json:"description" db:"description"`
	WeightKg            float64   `json:"weight_kg" db:"weight_kg"`
	SenderPersonID      string    `json:"sender_person_id" db:"sender_person_id"`
	RecipientPersonID   string    `json:"recipient_person_id" db:"recipient_person_id"`
	PickupAddressID     string    `json:"pickup_address_id" db:"pickup_address_id"`
	DeliveryAddressID   string    `json:"delivery_address_id" db:"delivery_address_id"`
	ResponsiblePersonID *string   `json:"responsible_person_id,omitempty" db:"responsible_person_id"`
	PickupDriverID      *string   `json:"pickup_driver_id,omitempty" db:"pickup_driver_id"`
	DeliveryDriverID    *string   `json:"delivery_driver_id,omitempty" db:"delivery_driver_id"`
	ReferralAgentID     *string   `json:"referral_agent_id,omitempty" db:"referral_agent_id"`
	Price               float64   `json:"price" db:"price"`
	PaymentMethod       *string   `json:"payment_method,omitempty" db:"payment_method"`
	Paid                bool      `json:"paid" db:"paid"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// CargoEntryDetail joins the cargo entry with sender/recipient names
type CargoEntryDetail struct {
	CargoEntry
	SenderName    string `json:"sender_name" db:"sender_name"`
	RecipientName string `json:"recipient_name" db:"recipient_name"`
}

// SaveCargoEntryRequest creates or updates a cargo entry. Optional reference
// fields follow the same clear-on-empty convention as passenger entries.
type SaveCargoEntryRequest struct {
	TripID              string  `json:"trip_id" binding:"required"`
	Description         string  `json:"description" binding:"required"`
	WeightKg            float64 `json:"weight_kg" binding:"required,gt=0"`
	SenderPersonID      string  `json:"sender_person_id" binding:"required"`
	RecipientPersonID   string  `json:"recipient_person_id" binding:"required"`
	PickupAddressID     string  `json:"pickup_address_id" binding:"required"`
	DeliveryAddressID   string  `json:"delivery_address_id" binding:"required"`
	ResponsiblePersonID *string `json:"responsible_person_id,omitempty"`
	PickupDriverID      *string `json:"pickup_driver_id,omitempty"`
	DeliveryDriverID    *string `json:"delivery_driver_id,omitempty"`
	ReferralAgentID     *string `json:"referral_agent_id,omitempty"`
	Price               float64 `json:"price"`
	PaymentMethod       *string `json:"payment_method,omitempty"`
	Paid                *bool   `json:"paid,omitempty"`
}
