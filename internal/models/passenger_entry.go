package models

import "time"

// PassengerEntry is the demand-side record binding a Person to a Trip, with
// pickup/delivery legs, affiliate assignments, payment state, and an optional
// one-to-one seat binding.
type PassengerEntry struct {
	ID                string    `json:"id" db:"id"`
	TripID            string    `json:"trip_id" db:"trip_id"`
	PersonID          string    `json:"person_id" db:"person_id"`
	PickupAddressID   string    `json:"pickup_address_id" db:"pickup_address_id"`
	DeliveryAddressID string    `json:"delivery_address_id" db:"delivery_address_id"`
	PickupDriverID    *string   `json:"pickup_driver_id,omitempty" db:"pickup_driver_id"`
	DeliveryDriverID  *string   `json:"delivery_driver_id,omitempty" db:"delivery_driver_id"`
	ReferralAgentID   *string   `json:"referral_agent_id,omitempty" db:"referral_agent_id"`
	Price             float64   `json:"price" db:"price"`
	PaymentMethod     *string   `json:"payment_method,omitempty" db:"payment_method"`
	Paid              bool      `json:"paid" db:"paid"`
	SeatID            *string   `json:"seat_id,omitempty" db:"seat_id"`
	SortOrder         int       `json:"sort_order" db:"sort_order"`
	ColorTag          *string   `json:"color_tag,omitempty" db:"color_tag"`
	GroupID           *string   `json:"group_id,omitempty" db:"group_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// PassengerEntryDetail joins the entry with the person and seat for roster reads
type PassengerEntryDetail struct {
	PassengerEntry
	PersonName       string  `json:"person_name" db:"person_name"`
	PersonNationalID string  `json:"person_national_id" db:"person_national_id"`
	SeatNumber       *string `json:"seat_number,omitempty" db:"seat_number"`
	SeatBusID        *string `json:"seat_bus_id,omitempty" db:"seat_bus_id"`
}

// SeatSelection names a seat to bind within a trip
type SeatSelection struct {
	BusID      string `json:"bus_id" binding:"required"`
	SeatNumber string `json:"seat_number" binding:"required"`
}

// SavePassengerEntryRequest creates or updates a passenger entry. Optional
// reference fields distinguish "absent" (keep current value) from an explicit
// null id (clear the association): an empty string clears.
type SavePassengerEntryRequest struct {
	TripID            string         `json:"trip_id" binding:"required"`
	PersonID          string         `json:"person_id" binding:"required"`
	PickupAddressID   string         `json:"pickup_address_id" binding:"required"`
	DeliveryAddressID string         `json:"delivery_address_id" binding:"required"`
	PickupDriverID    *string        `json:"pickup_driver_id,omitempty"`
	DeliveryDriverID  *string        `json:"delivery_driver_id,omitempty"`
	ReferralAgentID   *string        `json:"referral_agent_id,omitempty"`
	Price             float64        `json:"price"`
	PaymentMethod     *string        `json:"payment_method,omitempty"`
	Paid              *bool          `json:"paid,omitempty"`
	Seat              *SeatSelection `json:"seat,omitempty"`
	ClearSeat         bool           `json:"clear_seat,omitempty"`
	SortOrder         *int           `json:"sort_order,omitempty"`
	ColorTag          *string        `json:"color_tag,omitempty"`
}

// ReorderRosterRequest persists a new manual ordering for a trip's roster
type ReorderRosterRequest struct {
	EntryIDs []string `json:"entry_ids" binding:"required,min=1"`
}
