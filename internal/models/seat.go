package models

import "time"

// Seat is one physical seat of a bus, materialized per trip when the trip's
// buses are fixed. occupied is true iff exactly one passenger entry references
// the seat; the back-reference is non-owning.
type Seat struct {
	ID               string    `json:"id" db:"id"`
	TripID           string    `json:"trip_id" db:"trip_id"`
	BusID            string    `json:"bus_id" db:"bus_id"`
	SeatNumber       string    `json:"seat_number" db:"seat_number"`
	Kind             SeatKind  `json:"kind" db:"kind"`
	Occupied         bool      `json:"occupied" db:"occupied"`
	PassengerEntryID *string   `json:"passenger_entry_id,omitempty" db:"passenger_entry_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// SeatMapEntry is the read model for the seat-map UI: seat state annotated
// with the occupying passenger's identity, if any.
type SeatMapEntry struct {
	Seat
	PassengerName       *string `json:"passenger_name,omitempty" db:"passenger_name"`
	PassengerNationalID *string `json:"passenger_national_id,omitempty" db:"passenger_national_id"`
}

// BindSeatRequest represents the request to bind a seat to a passenger entry
type BindSeatRequest struct {
	BusID      string `json:"bus_id" binding:"required"`
	SeatNumber string `json:"seat_number" binding:"required"`
	EntryID    string `json:"entry_id" binding:"required"`
}
