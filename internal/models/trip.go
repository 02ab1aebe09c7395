package models

import (
	"errors"
	"time"
)

// Trip is a scheduled departure/arrival window bound to one or more buses.
// Passenger and cargo totals are derived by counting booking entries on read,
// never stored, so they cannot drift.
type Trip struct {
	ID          string    `json:"id" db:"id"`
	DepartureAt time.Time `json:"departure_at" db:"departure_at"`
	ArrivalAt   time.Time `json:"arrival_at" db:"arrival_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Derived on read
	PassengerCount int `json:"passenger_count" db:"passenger_count"`
	CargoCount     int `json:"cargo_count" db:"cargo_count"`
}

// TripWithBuses is the read model for trip listings. SeatCount is filled on
// the single-trip read only; listing pages skip it to avoid a count per row.
type TripWithBuses struct {
	Trip
	Buses     []Bus `json:"buses"`
	SeatCount int   `json:"seat_count,omitempty"`
}

// CreateTripRequest represents the request to schedule a trip
type CreateTripRequest struct {
	DepartureAt time.Time `json:"departure_at" binding:"required"`
	ArrivalAt   time.Time `json:"arrival_at" binding:"required"`
	BusIDs      []string  `json:"bus_ids" binding:"required,min=1"`
}

// UpdateTripRequest represents the request to update a trip window or bus set
type UpdateTripRequest struct {
	DepartureAt *time.Time `json:"departure_at,omitempty"`
	ArrivalAt   *time.Time `json:"arrival_at,omitempty"`
	BusIDs      []string   `json:"bus_ids,omitempty"`
}

// TripFilter holds the optional predicates of the trip listing. Absent
// filters are omitted from the query entirely.
type TripFilter struct {
	Month  *int    // 1-12
	Year   *int
	Search *string // matched case-insensitively against bus plate or model
	Page   int
	Size   int
}

// Validate validates the CreateTripRequest
func (req *CreateTripRequest) Validate() error {
	if req.ArrivalAt.Before(req.DepartureAt) {
		return errors.New("arrival_at must not be before departure_at")
	}
	return nil
}

// Validate validates the TripFilter
func (f *TripFilter) Validate() error {
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		return errors.New("month must be between 1 and 12")
	}
	if f.Page < 0 {
		return errors.New("page must not be negative")
	}
	if f.Size <= 0 || f.Size > 200 {
		return errors.New("size must be between 1 and 200")
	}
	return nil
}

// TripPage is one page of the de-duplicated trip listing
type TripPage struct {
	Trips      []TripWithBuses `json:"trips"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalCount int             `json:"total_count"`
}
