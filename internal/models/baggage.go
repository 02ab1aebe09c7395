package models

import "time"

// Baggage is a weighed item carried on a trip. It may be unassigned to a
// specific passenger entry, but always has a responsible person.
type Baggage struct {
	ID                  string    `json:"id" db:"id"`
	Description         string    `json:"description" db:"description"`
	WeightKg            float64   `json:"weight_kg" db:"weight_kg"`
	PassengerEntryID    *string   `json:"passenger_entry_id,omitempty" db:"passenger_entry_id"`
	ResponsiblePersonID string    `json:"responsible_person_id" db:"responsible_person_id"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// SaveBaggageRequest creates or updates a baggage record
type SaveBaggageRequest struct {
	Description         string  `json:"description" binding:"required"`
	WeightKg            float64 `json:"weight_kg" binding:"required,gt=0"`
	PassengerEntryID    *string `json:"passenger_entry_id,omitempty"`
	ResponsiblePersonID string  `json:"responsible_person_id" binding:"required"`
}
