package models

import "time"

// Address is shared by reference from pickup/delivery legs of passenger and
// cargo bookings. It is never owned exclusively by one booking.
type Address struct {
	ID           string    `json:"id" db:"id"`
	Street       string    `json:"street" db:"street"`
	Number       string    `json:"number" db:"number"`
	Neighborhood string    `json:"neighborhood" db:"neighborhood"`
	City         string    `json:"city" db:"city"`
	State        string    `json:"state" db:"state"`
	PostalCode   string    `json:"postal_code" db:"postal_code"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CreateAddressRequest represents the request to register an address
type CreateAddressRequest struct {
	Street       string `json:"street" binding:"required"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	PostalCode   string `json:"postal_code"`
}

// UpdateAddressRequest represents the request to update an address
type UpdateAddressRequest struct {
	Street       *string `json:"street,omitempty"`
	Number       *string `json:"number,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
}
