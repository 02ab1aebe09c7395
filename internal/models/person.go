package models

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/lib/pq"
)

// PhoneList is a custom type for handling TEXT[] phone columns in PostgreSQL
type PhoneList []string

// Value implements the driver.Valuer interface
func (p PhoneList) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return pq.Array(p).Value()
}

// Scan implements the sql.Scanner interface
func (p *PhoneList) Scan(src interface{}) error {
	if src == nil {
		*p = nil
		return nil
	}
	slice := (*[]string)(p)
	return pq.Array(slice).Scan(src)
}

// Person is a long-lived identity shared by bookings, affiliates, and cargo
// sender/recipient references. National ID is unique and used to de-duplicate.
type Person struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	NationalID string    `json:"national_id" db:"national_id"`
	Age        *int      `json:"age,omitempty" db:"age"`
	Phones     PhoneList `json:"phones" db:"phones"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// CreatePersonRequest represents the request to register a person
type CreatePersonRequest struct {
	Name       string   `json:"name" binding:"required"`
	NationalID string   `json:"national_id" binding:"required"`
	Age        *int     `json:"age,omitempty"`
	Phones     []string `json:"phones,omitempty"`
}

// UpdatePersonRequest represents the request to update a person
type UpdatePersonRequest struct {
	Name   *string  `json:"name,omitempty"`
	Age    *int     `json:"age,omitempty"`
	Phones []string `json:"phones,omitempty"`
}

// Validate validates the CreatePersonRequest
func (req *CreatePersonRequest) Validate() error {
	if req.Age != nil && (*req.Age < 0 || *req.Age > 130) {
		return errors.New("invalid age")
	}
	return nil
}
