package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SeatKind classifies a seat position within a row
type SeatKind string

const (
	SeatKindWindow SeatKind = "window"
	SeatKindAisle  SeatKind = "aisle"
)

// LayoutCell is one entry in a bus seat layout: either a numbered seat with a
// kind, or an empty space (corridor, door, stairs) marked with Empty=true.
type LayoutCell struct {
	SeatNumber string   `json:"seat_number,omitempty"`
	Kind       SeatKind `json:"kind,omitempty"`
	Empty      bool     `json:"empty,omitempty"`
}

// SeatLayout is the ordered row/column template of a bus, stored as JSONB.
type SeatLayout []LayoutCell

// Value implements the driver.Valuer interface
func (l SeatLayout) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *SeatLayout) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into SeatLayout", src)
	}
	return json.Unmarshal(b, l)
}

// SeatCells returns only the cells that describe a physical seat.
func (l SeatLayout) SeatCells() []LayoutCell {
	seats := make([]LayoutCell, 0, len(l))
	for _, cell := range l {
		if !cell.Empty {
			seats = append(seats, cell)
		}
	}
	return seats
}

// Validate checks the layout against the declared passenger capacity. The
// number of seat cells must not exceed capacity, and seat numbers must be
// present, unique, and carry a valid kind.
func (l SeatLayout) Validate(capacity int) error {
	seen := make(map[string]bool)
	seatCount := 0
	for i, cell := range l {
		if cell.Empty {
			if cell.SeatNumber != "" {
				return &LayoutError{Reason: fmt.Sprintf("cell %d is empty but carries seat number %q", i, cell.SeatNumber)}
			}
			continue
		}
		if strings.TrimSpace(cell.SeatNumber) == "" {
			return &LayoutError{Reason: fmt.Sprintf("cell %d has no seat number", i)}
		}
		if cell.Kind != SeatKindWindow && cell.Kind != SeatKindAisle {
			return &LayoutError{Reason: fmt.Sprintf("seat %s has invalid kind %q", cell.SeatNumber, cell.Kind)}
		}
		if seen[cell.SeatNumber] {
			return &LayoutError{Reason: fmt.Sprintf("duplicate seat number %s", cell.SeatNumber)}
		}
		seen[cell.SeatNumber] = true
		seatCount++
	}
	if capacity > 0 && seatCount > capacity {
		return &LayoutError{Reason: fmt.Sprintf("layout has %d seats but capacity is %d", seatCount, capacity)}
	}
	return nil
}

// Bus represents a vehicle in the operator's fleet
type Bus struct {
	ID        string     `json:"id" db:"id"`
	Model     string     `json:"model" db:"model"`
	Plate     string     `json:"plate" db:"plate"`
	Capacity  int        `json:"capacity" db:"capacity"`
	Layout    SeatLayout `json:"layout,omitempty" db:"layout"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateBusRequest represents the request to register a bus
type CreateBusRequest struct {
	Model    string     `json:"model" binding:"required"`
	Plate    string     `json:"plate" binding:"required"`
	Capacity int        `json:"capacity" binding:"required,gt=0"`
	Layout   SeatLayout `json:"layout,omitempty"`
}

// UpdateBusRequest represents the request to update bus information
type UpdateBusRequest struct {
	Model    *string    `json:"model,omitempty"`
	Plate    *string    `json:"plate,omitempty"`
	Capacity *int       `json:"capacity,omitempty"`
	Layout   SeatLayout `json:"layout,omitempty"`
}

// Validate validates the CreateBusRequest
func (req *CreateBusRequest) Validate() error {
	if req.Capacity <= 0 {
		return fmt.Errorf("capacity must be greater than 0")
	}
	if req.Layout != nil {
		return req.Layout.Validate(req.Capacity)
	}
	return nil
}
