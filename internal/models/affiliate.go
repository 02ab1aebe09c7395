package models

import "time"

// Driver is a commission-earning affiliate who performs pickup or delivery
// legs. Wraps exactly one Person; the same Person may also be a ReferralAgent.
type Driver struct {
	ID            string    `json:"id" db:"id"`
	PersonID      string    `json:"person_id" db:"person_id"`
	LicenseNumber string    `json:"license_number" db:"license_number"`
	VehiclePlate  *string   `json:"vehicle_plate,omitempty" db:"vehicle_plate"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	// Joined from people on reads
	PersonName *string `json:"person_name,omitempty" db:"person_name"`
}

// ReferralAgent is a commission-earning affiliate who refers bookings.
type ReferralAgent struct {
	ID           string    `json:"id" db:"id"`
	PersonID     string    `json:"person_id" db:"person_id"`
	AgentCode    string    `json:"agent_code" db:"agent_code"`
	CommissionPc *float64  `json:"commission_pct,omitempty" db:"commission_pct"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// Joined from people on reads
	PersonName *string `json:"person_name,omitempty" db:"person_name"`
}

// DriverLeg selects which leg of a booking a driver is assigned to.
type DriverLeg string

const (
	DriverLegPickup   DriverLeg = "PICKUP"
	DriverLegDelivery DriverLeg = "DELIVERY"
)

// Valid reports whether the leg value is one of the two known legs.
func (l DriverLeg) Valid() bool {
	return l == DriverLegPickup || l == DriverLegDelivery
}

// CreateDriverRequest represents the request to register a driver
type CreateDriverRequest struct {
	PersonID      string  `json:"person_id" binding:"required"`
	LicenseNumber string  `json:"license_number" binding:"required"`
	VehiclePlate  *string `json:"vehicle_plate,omitempty"`
}

// CreateReferralAgentRequest represents the request to register a referral agent
type CreateReferralAgentRequest struct {
	PersonID     string   `json:"person_id" binding:"required"`
	AgentCode    string   `json:"agent_code" binding:"required"`
	CommissionPc *float64 `json:"commission_pct,omitempty"`
}
