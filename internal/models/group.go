package models

import (
	"errors"
	"fmt"
)

// FamilyMember is one member of a family-group creation call. Person is
// resolved by national ID when provided, otherwise created. EntryID selects
// an existing passenger entry to update; nil creates a new one. Shared group
// fields apply as defaults only where the member does not override them.
type FamilyMember struct {
	EntryID           *string        `json:"entry_id,omitempty"`
	PersonID          *string        `json:"person_id,omitempty"`
	Name              string         `json:"name"`
	NationalID        *string        `json:"national_id,omitempty"`
	Age               *int           `json:"age,omitempty"`
	Phones            []string       `json:"phones,omitempty"`
	Price             *float64       `json:"price,omitempty"`
	PaymentMethod     *string        `json:"payment_method,omitempty"`
	PickupAddressID   *string        `json:"pickup_address_id,omitempty"`
	DeliveryAddressID *string        `json:"delivery_address_id,omitempty"`
	PickupDriverID    *string        `json:"pickup_driver_id,omitempty"`
	DeliveryDriverID  *string        `json:"delivery_driver_id,omitempty"`
	ReferralAgentID   *string        `json:"referral_agent_id,omitempty"`
	Seat              *SeatSelection `json:"seat,omitempty"`
}

// CreateFamilyGroupRequest creates or updates a set of passenger entries in a
// single transaction, sharing addresses, drivers, agent, price, and a fresh
// group id. Each shared address is either an existing id or an inline payload
// created inside the same transaction. Members are processed in the order
// supplied.
type CreateFamilyGroupRequest struct {
	TripID            string                `json:"trip_id" binding:"required"`
	PickupAddressID   *string               `json:"pickup_address_id,omitempty"`
	PickupAddress     *CreateAddressRequest `json:"pickup_address,omitempty"`
	DeliveryAddressID *string               `json:"delivery_address_id,omitempty"`
	DeliveryAddress   *CreateAddressRequest `json:"delivery_address,omitempty"`
	PickupDriverID    *string               `json:"pickup_driver_id,omitempty"`
	DeliveryDriverID  *string               `json:"delivery_driver_id,omitempty"`
	ReferralAgentID   *string               `json:"referral_agent_id,omitempty"`
	SuggestedPrice    float64               `json:"suggested_price"`
	PaymentMethod     *string               `json:"payment_method,omitempty"`
	ColorTag          *string               `json:"color_tag,omitempty"`
	Members           []FamilyMember        `json:"members" binding:"required,min=1"`
}

// Validate validates the CreateFamilyGroupRequest
func (req *CreateFamilyGroupRequest) Validate() error {
	if req.PickupAddressID == nil && req.PickupAddress == nil {
		return errors.New("pickup_address_id or pickup_address is required")
	}
	if req.PickupAddressID != nil && req.PickupAddress != nil {
		return errors.New("pickup_address_id and pickup_address are mutually exclusive")
	}
	if req.DeliveryAddressID == nil && req.DeliveryAddress == nil {
		return errors.New("delivery_address_id or delivery_address is required")
	}
	if req.DeliveryAddressID != nil && req.DeliveryAddress != nil {
		return errors.New("delivery_address_id and delivery_address are mutually exclusive")
	}
	for i, m := range req.Members {
		if m.PersonID == nil && m.Name == "" {
			return fmt.Errorf("member %d needs a person_id or a name", i)
		}
	}
	return nil
}

// FamilyGroupResult reports the outcome of a family-group creation
type FamilyGroupResult struct {
	GroupID string           `json:"group_id"`
	Entries []PassengerEntry `json:"entries"`
}

// BulkAssignRequest assigns one driver to a leg of many passenger and cargo
// entries atomically.
type BulkAssignRequest struct {
	EntryIDs []string  `json:"entry_ids"`
	CargoIDs []string  `json:"cargo_ids"`
	DriverID string    `json:"driver_id" binding:"required"`
	Leg      DriverLeg `json:"type" binding:"required"`
}

// Validate validates the BulkAssignRequest
func (req *BulkAssignRequest) Validate() error {
	if !req.Leg.Valid() {
		return errors.New("type must be PICKUP or DELIVERY")
	}
	if len(req.EntryIDs) == 0 && len(req.CargoIDs) == 0 {
		return errors.New("at least one entry_id or cargo_id is required")
	}
	return nil
}

// BulkAssignResult reports how many rows each side of the batch updated
type BulkAssignResult struct {
	EntriesUpdated int `json:"entries_updated"`
	CargoUpdated   int `json:"cargo_updated"`
}
