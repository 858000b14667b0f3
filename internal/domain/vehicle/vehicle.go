package vehicle

import (
	"time"

	"troffee-auctioneer/internal/domain/shared"

	"github.com/google/uuid"
)

// Type identifies the kind of vehicle being auctioned
type Type string

const (
	TypeHatchback Type = "hatchback"
	TypeSedan     Type = "sedan"
	TypeSUV       Type = "suv"
	TypeTruck     Type = "truck"
)

// Vehicle represents a vehicle admitted for auctioning. The record is
// immutable once admitted; the type tag decides which attribute set is
// populated.
type Vehicle struct {
	ID           uuid.UUID `json:"id"`
	Type         Type      `json:"vehicle_type"`
	Manufacturer string    `json:"manufacturer"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	StartingBid  float64   `json:"starting_bid"`

	// Type-specific attributes; exactly one set is populated per Type
	NumDoors     *int     `json:"num_doors,omitempty"`
	NumSeats     *int     `json:"num_seats,omitempty"`
	LoadCapacity *float64 `json:"load_capacity,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// IsYearValid returns true if the model year is not in the future
func (v *Vehicle) IsYearValid() bool {
	return v.Year <= time.Now().Year()
}

// Validate checks the admission rules for the vehicle record
func (v *Vehicle) Validate() error {
	if !v.IsYearValid() {
		return shared.ErrInvalidYear
	}
	if v.StartingBid <= 0 {
		return shared.ErrInvalidStartingBid
	}
	switch v.Type {
	case TypeHatchback, TypeSedan:
		if v.NumDoors == nil || *v.NumDoors <= 0 {
			return shared.ErrInvalidVehicleAttributes
		}
		if v.NumSeats != nil || v.LoadCapacity != nil {
			return shared.ErrInvalidVehicleAttributes
		}
	case TypeSUV:
		if v.NumSeats == nil || *v.NumSeats <= 0 {
			return shared.ErrInvalidVehicleAttributes
		}
		if v.NumDoors != nil || v.LoadCapacity != nil {
			return shared.ErrInvalidVehicleAttributes
		}
	case TypeTruck:
		if v.LoadCapacity == nil || *v.LoadCapacity <= 0 {
			return shared.ErrInvalidVehicleAttributes
		}
		if v.NumDoors != nil || v.NumSeats != nil {
			return shared.ErrInvalidVehicleAttributes
		}
	default:
		return shared.ErrInvalidVehicleType
	}
	return nil
}
