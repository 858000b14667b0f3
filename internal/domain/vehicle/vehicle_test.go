package vehicle

import (
	"errors"
	"testing"
	"time"

	"troffee-auctioneer/internal/domain/shared"

	"github.com/google/uuid"
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		vehicle Vehicle
		wantErr error
	}{
		{
			name:    "hatchback with doors",
			vehicle: Vehicle{Type: TypeHatchback, Year: 2020, StartingBid: 100, NumDoors: intPtr(3)},
		},
		{
			name:    "sedan with doors",
			vehicle: Vehicle{Type: TypeSedan, Year: 2020, StartingBid: 100, NumDoors: intPtr(4)},
		},
		{
			name:    "suv with seats",
			vehicle: Vehicle{Type: TypeSUV, Year: 2020, StartingBid: 100, NumSeats: intPtr(7)},
		},
		{
			name:    "truck with load capacity",
			vehicle: Vehicle{Type: TypeTruck, Year: 2020, StartingBid: 100, LoadCapacity: floatPtr(3500)},
		},
		{
			name:    "current year is valid",
			vehicle: Vehicle{Type: TypeSedan, Year: time.Now().Year(), StartingBid: 100, NumDoors: intPtr(4)},
		},
		{
			name:    "future year",
			vehicle: Vehicle{Type: TypeSedan, Year: time.Now().Year() + 1, StartingBid: 100, NumDoors: intPtr(4)},
			wantErr: shared.ErrInvalidYear,
		},
		{
			name:    "zero starting bid",
			vehicle: Vehicle{Type: TypeSedan, Year: 2020, StartingBid: 0, NumDoors: intPtr(4)},
			wantErr: shared.ErrInvalidStartingBid,
		},
		{
			name:    "negative starting bid",
			vehicle: Vehicle{Type: TypeSedan, Year: 2020, StartingBid: -50, NumDoors: intPtr(4)},
			wantErr: shared.ErrInvalidStartingBid,
		},
		{
			name:    "unknown type",
			vehicle: Vehicle{Type: "motorcycle", Year: 2020, StartingBid: 100},
			wantErr: shared.ErrInvalidVehicleType,
		},
		{
			name:    "sedan without doors",
			vehicle: Vehicle{Type: TypeSedan, Year: 2020, StartingBid: 100},
			wantErr: shared.ErrInvalidVehicleAttributes,
		},
		{
			name:    "sedan with zero doors",
			vehicle: Vehicle{Type: TypeSedan, Year: 2020, StartingBid: 100, NumDoors: intPtr(0)},
			wantErr: shared.ErrInvalidVehicleAttributes,
		},
		{
			name:    "sedan carrying suv attributes",
			vehicle: Vehicle{Type: TypeSedan, Year: 2020, StartingBid: 100, NumDoors: intPtr(4), NumSeats: intPtr(5)},
			wantErr: shared.ErrInvalidVehicleAttributes,
		},
		{
			name:    "suv without seats",
			vehicle: Vehicle{Type: TypeSUV, Year: 2020, StartingBid: 100},
			wantErr: shared.ErrInvalidVehicleAttributes,
		},
		{
			name:    "suv carrying truck attributes",
			vehicle: Vehicle{Type: TypeSUV, Year: 2020, StartingBid: 100, NumSeats: intPtr(7), LoadCapacity: floatPtr(1200)},
			wantErr: shared.ErrInvalidVehicleAttributes,
		},
		{
			name:    "truck without load capacity",
			vehicle: Vehicle{Type: TypeTruck, Year: 2020, StartingBid: 100},
			wantErr: shared.ErrInvalidVehicleAttributes,
		},
		{
			name:    "truck with negative load capacity",
			vehicle: Vehicle{Type: TypeTruck, Year: 2020, StartingBid: 100, LoadCapacity: floatPtr(-1)},
			wantErr: shared.ErrInvalidVehicleAttributes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.vehicle.ID = uuid.New()
			err := tt.vehicle.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
