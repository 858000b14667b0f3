package inbound

import (
	"context"

	"troffee-auctioneer/internal/domain/auction"
	"troffee-auctioneer/internal/domain/bid"
	"troffee-auctioneer/internal/domain/vehicle"
	"troffee-auctioneer/internal/ports/outbound"

	"github.com/google/uuid"
)

// VehicleService defines the interface for vehicle admission operations
type VehicleService interface {
	// AddVehicle admits a new vehicle for auctioning
	AddVehicle(ctx context.Context, req AddVehicleRequest) (*vehicle.Vehicle, error)

	// SearchVehicles retrieves vehicles matching the given criteria
	SearchVehicles(ctx context.Context, req SearchVehiclesRequest) ([]*outbound.VehicleSearchResult, error)
}

// AuctionService defines the interface for auction lifecycle operations
type AuctionService interface {
	// StartAuction opens an auction for a vehicle
	StartAuction(ctx context.Context, vehicleID uuid.UUID) (*auction.Auction, error)

	// CloseAuction closes an active auction
	CloseAuction(ctx context.Context, auctionID uuid.UUID) (*auction.Auction, error)
}

// BidService defines the interface for bid admission operations
type BidService interface {
	// PlaceBid places a new bid on an auction
	PlaceBid(ctx context.Context, req PlaceBidRequest) (*bid.Bid, error)
}

// request to admit a vehicle
type AddVehicleRequest struct {
	ID           uuid.UUID    `json:"id"`
	Type         vehicle.Type `json:"vehicle_type"`
	Manufacturer string       `json:"manufacturer"`
	Model        string       `json:"model"`
	Year         int          `json:"year"`
	StartingBid  float64      `json:"starting_bid"`
	NumDoors     *int         `json:"num_doors,omitempty"`
	NumSeats     *int         `json:"num_seats,omitempty"`
	LoadCapacity *float64     `json:"load_capacity,omitempty"`
}

// request to search vehicles
type SearchVehiclesRequest struct {
	Type         *vehicle.Type `json:"vehicle_type,omitempty"`
	Manufacturer *string       `json:"manufacturer,omitempty"`
	Model        *string       `json:"model,omitempty"`
	Year         *int          `json:"year,omitempty"`
}

// request to place a bid
type PlaceBidRequest struct {
	AuctionID   uuid.UUID `json:"auction_id"`
	BidderEmail string    `json:"bidder_email"`
	Amount      float64   `json:"amount"`
}
