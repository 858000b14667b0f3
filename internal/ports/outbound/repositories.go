package outbound

import (
	"context"
	"time"

	"troffee-auctioneer/internal/domain/auction"
	"troffee-auctioneer/internal/domain/bid"
	"troffee-auctioneer/internal/domain/vehicle"

	"github.com/google/uuid"
)

// VehicleSearchFilter narrows a vehicle search; nil fields are ignored
type VehicleSearchFilter struct {
	Type         *vehicle.Type
	Manufacturer *string
	Model        *string
	Year         *int
}

// VehicleSearchResult is a vehicle hit plus its active auction, if any
type VehicleSearchResult struct {
	Vehicle   *vehicle.Vehicle
	AuctionID *uuid.UUID
}

// VehicleRepository defines the interface for vehicle data operations
type VehicleRepository interface {
	// Insert creates a new vehicle record. Returns
	// shared.ErrDuplicatedVehicle when the identifier is already taken.
	Insert(ctx context.Context, v *vehicle.Vehicle) error

	// GetByID retrieves a vehicle by ID. Returns shared.ErrVehicleNotFound
	// when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)

	// Exists reports whether a vehicle with the given ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Search retrieves vehicles matching the filter
	Search(ctx context.Context, filter VehicleSearchFilter) ([]*VehicleSearchResult, error)
}

// AuctionRepository defines the interface for auction data operations
type AuctionRepository interface {
	// Insert creates a new auction row. The store enforces at most one
	// active auction per vehicle; a losing concurrent insert returns
	// shared.ErrAuctionAlreadyActive.
	Insert(ctx context.Context, a *auction.Auction) error

	// GetByID retrieves an auction by ID. Returns shared.ErrAuctionNotFound
	// when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*auction.Auction, error)

	// GetOpenByVehicleID retrieves the active auction for a vehicle, or
	// (nil, nil) when there is none.
	GetOpenByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*auction.Auction, error)

	// SetEndTime closes an auction, conditional on it still being open.
	// Returns shared.ErrAuctionAlreadyClosed when the auction was closed
	// in the meantime.
	SetEndTime(ctx context.Context, id uuid.UUID, endTime time.Time) error
}

// BidRepository defines the interface for bid data operations
type BidRepository interface {
	// Insert appends a bid, conditional on no higher-or-equal bid existing
	// for the auction at the moment of insert. Returns
	// shared.ErrExistingHigherBid when the condition fails.
	Insert(ctx context.Context, b *bid.Bid) error

	// GetHighest retrieves the highest bid for an auction. Returns
	// shared.ErrNoBidsFound when the auction has no bids.
	GetHighest(ctx context.Context, auctionID uuid.UUID) (*bid.Bid, error)
}

// VehicleCache is a best-effort read cache for admitted vehicles. Vehicles
// are immutable after admission, so entries never go stale. Implementations
// must not fail an operation on cache errors.
type VehicleCache interface {
	Get(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, bool)
	Set(ctx context.Context, v *vehicle.Vehicle)
}
