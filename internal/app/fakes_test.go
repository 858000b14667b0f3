package app

import (
	"context"
	"sync"
	"time"

	"troffee-auctioneer/internal/domain/auction"
	"troffee-auctioneer/internal/domain/bid"
	"troffee-auctioneer/internal/domain/shared"
	"troffee-auctioneer/internal/domain/vehicle"
	"troffee-auctioneer/internal/ports/outbound"
	"troffee-auctioneer/internal/resilience"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// testPolicy returns a policy with sub-millisecond backoff and a breaker
// that never trips, so tests exercise the services, not the policy.
func testPolicy() *resilience.Policy {
	return resilience.New(resilience.Config{
		MaxRetries:       2,
		InitialInterval:  time.Millisecond,
		Multiplier:       2,
		MaxInterval:      2 * time.Millisecond,
		BreakerThreshold: 1000,
		BreakerCooldown:  time.Second,
	}, zerolog.Nop())
}

// --- in-memory stores ---
//
// The fakes enforce the same constraints the schema does, atomically under
// a mutex, so the concurrency tests race against a store with real
// conflict semantics.

type vehicleStore struct {
	mu       sync.Mutex
	vehicles map[uuid.UUID]*vehicle.Vehicle

	insertFn func(ctx context.Context, v *vehicle.Vehicle) error
	getFn    func(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)
}

func newVehicleStore() *vehicleStore {
	return &vehicleStore{vehicles: make(map[uuid.UUID]*vehicle.Vehicle)}
}

func (s *vehicleStore) Insert(ctx context.Context, v *vehicle.Vehicle) error {
	if s.insertFn != nil {
		return s.insertFn(ctx, v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vehicles[v.ID]; ok {
		return shared.ErrDuplicatedVehicle
	}
	copied := *v
	s.vehicles[v.ID] = &copied
	return nil
}

func (s *vehicleStore) GetByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return nil, shared.ErrVehicleNotFound
	}
	copied := *v
	return &copied, nil
}

func (s *vehicleStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.vehicles[id]
	return ok, nil
}

func (s *vehicleStore) Search(ctx context.Context, filter outbound.VehicleSearchFilter) ([]*outbound.VehicleSearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var results []*outbound.VehicleSearchResult
	for _, v := range s.vehicles {
		if filter.Type != nil && v.Type != *filter.Type {
			continue
		}
		if filter.Year != nil && v.Year != *filter.Year {
			continue
		}
		copied := *v
		results = append(results, &outbound.VehicleSearchResult{Vehicle: &copied})
	}
	return results, nil
}

type auctionStore struct {
	mu       sync.Mutex
	auctions map[uuid.UUID]*auction.Auction

	insertFn func(ctx context.Context, a *auction.Auction) error
}

func newAuctionStore() *auctionStore {
	return &auctionStore{auctions: make(map[uuid.UUID]*auction.Auction)}
}

func (s *auctionStore) Insert(ctx context.Context, a *auction.Auction) error {
	if s.insertFn != nil {
		return s.insertFn(ctx, a)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.auctions {
		if existing.VehicleID == a.VehicleID && existing.EndTime == nil {
			return shared.ErrAuctionAlreadyActive
		}
	}
	copied := *a
	s.auctions[a.ID] = &copied
	return nil
}

func (s *auctionStore) GetByID(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[id]
	if !ok {
		return nil, shared.ErrAuctionNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *auctionStore) GetOpenByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*auction.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.auctions {
		if a.VehicleID == vehicleID && a.EndTime == nil {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *auctionStore) SetEndTime(ctx context.Context, id uuid.UUID, endTime time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[id]
	if !ok || a.EndTime != nil {
		return shared.ErrAuctionAlreadyClosed
	}
	ts := endTime
	a.EndTime = &ts
	return nil
}

type bidStore struct {
	mu   sync.Mutex
	bids map[uuid.UUID][]*bid.Bid

	insertFn func(ctx context.Context, b *bid.Bid) error
}

func newBidStore() *bidStore {
	return &bidStore{bids: make(map[uuid.UUID][]*bid.Bid)}
}

func (s *bidStore) Insert(ctx context.Context, b *bid.Bid) error {
	if s.insertFn != nil {
		return s.insertFn(ctx, b)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.bids[b.AuctionID] {
		if existing.Amount >= b.Amount {
			return shared.ErrExistingHigherBid
		}
	}
	copied := *b
	s.bids[b.AuctionID] = append(s.bids[b.AuctionID], &copied)
	return nil
}

func (s *bidStore) GetHighest(ctx context.Context, auctionID uuid.UUID) (*bid.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var highest *bid.Bid
	for _, b := range s.bids[auctionID] {
		if highest == nil || b.Amount > highest.Amount {
			highest = b
		}
	}
	if highest == nil {
		return nil, shared.ErrNoBidsFound
	}
	copied := *highest
	return &copied, nil
}

// amounts returns the committed amounts for an auction in insert order
func (s *bidStore) amounts(auctionID uuid.UUID) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []float64
	for _, b := range s.bids[auctionID] {
		out = append(out, b.Amount)
	}
	return out
}
