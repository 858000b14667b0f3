package app

import (
	"context"
	"errors"

	"troffee-auctioneer/internal/domain/bid"
	"troffee-auctioneer/internal/domain/shared"
	"troffee-auctioneer/internal/ports/inbound"
	"troffee-auctioneer/internal/ports/outbound"
	"troffee-auctioneer/internal/resilience"

	"github.com/rs/zerolog"
)

// placeBidAttempts bounds the validate-insert cycles when concurrent bids
// keep winning the insert race. Bids are append-only, so a second
// validation pass against fresh state almost always settles the outcome.
const placeBidAttempts = 3

// BidService implements the bid admission use cases; it is the sole writer
// of bid rows.
type BidService struct {
	bidRepo     outbound.BidRepository
	auctionRepo outbound.AuctionRepository
	vehicleRepo outbound.VehicleRepository
	cache       outbound.VehicleCache
	policy      *resilience.Policy
	logger      zerolog.Logger
}

type BidServiceParams struct {
	BidRepo     outbound.BidRepository
	AuctionRepo outbound.AuctionRepository
	VehicleRepo outbound.VehicleRepository
	Cache       outbound.VehicleCache
	Policy      *resilience.Policy
	Logger      zerolog.Logger
}

// NewBidService creates a new bid service
func NewBidService(params BidServiceParams) *BidService {
	return &BidService{
		bidRepo:     params.BidRepo,
		auctionRepo: params.AuctionRepo,
		vehicleRepo: params.VehicleRepo,
		cache:       params.Cache,
		policy:      params.Policy,
		logger:      params.Logger.With().Str("component", "bid_service").Logger(),
	}
}

// PlaceBid places a new bid on an auction.
//
// Preconditions run in a fixed order, first failure wins: the auction must
// exist, must still be open, the amount must beat the vehicle's starting
// bid, then the current highest bid, and the current highest bidder may not
// outbid themselves.
//
// The insert is conditional on no higher-or-equal bid existing at commit
// time. When a concurrent bid wins that race, the whole validation chain is
// re-run against fresh state so the caller gets the precise domain error
// instead of a spurious failure.
func (service *BidService) PlaceBid(ctx context.Context, req inbound.PlaceBidRequest) (*bid.Bid, error) {
	service.logger.Info().
		Str("auction_id", req.AuctionID.String()).
		Str("bidder_email", req.BidderEmail).
		Float64("amount", req.Amount).
		Msg("Attempting to place bid")

	var lastErr error
	for attempt := 0; attempt < placeBidAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := service.validate(ctx, req); err != nil {
			return nil, err
		}

		newBid := bid.New(req.AuctionID, req.BidderEmail, req.Amount)

		err := service.policy.Execute(ctx, "bid.insert", func(ctx context.Context) error {
			return service.bidRepo.Insert(ctx, newBid)
		})
		if err == nil {
			service.logger.Info().
				Str("bid_id", newBid.ID.String()).
				Str("auction_id", req.AuctionID.String()).
				Float64("amount", req.Amount).
				Msg("Bid placed successfully")
			return newBid, nil
		}

		if errors.Is(err, shared.ErrExistingHigherBid) {
			// Lost the insert race; re-validate against fresh state
			service.logger.Warn().
				Str("auction_id", req.AuctionID.String()).
				Int("attempt", attempt+1).
				Msg("Conditional bid insert lost a concurrent race, re-validating")
			lastErr = err
			continue
		}

		service.logger.Error().Err(err).Str("auction_id", req.AuctionID.String()).Msg("Failed to place bid")
		return nil, err
	}

	return nil, lastErr
}

// validate runs the admission chain against current persisted state
func (service *BidService) validate(ctx context.Context, req inbound.PlaceBidRequest) error {
	current, err := service.auctionRepo.GetByID(ctx, req.AuctionID)
	if err != nil {
		if errors.Is(err, shared.ErrAuctionNotFound) {
			service.logger.Warn().Str("auction_id", req.AuctionID.String()).Msg("Auction not found")
			return shared.ErrAuctionNotFound
		}
		service.logger.Error().Err(err).Str("auction_id", req.AuctionID.String()).Msg("Failed to retrieve auction")
		return internalUnlessDomain(err)
	}

	if !current.IsActive() {
		service.logger.Warn().Str("auction_id", req.AuctionID.String()).Msg("Auction already closed")
		return shared.ErrAuctionAlreadyClosed
	}

	v, err := getVehicle(ctx, service.vehicleRepo, service.cache, current.VehicleID)
	if err != nil {
		service.logger.Error().Err(err).Str("vehicle_id", current.VehicleID.String()).Msg("Failed to retrieve vehicle for bid validation")
		return internalUnlessDomain(err)
	}

	if req.Amount <= v.StartingBid {
		service.logger.Warn().
			Float64("amount", req.Amount).
			Float64("starting_bid", v.StartingBid).
			Str("auction_id", req.AuctionID.String()).
			Msg("Bid amount does not beat the starting bid")
		return shared.ErrBidAmountTooLow
	}

	highest, err := service.bidRepo.GetHighest(ctx, req.AuctionID)
	if err != nil && !errors.Is(err, shared.ErrNoBidsFound) {
		service.logger.Error().Err(err).Str("auction_id", req.AuctionID.String()).Msg("Failed to retrieve highest bid")
		return internalUnlessDomain(err)
	}

	if highest != nil {
		if req.Amount <= highest.Amount {
			service.logger.Warn().
				Float64("amount", req.Amount).
				Float64("highest_bid", highest.Amount).
				Str("auction_id", req.AuctionID.String()).
				Msg("Bid amount does not beat the current highest bid")
			return shared.ErrBidAmountTooLow
		}
		if highest.IsFrom(req.BidderEmail) {
			service.logger.Warn().
				Str("bidder_email", req.BidderEmail).
				Str("auction_id", req.AuctionID.String()).
				Msg("Bidder already holds the highest bid")
			return shared.ErrBidderHasHigherBid
		}
	}

	return nil
}
