package app

import (
	"context"
	"errors"
	"time"

	"troffee-auctioneer/internal/domain/auction"
	"troffee-auctioneer/internal/domain/shared"
	"troffee-auctioneer/internal/ports/outbound"
	"troffee-auctioneer/internal/resilience"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuctionService implements the auction lifecycle use cases. It is the sole
// writer of auction rows: it creates them on start and sets the end
// timestamp exactly once on close.
type AuctionService struct {
	auctionRepo outbound.AuctionRepository
	vehicleRepo outbound.VehicleRepository
	cache       outbound.VehicleCache
	policy      *resilience.Policy
	logger      zerolog.Logger
}

type AuctionServiceParams struct {
	AuctionRepo outbound.AuctionRepository
	VehicleRepo outbound.VehicleRepository
	Cache       outbound.VehicleCache
	Policy      *resilience.Policy
	Logger      zerolog.Logger
}

// NewAuctionService creates a new auction service
func NewAuctionService(params AuctionServiceParams) *AuctionService {
	return &AuctionService{
		auctionRepo: params.AuctionRepo,
		vehicleRepo: params.VehicleRepo,
		cache:       params.Cache,
		policy:      params.Policy,
		logger:      params.Logger.With().Str("component", "auction_service").Logger(),
	}
}

// StartAuction opens an auction for a vehicle. The vehicle must exist and
// must not already have an active auction.
//
// The pre-insert check is a fast path only: the partial unique index on
// open auctions is what actually decides concurrent starts. When the insert
// loses that race it surfaces ErrAuctionAlreadyActive, never ErrInternal.
func (service *AuctionService) StartAuction(ctx context.Context, vehicleID uuid.UUID) (*auction.Auction, error) {
	service.logger.Info().Str("vehicle_id", vehicleID.String()).Msg("Attempting to start auction")

	if _, err := getVehicle(ctx, service.vehicleRepo, service.cache, vehicleID); err != nil {
		if errors.Is(err, shared.ErrVehicleNotFound) {
			service.logger.Warn().Str("vehicle_id", vehicleID.String()).Msg("Vehicle not found")
			return nil, shared.ErrVehicleNotFound
		}
		service.logger.Error().Err(err).Str("vehicle_id", vehicleID.String()).Msg("Failed to look up vehicle")
		return nil, internalUnlessDomain(err)
	}

	open, err := service.auctionRepo.GetOpenByVehicleID(ctx, vehicleID)
	if err != nil {
		service.logger.Error().Err(err).Str("vehicle_id", vehicleID.String()).Msg("Failed to check for active auction")
		return nil, internalUnlessDomain(err)
	}
	if open != nil {
		service.logger.Warn().
			Str("vehicle_id", vehicleID.String()).
			Str("auction_id", open.ID.String()).
			Msg("An auction for the vehicle is already active")
		return nil, shared.ErrAuctionAlreadyActive
	}

	newAuction := auction.New(vehicleID)

	err = service.policy.Execute(ctx, "auction.insert", func(ctx context.Context) error {
		return service.auctionRepo.Insert(ctx, newAuction)
	})
	if err != nil {
		if errors.Is(err, shared.ErrAuctionAlreadyActive) {
			// A concurrent start won the race on the uniqueness constraint
			service.logger.Warn().Str("vehicle_id", vehicleID.String()).Msg("Lost start race to a concurrent auction")
			return nil, shared.ErrAuctionAlreadyActive
		}
		service.logger.Error().Err(err).Str("vehicle_id", vehicleID.String()).Msg("Failed to start auction")
		return nil, err
	}

	service.logger.Info().
		Str("auction_id", newAuction.ID.String()).
		Str("vehicle_id", vehicleID.String()).
		Msg("Auction started successfully")
	return newAuction, nil
}

// CloseAuction closes an active auction by setting its end timestamp.
// Closing is idempotence-aware, not idempotent: the first call succeeds,
// a second yields ErrAuctionAlreadyClosed.
func (service *AuctionService) CloseAuction(ctx context.Context, auctionID uuid.UUID) (*auction.Auction, error) {
	service.logger.Info().Str("auction_id", auctionID.String()).Msg("Attempting to close auction")

	current, err := service.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, shared.ErrAuctionNotFound) {
			service.logger.Warn().Str("auction_id", auctionID.String()).Msg("Auction not found")
			return nil, shared.ErrAuctionNotFound
		}
		service.logger.Error().Err(err).Str("auction_id", auctionID.String()).Msg("Failed to retrieve auction")
		return nil, internalUnlessDomain(err)
	}

	if !current.IsActive() {
		service.logger.Warn().Str("auction_id", auctionID.String()).Msg("Auction already closed")
		return nil, shared.ErrAuctionAlreadyClosed
	}

	endTime := time.Now().UTC()

	err = service.policy.Execute(ctx, "auction.close", func(ctx context.Context) error {
		// Conditional on the row still being open; a concurrent close
		// turns this into ErrAuctionAlreadyClosed
		return service.auctionRepo.SetEndTime(ctx, auctionID, endTime)
	})
	if err != nil {
		if errors.Is(err, shared.ErrAuctionAlreadyClosed) {
			service.logger.Warn().Str("auction_id", auctionID.String()).Msg("Auction closed concurrently")
			return nil, shared.ErrAuctionAlreadyClosed
		}
		service.logger.Error().Err(err).Str("auction_id", auctionID.String()).Msg("Failed to close auction")
		return nil, err
	}

	current.Close(endTime)

	service.logger.Info().
		Str("auction_id", auctionID.String()).
		Time("end_time", endTime).
		Msg("Auction closed successfully")
	return current, nil
}

// internalUnlessDomain keeps domain errors intact and folds storage faults
// from read paths into ErrInternal. Context cancellation passes through.
func internalUnlessDomain(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if shared.IsTransient(err) {
		return shared.ErrInternal
	}
	return err
}
