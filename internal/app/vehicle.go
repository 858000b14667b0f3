package app

import (
	"context"
	"time"

	"troffee-auctioneer/internal/domain/shared"
	"troffee-auctioneer/internal/domain/vehicle"
	"troffee-auctioneer/internal/ports/inbound"
	"troffee-auctioneer/internal/ports/outbound"
	"troffee-auctioneer/internal/resilience"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// VehicleService implements the vehicle admission use cases
type VehicleService struct {
	vehicleRepo outbound.VehicleRepository
	cache       outbound.VehicleCache
	policy      *resilience.Policy
	logger      zerolog.Logger
}

type VehicleServiceParams struct {
	VehicleRepo outbound.VehicleRepository
	Cache       outbound.VehicleCache
	Policy      *resilience.Policy
	Logger      zerolog.Logger
}

// NewVehicleService creates a new vehicle service
func NewVehicleService(params VehicleServiceParams) *VehicleService {
	return &VehicleService{
		vehicleRepo: params.VehicleRepo,
		cache:       params.Cache,
		policy:      params.Policy,
		logger:      params.Logger.With().Str("component", "vehicle_service").Logger(),
	}
}

// AddVehicle admits a new vehicle. The vehicle identifier is caller-supplied
// and globally unique; the storage constraint settles concurrent adds of the
// same identifier, so exactly one wins and the rest get ErrDuplicatedVehicle.
func (service *VehicleService) AddVehicle(ctx context.Context, req inbound.AddVehicleRequest) (*vehicle.Vehicle, error) {
	service.logger.Info().
		Str("vehicle_id", req.ID.String()).
		Str("vehicle_type", string(req.Type)).
		Str("manufacturer", req.Manufacturer).
		Str("model", req.Model).
		Int("year", req.Year).
		Float64("starting_bid", req.StartingBid).
		Msg("Attempting to add vehicle")

	v := &vehicle.Vehicle{
		ID:           req.ID,
		Type:         req.Type,
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		Year:         req.Year,
		StartingBid:  req.StartingBid,
		NumDoors:     req.NumDoors,
		NumSeats:     req.NumSeats,
		LoadCapacity: req.LoadCapacity,
		CreatedAt:    time.Now().UTC(),
	}

	if err := v.Validate(); err != nil {
		service.logger.Warn().Err(err).Str("vehicle_id", v.ID.String()).Msg("Vehicle rejected by admission rules")
		return nil, err
	}

	// Fast path; the primary key constraint is the real guarantee
	exists, err := service.vehicleRepo.Exists(ctx, v.ID)
	if err == nil && exists {
		service.logger.Warn().Str("vehicle_id", v.ID.String()).Msg("Vehicle identifier already taken")
		return nil, shared.ErrDuplicatedVehicle
	}

	err = service.policy.Execute(ctx, "vehicle.insert", func(ctx context.Context) error {
		return service.vehicleRepo.Insert(ctx, v)
	})
	if err != nil {
		service.logger.Error().Err(err).Str("vehicle_id", v.ID.String()).Msg("Failed to add vehicle")
		return nil, err
	}

	if service.cache != nil {
		service.cache.Set(ctx, v)
	}

	service.logger.Info().Str("vehicle_id", v.ID.String()).Msg("Vehicle added successfully")
	return v, nil
}

// SearchVehicles retrieves vehicles matching the given criteria
func (service *VehicleService) SearchVehicles(ctx context.Context, req inbound.SearchVehiclesRequest) ([]*outbound.VehicleSearchResult, error) {
	if req.Year != nil && *req.Year > time.Now().Year() {
		service.logger.Warn().Int("year", *req.Year).Msg("Search rejected, year is in the future")
		return nil, shared.ErrInvalidYear
	}

	results, err := service.vehicleRepo.Search(ctx, outbound.VehicleSearchFilter{
		Type:         req.Type,
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		Year:         req.Year,
	})
	if err != nil {
		service.logger.Error().Err(err).Msg("Vehicle search failed")
		if shared.IsTransient(err) {
			return nil, shared.ErrInternal
		}
		return nil, err
	}

	return results, nil
}

// getVehicle reads a vehicle through the cache when one is configured
func getVehicle(ctx context.Context, repo outbound.VehicleRepository, cache outbound.VehicleCache, id uuid.UUID) (*vehicle.Vehicle, error) {
	if cache != nil {
		if v, ok := cache.Get(ctx, id); ok {
			return v, nil
		}
	}

	v, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		cache.Set(ctx, v)
	}
	return v, nil
}
