package db

import (
	"context"
	"database/sql"
	"fmt"

	"troffee-auctioneer/internal/domain/shared"
	"troffee-auctioneer/internal/domain/vehicle"
	"troffee-auctioneer/internal/ports/outbound"

	"github.com/google/uuid"
)

// VehicleRepository implements the vehicle repository interface
type VehicleRepository struct {
	conn *Connection
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(conn *Connection) *VehicleRepository {
	return &VehicleRepository{conn: conn}
}

// Insert creates a new vehicle record. The primary key constraint settles
// concurrent inserts of the same identifier.
func (r *VehicleRepository) Insert(ctx context.Context, v *vehicle.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, vehicle_type, manufacturer, model, year, starting_bid, num_doors, num_seats, load_capacity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		v.ID,
		v.Type,
		v.Manufacturer,
		v.Model,
		v.Year,
		v.StartingBid,
		v.NumDoors,
		v.NumSeats,
		v.LoadCapacity,
		v.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrDuplicatedVehicle
		}
		return classify(fmt.Errorf("failed to insert vehicle: %w", err))
	}

	return nil
}

// GetByID retrieves a vehicle by ID
func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	query := `
		SELECT id, vehicle_type, manufacturer, model, year, starting_bid, num_doors, num_seats, load_capacity, created_at
		FROM vehicles
		WHERE id = $1
	`

	var v vehicle.Vehicle
	err := r.conn.GetDB().QueryRowContext(ctx, query, id).Scan(
		&v.ID,
		&v.Type,
		&v.Manufacturer,
		&v.Model,
		&v.Year,
		&v.StartingBid,
		&v.NumDoors,
		&v.NumSeats,
		&v.LoadCapacity,
		&v.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrVehicleNotFound
		}
		return nil, classify(fmt.Errorf("failed to get vehicle: %w", err))
	}

	return &v, nil
}

// Exists reports whether a vehicle with the given ID exists
func (r *VehicleRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM vehicles WHERE id = $1)`

	var exists bool
	if err := r.conn.GetDB().QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, classify(fmt.Errorf("failed to check vehicle existence: %w", err))
	}

	return exists, nil
}

// Search retrieves vehicles matching the filter, each with its active
// auction id when one exists
func (r *VehicleRepository) Search(ctx context.Context, filter outbound.VehicleSearchFilter) ([]*outbound.VehicleSearchResult, error) {
	query := `
		SELECT v.id, v.vehicle_type, v.manufacturer, v.model, v.year, v.starting_bid, v.num_doors, v.num_seats, v.load_capacity, v.created_at, a.id
		FROM vehicles v
		LEFT JOIN auctions a ON a.vehicle_id = v.id AND a.end_time IS NULL
		WHERE ($1::text IS NULL OR v.vehicle_type = $1)
		  AND ($2::text IS NULL OR LOWER(v.manufacturer) = LOWER($2))
		  AND ($3::text IS NULL OR LOWER(v.model) = LOWER($3))
		  AND ($4::int IS NULL OR v.year = $4)
		ORDER BY v.created_at DESC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query,
		(*string)(filter.Type),
		filter.Manufacturer,
		filter.Model,
		filter.Year,
	)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to search vehicles: %w", err))
	}
	defer rows.Close()

	var results []*outbound.VehicleSearchResult
	for rows.Next() {
		var v vehicle.Vehicle
		var auctionID *uuid.UUID
		err := rows.Scan(
			&v.ID,
			&v.Type,
			&v.Manufacturer,
			&v.Model,
			&v.Year,
			&v.StartingBid,
			&v.NumDoors,
			&v.NumSeats,
			&v.LoadCapacity,
			&v.CreatedAt,
			&auctionID,
		)
		if err != nil {
			return nil, classify(fmt.Errorf("failed to scan vehicle: %w", err))
		}
		results = append(results, &outbound.VehicleSearchResult{Vehicle: &v, AuctionID: auctionID})
	}

	if err = rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("error iterating vehicles: %w", err))
	}

	return results, nil
}
