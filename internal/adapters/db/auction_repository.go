package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"troffee-auctioneer/internal/domain/auction"
	"troffee-auctioneer/internal/domain/shared"

	"github.com/google/uuid"
)

// AuctionRepository implements the auction repository interface.
//
// The one-active-auction-per-vehicle invariant is enforced here, not in the
// service layer: the uq_auctions_one_active_per_vehicle partial unique index
// rejects a second open auction for the same vehicle, and Insert reports
// that rejection as ErrAuctionAlreadyActive.
type AuctionRepository struct {
	conn *Connection
}

// NewAuctionRepository creates a new auction repository
func NewAuctionRepository(conn *Connection) *AuctionRepository {
	return &AuctionRepository{conn: conn}
}

// Insert creates a new auction row
func (r *AuctionRepository) Insert(ctx context.Context, a *auction.Auction) error {
	query := `
		INSERT INTO auctions (id, vehicle_id, start_time, end_time)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		a.ID,
		a.VehicleID,
		a.StartTime,
		a.EndTime,
	)

	if err != nil {
		if isUniqueViolation(err) {
			// A concurrent start committed first; this is a conflict,
			// not a fault
			return shared.ErrAuctionAlreadyActive
		}
		return classify(fmt.Errorf("failed to insert auction: %w", err))
	}

	return nil
}

// GetByID retrieves an auction by ID
func (r *AuctionRepository) GetByID(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	query := `
		SELECT id, vehicle_id, start_time, end_time
		FROM auctions
		WHERE id = $1
	`

	var a auction.Auction
	err := r.conn.GetDB().QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.VehicleID,
		&a.StartTime,
		&a.EndTime,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrAuctionNotFound
		}
		return nil, classify(fmt.Errorf("failed to get auction: %w", err))
	}

	return &a, nil
}

// GetOpenByVehicleID retrieves the active auction for a vehicle, or
// (nil, nil) when there is none
func (r *AuctionRepository) GetOpenByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*auction.Auction, error) {
	query := `
		SELECT id, vehicle_id, start_time, end_time
		FROM auctions
		WHERE vehicle_id = $1 AND end_time IS NULL
	`

	var a auction.Auction
	err := r.conn.GetDB().QueryRowContext(ctx, query, vehicleID).Scan(
		&a.ID,
		&a.VehicleID,
		&a.StartTime,
		&a.EndTime,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, classify(fmt.Errorf("failed to get open auction: %w", err))
	}

	return &a, nil
}

// SetEndTime closes an auction, conditional on the row still being open.
// Zero rows affected means a concurrent close already fired.
func (r *AuctionRepository) SetEndTime(ctx context.Context, id uuid.UUID, endTime time.Time) error {
	query := `
		UPDATE auctions
		SET end_time = $2
		WHERE id = $1 AND end_time IS NULL
	`

	result, err := r.conn.GetDB().ExecContext(ctx, query, id, endTime)
	if err != nil {
		return classify(fmt.Errorf("failed to close auction: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return classify(fmt.Errorf("failed to get rows affected: %w", err))
	}

	if rowsAffected == 0 {
		return shared.ErrAuctionAlreadyClosed
	}

	return nil
}
