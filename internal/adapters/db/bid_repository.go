package db

import (
	"context"
	"database/sql"
	"fmt"

	"troffee-auctioneer/internal/domain/bid"
	"troffee-auctioneer/internal/domain/shared"

	"github.com/google/uuid"
)

// BidRepository implements the bid repository interface
type BidRepository struct {
	conn *Connection
}

// NewBidRepository creates a new bid repository
func NewBidRepository(conn *Connection) *BidRepository {
	return &BidRepository{conn: conn}
}

// Insert appends a bid, conditional on no higher-or-equal bid existing for
// the auction. The transaction first takes a row lock on the auction, which
// serializes bid writers per auction; under READ COMMITTED the bare
// conditional insert is not enough, since two racing statements would each
// evaluate the NOT EXISTS against a snapshot that misses the other's
// uncommitted row. With the lock held, the condition sees every committed
// bid, so committed amounts stay strictly increasing.
func (r *BidRepository) Insert(ctx context.Context, b *bid.Bid) error {
	lockQuery := `SELECT 1 FROM auctions WHERE id = $1 FOR UPDATE`
	insertQuery := `
		INSERT INTO bids (id, auction_id, bidder_email, amount, created_at)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM bids WHERE auction_id = $2 AND amount >= $4
		)
	`

	var inserted bool
	err := r.conn.ExecuteTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, lockQuery, b.AuctionID); err != nil {
			return fmt.Errorf("failed to lock auction for bid: %w", err)
		}

		result, err := tx.ExecContext(ctx, insertQuery,
			b.ID,
			b.AuctionID,
			b.BidderEmail,
			b.Amount,
			b.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bid: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted = rowsAffected > 0
		return nil
	})
	if err != nil {
		return classify(err)
	}

	if !inserted {
		return shared.ErrExistingHigherBid
	}

	return nil
}

// GetHighest retrieves the highest bid for an auction
func (r *BidRepository) GetHighest(ctx context.Context, auctionID uuid.UUID) (*bid.Bid, error) {
	query := `
		SELECT id, auction_id, bidder_email, amount, created_at
		FROM bids
		WHERE auction_id = $1
		ORDER BY amount DESC
		LIMIT 1
	`

	var b bid.Bid
	err := r.conn.GetDB().QueryRowContext(ctx, query, auctionID).Scan(
		&b.ID,
		&b.AuctionID,
		&b.BidderEmail,
		&b.Amount,
		&b.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrNoBidsFound
		}
		return nil, classify(fmt.Errorf("failed to get highest bid: %w", err))
	}

	return &b, nil
}
