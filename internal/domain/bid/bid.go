package bid

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bid represents an accepted bid on an auction. Bids are append-only;
// within an auction, committed amounts are strictly increasing.
type Bid struct {
	ID          uuid.UUID `json:"id"`
	AuctionID   uuid.UUID `json:"auction_id"`
	BidderEmail string    `json:"bidder_email"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// New creates a bid with the current timestamp
func New(auctionID uuid.UUID, bidderEmail string, amount float64) *Bid {
	return &Bid{
		ID:          uuid.New(),
		AuctionID:   auctionID,
		BidderEmail: bidderEmail,
		Amount:      amount,
		CreatedAt:   time.Now().UTC(),
	}
}

// IsFrom reports whether the bid belongs to the given bidder. Bidder
// identifiers are emails and compare case-insensitively.
func (b *Bid) IsFrom(bidderEmail string) bool {
	return strings.EqualFold(b.BidderEmail, bidderEmail)
}
