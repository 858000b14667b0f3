package auction

import (
	"time"

	"github.com/google/uuid"
)

// Auction represents an auction over a single vehicle. A nil EndTime means
// the auction is active; setting it is the only mutation an auction ever
// sees. At most one active auction may exist per vehicle at any time, which
// the storage layer enforces with a partial unique index.
type Auction struct {
	ID        uuid.UUID  `json:"id"`
	VehicleID uuid.UUID  `json:"vehicle_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// New creates an active auction for the given vehicle
func New(vehicleID uuid.UUID) *Auction {
	return &Auction{
		ID:        uuid.New(),
		VehicleID: vehicleID,
		StartTime: time.Now().UTC(),
	}
}

// IsActive returns true if the auction has not been closed yet
func (a *Auction) IsActive() bool {
	return a.EndTime == nil
}

// Close marks the auction as closed. Closing is single-fire; a second call
// reports false and leaves the original end timestamp untouched.
func (a *Auction) Close(now time.Time) bool {
	if a.EndTime != nil {
		return false
	}
	a.EndTime = &now
	return true
}
