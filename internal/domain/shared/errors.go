package shared

import "errors"

// Domain-specific errors
var (
	// Vehicle errors
	ErrVehicleNotFound          = errors.New("vehicle not found")
	ErrDuplicatedVehicle        = errors.New("a vehicle with the same identifier already exists")
	ErrInvalidYear              = errors.New("vehicle year cannot be above the current year")
	ErrInvalidStartingBid       = errors.New("starting bid must be greater than 0")
	ErrInvalidVehicleType       = errors.New("unknown vehicle type")
	ErrInvalidVehicleAttributes = errors.New("vehicle attributes do not match the vehicle type")

	// Auction errors
	ErrAuctionNotFound      = errors.New("auction not found")
	ErrAuctionAlreadyActive = errors.New("an auction for the vehicle is already active")
	ErrAuctionAlreadyClosed = errors.New("auction already closed")

	// Bid errors
	ErrBidAmountTooLow    = errors.New("bid amount must be higher than the current highest bid and the starting bid")
	ErrExistingHigherBid  = errors.New("a higher or equal bid already exists for the auction")
	ErrBidderHasHigherBid = errors.New("bidder already holds the highest bid for the auction")
	ErrNoBidsFound        = errors.New("no bids found")

	// Infrastructure errors
	ErrInternal = errors.New("internal error")
)

// conflictErrors are precondition failures against committed state, possibly
// caused by a concurrent winner. Retrying cannot change their outcome, so the
// resilience policy surfaces them immediately.
var conflictErrors = []error{
	ErrVehicleNotFound,
	ErrDuplicatedVehicle,
	ErrAuctionNotFound,
	ErrAuctionAlreadyActive,
	ErrAuctionAlreadyClosed,
	ErrExistingHigherBid,
	ErrBidderHasHigherBid,
}

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool {
	for _, conflict := range conflictErrors {
		if errors.Is(err, conflict) {
			return true
		}
	}
	return false
}

// TransientError marks a storage-layer fault that may succeed on retry
// (timeout, dropped connection). The resilience policy retries these up to
// its bound and surfaces ErrInternal once exhausted.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient storage failure: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a transient failure. A nil err returns nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is classified as transient
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
