package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"troffee-auctioneer/internal/domain/shared"
)

// errorResponse is the JSON body returned on any failed operation
type errorResponse struct {
	Error string `json:"error"`
}

// statusFromError maps domain errors to HTTP status codes: validation
// failures are 422, conflicts against committed state are 409, missing
// lookup targets are 422 as well (the identifier was unusable, not a
// resource URL), everything else is 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidYear),
		errors.Is(err, shared.ErrInvalidStartingBid),
		errors.Is(err, shared.ErrInvalidVehicleType),
		errors.Is(err, shared.ErrInvalidVehicleAttributes),
		errors.Is(err, shared.ErrBidAmountTooLow),
		errors.Is(err, shared.ErrVehicleNotFound),
		errors.Is(err, shared.ErrAuctionNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrDuplicatedVehicle),
		errors.Is(err, shared.ErrAuctionAlreadyActive),
		errors.Is(err, shared.ErrAuctionAlreadyClosed),
		errors.Is(err, shared.ErrExistingHigherBid),
		errors.Is(err, shared.ErrBidderHasHigherBid):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// statusClientClosedRequest marks requests torn down by the caller; there
// is no stdlib constant for nginx's 499.
const statusClientClosedRequest = 499

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		// Client went away; no body, but the status keeps logs and
		// metrics from counting the abort as a 200
		w.WriteHeader(statusClientClosedRequest)
		return
	}

	status := statusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = shared.ErrInternal.Error()
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
