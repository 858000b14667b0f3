package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"troffee-auctioneer/internal/domain/vehicle"
	"troffee-auctioneer/internal/ports/inbound"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handler exposes the four core operations plus vehicle search over JSON.
// It shapes requests and maps error codes; all rules live in the services.
type Handler struct {
	vehicles inbound.VehicleService
	auctions inbound.AuctionService
	bids     inbound.BidService
	logger   zerolog.Logger
}

type HandlerParams struct {
	Vehicles inbound.VehicleService
	Auctions inbound.AuctionService
	Bids     inbound.BidService
	Logger   zerolog.Logger
}

// NewHandler creates a new API handler
func NewHandler(params HandlerParams) *Handler {
	return &Handler{
		vehicles: params.Vehicles,
		auctions: params.Auctions,
		bids:     params.Bids,
		logger:   params.Logger.With().Str("component", "http_api").Logger(),
	}
}

// Routes mounts the handler endpoints on a router
func (h *Handler) Routes(r chi.Router) {
	r.Post("/vehicles", h.addVehicle)
	r.Get("/vehicles/search", h.searchVehicles)
	r.Post("/auctions", h.startAuction)
	r.Post("/auctions/{auctionID}/close", h.closeAuction)
	r.Post("/auctions/{auctionID}/bids", h.placeBid)
}

func (h *Handler) addVehicle(w http.ResponseWriter, r *http.Request) {
	var req inbound.AddVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.ID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "vehicle id is required"})
		return
	}

	v, err := h.vehicles.AddVehicle(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) searchVehicles(w http.ResponseWriter, r *http.Request) {
	var req inbound.SearchVehiclesRequest

	q := r.URL.Query()
	if s := q.Get("vehicle_type"); s != "" {
		t := vehicle.Type(s)
		req.Type = &t
	}
	if s := q.Get("manufacturer"); s != "" {
		req.Manufacturer = &s
	}
	if s := q.Get("model"); s != "" {
		req.Model = &s
	}
	if s := q.Get("year"); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid year"})
			return
		}
		req.Year = &year
	}

	results, err := h.vehicles.SearchVehicles(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	type hit struct {
		*vehicle.Vehicle
		AuctionID *uuid.UUID `json:"auction_id,omitempty"`
	}
	hits := make([]hit, 0, len(results))
	for _, res := range results {
		hits = append(hits, hit{Vehicle: res.Vehicle, AuctionID: res.AuctionID})
	}

	writeJSON(w, http.StatusOK, hits)
}

type startAuctionRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id"`
}

func (h *Handler) startAuction(w http.ResponseWriter, r *http.Request) {
	var req startAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.VehicleID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "vehicle id is required"})
		return
	}

	a, err := h.auctions.StartAuction(r.Context(), req.VehicleID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) closeAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, err := uuid.Parse(chi.URLParam(r, "auctionID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid auction id"})
		return
	}

	a, err := h.auctions.CloseAuction(r.Context(), auctionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

type placeBidRequest struct {
	BidderEmail string  `json:"bidder_email"`
	Amount      float64 `json:"amount"`
}

func (h *Handler) placeBid(w http.ResponseWriter, r *http.Request) {
	auctionID, err := uuid.Parse(chi.URLParam(r, "auctionID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid auction id"})
		return
	}

	var req placeBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.BidderEmail == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bidder email is required"})
		return
	}

	b, err := h.bids.PlaceBid(r.Context(), inbound.PlaceBidRequest{
		AuctionID:   auctionID,
		BidderEmail: req.BidderEmail,
		Amount:      req.Amount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}
