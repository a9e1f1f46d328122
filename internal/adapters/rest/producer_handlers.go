package rest

import (
	"net/http"
	"strconv"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port/usecases_port"
)

// ProducerHandler - кабинет производителя: карточка и товары
type ProducerHandler struct {
	createUC     usecases_port.CreateListingUseCasePort
	updateUC     usecases_port.UpdateListingUseCasePort
	deactivateUC usecases_port.DeactivateListingUseCasePort
	addProductUC usecases_port.AddProductUseCasePort
}

func NewProducerHandler(
	createUC usecases_port.CreateListingUseCasePort,
	updateUC usecases_port.UpdateListingUseCasePort,
	deactivateUC usecases_port.DeactivateListingUseCasePort,
	addProductUC usecases_port.AddProductUseCasePort,
) *ProducerHandler {
	return &ProducerHandler{
		createUC:     createUC,
		updateUC:     updateUC,
		deactivateUC: deactivateUC,
		addProductUC: addProductUC,
	}
}

// CreateListing обрабатывает POST /api/v1/producer/listings
func (h *ProducerHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateListing"})
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ListingRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("Failed to decode request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	listing, err := h.createUC.Execute(r.Context(), claims.UserID, req.toDraft())
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}

	w.Header().Set("Location", "/api/v1/producer/listings/"+strconv.FormatInt(listing.ID, 10))
	RespondWithJSON(w, http.StatusCreated, toListingResponse(*listing))
}

// UpdateListing обрабатывает PUT /api/v1/producer/listings/{listingID}
func (h *ProducerHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateListing"})
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	id, ok := idParam(r, "listingID")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID in URL")
		return
	}

	var req ListingRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	listing, err := h.updateUC.Execute(r.Context(), claims.UserID, id, req.toDraft())
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingResponse(*listing))
}

// DeactivateListing обрабатывает DELETE /api/v1/producer/listings/{listingID}
func (h *ProducerHandler) DeactivateListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeactivateListing"})
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	id, ok := idParam(r, "listingID")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID in URL")
		return
	}

	if err := h.deactivateUC.Execute(r.Context(), claims.UserID, id); err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddProduct обрабатывает POST /api/v1/producer/listings/{listingID}/products
func (h *ProducerHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AddProduct"})
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	id, ok := idParam(r, "listingID")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID in URL")
		return
	}

	var req ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.addProductUC.Execute(r.Context(), claims.UserID, domain.Product{
		ListingID:   id,
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
		PriceCents:  req.PriceCents,
		StockStatus: domain.StockStatus(req.StockStatus),
	})
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, toProductResponse(*product))
}
