package rest

import (
	"net/http"
	"strconv"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port/usecases_port"
)

type FavoritesHandler struct {
	addUC        usecases_port.AddToFavoritesUseCasePort
	removeUC     usecases_port.RemoveFromFavoritesUseCasePort
	getObjectsUC usecases_port.GetUserFavoritesUseCasePort
	getIdsUC     usecases_port.GetUserFavoritesIdsUseCasePort
}

func NewFavoritesHandler(
	addUC usecases_port.AddToFavoritesUseCasePort,
	removeUC usecases_port.RemoveFromFavoritesUseCasePort,
	getObjectsUC usecases_port.GetUserFavoritesUseCasePort,
	getIdsUC usecases_port.GetUserFavoritesIdsUseCasePort,
) *FavoritesHandler {
	return &FavoritesHandler{
		addUC:        addUC,
		removeUC:     removeUC,
		getObjectsUC: getObjectsUC,
		getIdsUC:     getIdsUC,
	}
}

// GetUserFavoritesIds обрабатывает GET /api/v1/favorites/ids
func (h *FavoritesHandler) GetUserFavoritesIds(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetUserFavoritesIds"})
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ids, err := h.getIdsUC.Execute(r.Context(), claims.UserID)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, ids)
}

// GetUserFavorites обрабатывает GET /api/v1/favorites
func (h *FavoritesHandler) GetUserFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetUserFavorites"})
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	result, err := h.getObjectsUC.Execute(r.Context(), claims.UserID, limit, offset)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}

	logger.Info("Successfully retrieved user favorites", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Listings),
	})
	RespondWithJSON(w, http.StatusOK, PaginatedFavoritesResponse{
		Data:    toListingResponses(result.Listings),
		Total:   result.TotalCount,
		Page:    result.CurrentPage,
		PerPage: result.ItemsPerPage,
	})
}

// AddToFavorites обрабатывает POST /api/v1/favorites
func (h *FavoritesHandler) AddToFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AddToFavorites"})
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AddFavoriteRequest
	if err := decodeJSON(r, &req); err != nil || req.ListingID <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.addUC.Execute(r.Context(), claims.UserID, req.ListingID); err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// RemoveFromFavorites обрабатывает DELETE /api/v1/favorites/{listingID}
func (h *FavoritesHandler) RemoveFromFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RemoveFromFavorites"})
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

	if err := h.removeUC.Execute(r.Context(), claims.UserID, id); err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
