package rest

import (
	"net/http"
	"strconv"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port/usecases_port"
)

// AdminHandler - модерация карточек, доступна только роли admin
type AdminHandler struct {
	pendingUC  usecases_port.GetPendingListingsUseCasePort
	moderateUC usecases_port.ModerateListingUseCasePort
}

func NewAdminHandler(pendingUC usecases_port.GetPendingListingsUseCasePort, moderateUC usecases_port.ModerateListingUseCasePort) *AdminHandler {
	return &AdminHandler{pendingUC: pendingUC, moderateUC: moderateUC}
}

// GetPendingListings обрабатывает GET /api/v1/admin/listings/pending
func (h *AdminHandler) GetPendingListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetPendingListings"})

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	result, err := h.pendingUC.Execute(r.Context(), limit, offset)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, PaginatedListingsResponse{
		Data:    toListingResponses(result.Listings),
		Total:   result.TotalCount,
		Page:    result.CurrentPage,
		PerPage: result.ItemsPerPage,
		HasMore: result.HasMore(),
	})
}

// ApproveListing обрабатывает POST /api/v1/admin/listings/{listingID}/approve
func (h *AdminHandler) ApproveListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ApproveListing"})
	id, ok := idParam(r, "listingID")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID in URL")
		return
	}

	listing, err := h.moderateUC.Approve(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingResponse(*listing))
}

// RejectListing обрабатывает POST /api/v1/admin/listings/{listingID}/reject
func (h *AdminHandler) RejectListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RejectListing"})
	id, ok := idParam(r, "listingID")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID in URL")
		return
	}

	var req RejectRequest
	// тело необязательно
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	listing, err := h.moderateUC.Reject(r.Context(), id, req.Reason)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingResponse(*listing))
}
