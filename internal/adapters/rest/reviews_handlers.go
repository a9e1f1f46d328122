package rest

import (
	"net/http"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port/usecases_port"
)

type ReviewsHandler struct {
	createUC usecases_port.CreateReviewUseCasePort
	getUC    usecases_port.GetReviewsUseCasePort
}

func NewReviewsHandler(createUC usecases_port.CreateReviewUseCasePort, getUC usecases_port.GetReviewsUseCasePort) *ReviewsHandler {
	return &ReviewsHandler{createUC: createUC, getUC: getUC}
}

// GetReviews обрабатывает GET /api/v1/listings/{listingID}/reviews
func (h *ReviewsHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetReviews"})
	id, ok := idParam(r, "listingID")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID in URL")
		return
	}

	summary, err := h.getUC.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}

	response := ReviewsResponse{
		Data:          make([]ReviewResponse, len(summary.Reviews)),
		AverageRating: summary.AverageRating,
		Count:         summary.Count,
	}
	for i, rv := range summary.Reviews {
		response.Data[i] = toReviewResponse(rv)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// CreateReview обрабатывает POST /api/v1/listings/{listingID}/reviews
func (h *ReviewsHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateReview"})
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

	var req ReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.createUC.Execute(r.Context(), domain.Review{
		ListingID: id,
		UserID:    claims.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, toReviewResponse(*review))
}
