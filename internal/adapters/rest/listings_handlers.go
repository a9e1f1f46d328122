package rest

import (
	"net/http"
	"strconv"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port/usecases_port"
)

// ListingsHandler - публичная выдача карточек
type ListingsHandler struct {
	findUC     usecases_port.FindListingsUseCasePort
	getUC      usecases_port.GetListingUseCasePort
	clustersUC usecases_port.GetListingClustersUseCasePort
	optionsUC  usecases_port.GetFilterOptionsUseCasePort
	productsUC usecases_port.GetProductsUseCasePort
}

func NewListingsHandler(
	findUC usecases_port.FindListingsUseCasePort,
	getUC usecases_port.GetListingUseCasePort,
	clustersUC usecases_port.GetListingClustersUseCasePort,
	optionsUC usecases_port.GetFilterOptionsUseCasePort,
	productsUC usecases_port.GetProductsUseCasePort,
) *ListingsHandler {
	return &ListingsHandler{
		findUC:     findUC,
		getUC:      getUC,
		clustersUC: clustersUC,
		optionsUC:  optionsUC,
		productsUC: productsUC,
	}
}

// FindListings обрабатывает GET /api/v1/listings
func (h *ListingsHandler) FindListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "FindListings"})

	query, err := ParseListingQuery(r.URL.Query())
	if err != nil {
		logger.Warn("Invalid listing query", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.findUC.Execute(r.Context(), query)
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

// GetListing обрабатывает GET /api/v1/listings/{listingID}
func (h *ListingsHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetListing"})

	id, ok := idParam(r, "listingID")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID in URL")
		return
	}

	listing, err := h.getUC.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingResponse(*listing))
}

// GetClusters обрабатывает GET /api/v1/listings/clusters?precision=N
func (h *ListingsHandler) GetClusters(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetClusters"})

	precision := uint(5)
	if raw := r.URL.Query().Get("precision"); raw != "" {
		p, err := strconv.ParseUint(raw, 10, 8)
		if err != nil || p < 1 || p > uint64(domain.MaxClusterPrecision) {
			WriteJSONError(w, http.StatusBadRequest, "precision must be between 1 and 12")
			return
		}
		precision = uint(p)
	}

	query, err := ParseListingQuery(r.URL.Query())
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	clusters, err := h.clustersUC.Execute(r.Context(), query.Filters, query.Bounds, precision)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}

	response := make([]ClusterResponse, len(clusters))
	for i, c := range clusters {
		response[i] = ClusterResponse{
			Geohash:    c.Geohash,
			Lat:        c.Center.Lat,
			Lng:        c.Center.Lng,
			Count:      c.Count,
			ListingIDs: c.ListingIDs,
		}
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// GetFilterOptions обрабатывает GET /api/v1/filters/options
func (h *ListingsHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetFilterOptions"})

	options, err := h.optionsUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}

	response := make(map[string][]string, len(options))
	for c, values := range options {
		response[c.String()] = emptyIfNil(values)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// GetProducts обрабатывает GET /api/v1/listings/{listingID}/products
func (h *ListingsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetProducts"})

	id, ok := idParam(r, "listingID")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID in URL")
		return
	}

	products, err := h.productsUC.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}

	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = toProductResponse(p)
	}
	RespondWithJSON(w, http.StatusOK, response)
}
