package rest

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

var boundsParams = []string{"ne_lat", "ne_lng", "sw_lat", "sw_lng"}

// ParseListingQuery разбирает page/perPage, категории через запятую и четыре границы карты.
// Границы задаются либо все, либо ни одной.
func ParseListingQuery(values url.Values) (port.ListingQuery, error) {
	page, err := positiveIntParam(values, "page", 1)
	if err != nil {
		return port.ListingQuery{}, err
	}
	perPage, err := positiveIntParam(values, "perPage", defaultPerPage)
	if err != nil {
		return port.ListingQuery{}, err
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	bounds, err := parseBounds(values)
	if err != nil {
		return port.ListingQuery{}, err
	}

	return port.ListingQuery{
		Filters: ParseFilterParams(values),
		Bounds:  bounds,
		Offset:  (page - 1) * perPage,
		Limit:   perPage,
	}, nil
}

// ParseFilterParams - одна строка через запятую на категорию
func ParseFilterParams(values url.Values) domain.FilterState {
	return domain.FilterStateFromParams(values.Get)
}

// EncodeListingQuery - обратное преобразование для клиентов API
func EncodeListingQuery(q port.ListingQuery) url.Values {
	values := url.Values{}
	EncodeFilterParams(values, q.Filters)
	if q.Bounds != nil {
		values.Set("ne_lat", formatFloat(q.Bounds.NorthEast.Lat))
		values.Set("ne_lng", formatFloat(q.Bounds.NorthEast.Lng))
		values.Set("sw_lat", formatFloat(q.Bounds.SouthWest.Lat))
		values.Set("sw_lng", formatFloat(q.Bounds.SouthWest.Lng))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPerPage
	}
	values.Set("perPage", strconv.Itoa(limit))
	values.Set("page", strconv.Itoa(q.Offset/limit+1))
	return values
}

// EncodeFilterParams пишет непустые категории в values
func EncodeFilterParams(values url.Values, filters domain.FilterState) {
	for name, raw := range filters.Params() {
		values.Set(name, raw)
	}
}

func parseBounds(values url.Values) (*domain.MapBounds, error) {
	present := 0
	for _, name := range boundsParams {
		if values.Get(name) != "" {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present != len(boundsParams) {
		return nil, fmt.Errorf("%w: bounds require ne_lat, ne_lng, sw_lat and sw_lng", domain.ErrInvalidInput)
	}

	parsed := make(map[string]float64, len(boundsParams))
	for _, name := range boundsParams {
		v, ok := domain.ParseCoordinate(values.Get(name))
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, name)
		}
		parsed[name] = v
	}
	return &domain.MapBounds{
		NorthEast: domain.LatLng{Lat: parsed["ne_lat"], Lng: parsed["ne_lng"]},
		SouthWest: domain.LatLng{Lat: parsed["sw_lat"], Lng: parsed["sw_lng"]},
	}, nil
}

func positiveIntParam(values url.Values, name string, def int) (int, error) {
	raw := values.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, name)
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
