package domain

import (
	"math"
	"strconv"
	"strings"
)

// LatLng - точка WGS 84
type LatLng struct {
	Lat float64
	Lng float64
}

// MapBounds - прямоугольник видимой области карты.
// Порядок углов (ne >= sw) не проверяется, антимеридиан не поддерживается.
type MapBounds struct {
	NorthEast LatLng
	SouthWest LatLng
}

// Contains проверяет попадание точки в прямоугольник, границы включительно
func (b MapBounds) Contains(p LatLng) bool {
	return p.Lat >= b.SouthWest.Lat && p.Lat <= b.NorthEast.Lat &&
		p.Lng >= b.SouthWest.Lng && p.Lng <= b.NorthEast.Lng
}

// ParseCoordinate разбирает координату из строки. NaN и бесконечности считаются ошибкой.
func ParseCoordinate(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Position возвращает координаты карточки, если обе строки разбираются
func (l Listing) Position() (LatLng, bool) {
	lat, ok := ParseCoordinate(l.Lat)
	if !ok {
		return LatLng{}, false
	}
	lng, ok := ParseCoordinate(l.Lng)
	if !ok {
		return LatLng{}, false
	}
	return LatLng{Lat: lat, Lng: lng}, true
}

// InBounds: без границ проходят все карточки, с некорректными координатами - ни одна.
func InBounds(l Listing, bounds *MapBounds) bool {
	if bounds == nil {
		return true
	}
	pos, ok := l.Position()
	if !ok {
		return false
	}
	return bounds.Contains(pos)
}

// VisibleListings оставляет карточки внутри границ
func VisibleListings(listings []Listing, bounds *MapBounds) []Listing {
	if bounds == nil {
		return listings
	}
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if InBounds(l, bounds) {
			out = append(out, l)
		}
	}
	return out
}
