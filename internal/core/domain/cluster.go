package domain

import (
	"sort"

	"github.com/mmcloughlin/geohash"
)

const (
	// ListingGeohashPrecision сохраняется в карточке, ~150x150 м
	ListingGeohashPrecision uint = 7
	MaxClusterPrecision     uint = 12
)

// Cluster - группа карточек в одной ячейке geohash
type Cluster struct {
	Geohash    string
	Center     LatLng
	Count      int
	ListingIDs []int64
}

// ListingGeohash кодирует координаты карточки. Пустая строка, если координаты некорректны.
func ListingGeohash(l Listing, precision uint) string {
	pos, ok := l.Position()
	if !ok {
		return ""
	}
	return geohash.EncodeWithPrecision(pos.Lat, pos.Lng, precision)
}

// ClusterListings группирует карточки по префиксу geohash заданной точности.
// Карточки без валидных координат пропускаются. Результат отсортирован по geohash.
func ClusterListings(listings []Listing, precision uint) []Cluster {
	if precision == 0 {
		precision = 1
	}
	if precision > MaxClusterPrecision {
		precision = MaxClusterPrecision
	}

	byHash := make(map[string]*Cluster)
	for _, l := range listings {
		hash := ListingGeohash(l, precision)
		if hash == "" {
			continue
		}
		c, ok := byHash[hash]
		if !ok {
			lat, lng := geohash.DecodeCenter(hash)
			c = &Cluster{Geohash: hash, Center: LatLng{Lat: lat, Lng: lng}}
			byHash[hash] = c
		}
		c.Count++
		c.ListingIDs = append(c.ListingIDs, l.ID)
	}

	out := make([]Cluster, 0, len(byHash))
	for _, c := range byHash {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Geohash < out[j].Geohash })
	return out
}
