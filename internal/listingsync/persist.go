package listingsync

import (
	"encoding/json"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/contracts"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
)

// PersistVersion - текущая версия сохраненного блоба
const PersistVersion = 1

// StatePersister хранит один JSON-блоб на хранилище.
// Load возвращает nil без ошибки, если сохранения еще не было.
type StatePersister interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// PersistedState - сохраняемая часть состояния:
// map.coordinates, map.zoom, filters и ui.isMapExpanded
type PersistedState struct {
	Center        domain.LatLng
	Zoom          float64
	Filters       domain.FilterState
	IsMapExpanded bool
}

func (p PersistedState) equal(other PersistedState) bool {
	return p.Center == other.Center &&
		p.Zoom == other.Zoom &&
		p.IsMapExpanded == other.IsMapExpanded &&
		p.Filters.Equal(other.Filters)
}

func defaultPersistedState() PersistedState {
	view := DefaultViewState()
	return PersistedState{Center: view.Center, Zoom: view.Zoom, Filters: view.Filters}
}

type persistedBlob struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

type persistedCoordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type persistedMap struct {
	Coordinates *persistedCoordinates `json:"coordinates,omitempty"`
	Zoom        *float64              `json:"zoom,omitempty"`
}

type persistedUI struct {
	IsMapExpanded bool `json:"isMapExpanded"`
}

type persistedStateV1 struct {
	Map     *persistedMap       `json:"map,omitempty"`
	Filters map[string][]string `json:"filters,omitempty"`
	UI      *persistedUI        `json:"ui,omitempty"`
}

// EncodePersisted сериализует состояние в блоб текущей версии
func EncodePersisted(s PersistedState) ([]byte, error) {
	zoom := s.Zoom
	state := persistedStateV1{
		Map: &persistedMap{
			Coordinates: &persistedCoordinates{Lat: s.Center.Lat, Lng: s.Center.Lng},
			Zoom:        &zoom,
		},
		Filters: make(map[string][]string),
		UI:      &persistedUI{IsMapExpanded: s.IsMapExpanded},
	}
	for _, c := range domain.AllFilterCategories {
		if selected := s.Filters.Selected(c); len(selected) > 0 {
			state.Filters[c.String()] = selected
		}
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal persisted state: %w", err)
	}
	return json.Marshal(persistedBlob{Version: PersistVersion, State: raw})
}

// DecodePersisted читает блоб любой известной версии, мигрирует его и проверяет по схеме.
// Отсутствующие части заменяются значениями по умолчанию.
func DecodePersisted(data []byte) (PersistedState, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return PersistedState{}, fmt.Errorf("persisted state is not a JSON object: %w", err)
	}

	version := 0
	if rawVersion, ok := top["version"]; ok {
		if err := json.Unmarshal(rawVersion, &version); err != nil {
			return PersistedState{}, fmt.Errorf("persisted state version is not an integer: %w", err)
		}
	}
	rawState, ok := top["state"]
	if !ok {
		rawState = json.RawMessage(`{}`)
	}

	rawState, err := migrate(version, rawState)
	if err != nil {
		return PersistedState{}, err
	}

	blob, err := json.Marshal(persistedBlob{Version: PersistVersion, State: rawState})
	if err != nil {
		return PersistedState{}, fmt.Errorf("failed to re-encode migrated state: %w", err)
	}
	if err := contracts.Validate(contracts.SyncStateKey, blob); err != nil {
		return PersistedState{}, err
	}

	var state persistedStateV1
	if err := json.Unmarshal(rawState, &state); err != nil {
		return PersistedState{}, fmt.Errorf("failed to decode persisted state: %w", err)
	}
	return state.toPersistedState(), nil
}

// migrate приводит состояние версии version к текущей
func migrate(version int, rawState json.RawMessage) (json.RawMessage, error) {
	switch {
	case version == PersistVersion:
		return rawState, nil
	case version == 0:
		return migrateV0(rawState)
	default:
		return nil, fmt.Errorf("unsupported persisted state version %d", version)
	}
}

// migrateV0: в версии 0 фильтры хранились под ключом activeFilters
func migrateV0(rawState json.RawMessage) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rawState, &fields); err != nil {
		return nil, fmt.Errorf("legacy state is not a JSON object: %w", err)
	}
	if legacy, ok := fields["activeFilters"]; ok {
		if _, exists := fields["filters"]; !exists {
			fields["filters"] = legacy
		}
		delete(fields, "activeFilters")
	}
	return json.Marshal(fields)
}

func (s persistedStateV1) toPersistedState() PersistedState {
	out := defaultPersistedState()
	if s.Map != nil {
		if s.Map.Coordinates != nil {
			out.Center = domain.LatLng{Lat: s.Map.Coordinates.Lat, Lng: s.Map.Coordinates.Lng}
		}
		if s.Map.Zoom != nil {
			out.Zoom = *s.Map.Zoom
		}
	}
	for name, values := range s.Filters {
		if c, ok := domain.ParseFilterCategory(name); ok {
			out.Filters = out.Filters.With(c, values...)
		}
	}
	if s.UI != nil {
		out.IsMapExpanded = s.UI.IsMapExpanded
	}
	return out
}
