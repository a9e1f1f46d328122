package listingsync

import (
	"sync"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type MapState struct {
	Center domain.LatLng
	Zoom   float64
	// nil - границы карты еще неизвестны, фильтр по ним не применяется
	Bounds *domain.MapBounds
}

// ListingsState - загруженные карточки и производные списки.
// Filtered = All после фильтров, Visible = Filtered внутри границ карты.
type ListingsState struct {
	All        []domain.Listing
	Filtered   []domain.Listing
	Visible    []domain.Listing
	Page       int
	TotalCount int
	// TotalKnown - TotalCount получен хотя бы одним успешным запросом
	TotalKnown bool
	HasMore    bool
	Loading    bool
}

type InteractionsState struct {
	HoveredID  int64
	SelectedID int64
}

type UIState struct {
	IsMapExpanded bool
	IsFiltersOpen bool
	OpenModal     string
}

// State - снимок всего хранилища. Срезы в снимке не изменяются, их можно читать без блокировок.
type State struct {
	Map          MapState
	Listings     ListingsState
	Filters      domain.FilterState
	Interactions InteractionsState
	UI           UIState
}

// View - часть состояния, которая попадает в адресную строку
func (s State) View() ViewState {
	return ViewState{Center: s.Map.Center, Zoom: s.Map.Zoom, Filters: s.Filters}
}

func (s State) persisted() PersistedState {
	return PersistedState{
		Center:        s.Map.Center,
		Zoom:          s.Map.Zoom,
		Filters:       s.Filters,
		IsMapExpanded: s.UI.IsMapExpanded,
	}
}

// Listener получает снимок после каждого изменения
type Listener func(State)

// Store - явный объект состояния синхронизации карточек.
// Изменения сериализуются мьютексом, подписчики вызываются вне блокировки.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[uint64]Listener
	nextID    uint64

	persister StatePersister
	logger    port.LoggerPort
}

// NewStore создает хранилище и, если задан persister, восстанавливает сохраненную часть.
// Поврежденное сохранение логируется, хранилище стартует со значениями по умолчанию.
func NewStore(persister StatePersister, logger port.LoggerPort) *Store {
	if logger == nil {
		logger = contextkeys.NoopLogger()
	}
	s := &Store{
		listeners: make(map[uint64]Listener),
		persister: persister,
		logger:    logger.WithFields(port.Fields{"component": "ListingStore"}),
	}

	restored := s.restore()
	s.state = State{
		Map:     MapState{Center: restored.Center, Zoom: restored.Zoom},
		Filters: restored.Filters,
		UI:      UIState{IsMapExpanded: restored.IsMapExpanded},
	}
	recompute(&s.state)
	return s
}

func (s *Store) restore() PersistedState {
	if s.persister == nil {
		return defaultPersistedState()
	}
	data, err := s.persister.Load()
	if err != nil {
		s.logger.Error("Failed to load persisted state, using defaults", err, nil)
		return defaultPersistedState()
	}
	if data == nil {
		return defaultPersistedState()
	}
	restored, err := DecodePersisted(data)
	if err != nil {
		s.logger.Warn("Malformed persisted state, using defaults", port.Fields{"error": err.Error()})
		return defaultPersistedState()
	}
	s.logger.Debug("Persisted state restored", nil)
	return restored
}

// Snapshot возвращает текущее состояние
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe регистрирует подписчика; возвращаемая функция отменяет подписку
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// update применяет fn к копии состояния. fn возвращает false, если ничего не изменилось.
func (s *Store) update(fn func(next *State) bool) {
	s.mu.Lock()
	next := s.state
	if !fn(&next) {
		s.mu.Unlock()
		return
	}
	recompute(&next)

	persistChanged := !next.persisted().equal(s.state.persisted())
	s.state = next
	if persistChanged {
		s.persist(next.persisted())
	}

	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
}

// persist вызывается под s.mu, чтобы сохранения шли в порядке изменений
func (s *Store) persist(p PersistedState) {
	if s.persister == nil {
		return
	}
	data, err := EncodePersisted(p)
	if err != nil {
		s.logger.Error("Failed to encode state for persistence", err, nil)
		return
	}
	if err := s.persister.Save(data); err != nil {
		s.logger.Error("Failed to persist state", err, nil)
	}
}

func recompute(st *State) {
	st.Listings.Filtered = domain.FilterListings(st.Listings.All, st.Filters)
	st.Listings.Visible = domain.VisibleListings(st.Listings.Filtered, st.Map.Bounds)
}

// SetView меняет центр и масштаб; изменения в пределах допусков игнорируются
func (s *Store) SetView(center domain.LatLng, zoom float64) {
	s.update(func(next *State) bool {
		current := ViewState{Center: next.Map.Center, Zoom: next.Map.Zoom, Filters: next.Filters}
		if current.Equal(ViewState{Center: center, Zoom: zoom, Filters: next.Filters}) {
			return false
		}
		next.Map.Center = center
		next.Map.Zoom = zoom
		return true
	})
}

// SetBounds задает видимую область карты; nil снимает ограничение
func (s *Store) SetBounds(bounds *domain.MapBounds) {
	s.update(func(next *State) bool {
		if sameBounds(next.Map.Bounds, bounds) {
			return false
		}
		if bounds != nil {
			b := *bounds
			bounds = &b
		}
		next.Map.Bounds = bounds
		return true
	})
}

func (s *Store) SetFilters(filters domain.FilterState) {
	s.update(func(next *State) bool {
		if next.Filters.Equal(filters) {
			return false
		}
		next.Filters = filters
		return true
	})
}

func (s *Store) ToggleFilter(c domain.FilterCategory, value string) {
	s.update(func(next *State) bool {
		next.Filters = next.Filters.Toggle(c, value)
		return true
	})
}

func (s *Store) ClearFilters() {
	s.SetFilters(domain.NewFilterState())
}

// HydrateView применяет вид из адресной строки
func (s *Store) HydrateView(view ViewState) {
	s.update(func(next *State) bool {
		if next.View().Equal(view) {
			return false
		}
		next.Map.Center = view.Center
		next.Map.Zoom = view.Zoom
		next.Filters = view.Filters
		return true
	})
}

func (s *Store) SetHovered(id int64) {
	s.update(func(next *State) bool {
		if next.Interactions.HoveredID == id {
			return false
		}
		next.Interactions.HoveredID = id
		return true
	})
}

func (s *Store) SetSelected(id int64) {
	s.update(func(next *State) bool {
		if next.Interactions.SelectedID == id {
			return false
		}
		next.Interactions.SelectedID = id
		return true
	})
}

func (s *Store) SetMapExpanded(expanded bool) {
	s.update(func(next *State) bool {
		if next.UI.IsMapExpanded == expanded {
			return false
		}
		next.UI.IsMapExpanded = expanded
		return true
	})
}

func (s *Store) SetFiltersOpen(open bool) {
	s.update(func(next *State) bool {
		if next.UI.IsFiltersOpen == open {
			return false
		}
		next.UI.IsFiltersOpen = open
		return true
	})
}

// SetOpenModal - пустая строка закрывает модальное окно
func (s *Store) SetOpenModal(name string) {
	s.update(func(next *State) bool {
		if next.UI.OpenModal == name {
			return false
		}
		next.UI.OpenModal = name
		return true
	})
}

func (s *Store) setLoading(loading bool) {
	s.update(func(next *State) bool {
		if next.Listings.Loading == loading {
			return false
		}
		next.Listings.Loading = loading
		return true
	})
}

// applyPage заменяет или дополняет загруженные карточки; срез All всегда новый
func (s *Store) applyPage(page int, returned []domain.Listing, appendPage bool, total int, hasMore bool) {
	s.update(func(next *State) bool {
		var all []domain.Listing
		if appendPage {
			all = make([]domain.Listing, 0, len(next.Listings.All)+len(returned))
			all = append(all, next.Listings.All...)
		} else {
			all = make([]domain.Listing, 0, len(returned))
		}
		all = append(all, returned...)

		next.Listings.All = all
		next.Listings.Page = page
		next.Listings.TotalCount = total
		next.Listings.TotalKnown = true
		next.Listings.HasMore = hasMore
		next.Listings.Loading = false
		return true
	})
}

// stopPaging - ошибка запроса или выход за известный total
func (s *Store) stopPaging() {
	s.update(func(next *State) bool {
		next.Listings.HasMore = false
		next.Listings.Loading = false
		return true
	})
}

func sameBounds(a, b *domain.MapBounds) bool {
	if a == nil || b == nil {
		return a == b
	}
	return sameCenter(a.NorthEast, b.NorthEast) && sameCenter(a.SouthWest, b.SouthWest)
}
