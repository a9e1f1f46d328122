package listingsync

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

const (
	DefaultLat  = 46.603354
	DefaultLng  = 1.888334
	DefaultZoom = 5.0

	CoordinateEpsilon = 1e-6
	ZoomEpsilon       = 1e-3

	URLDebounceDelay = 300 * time.Millisecond

	maxZoom = 22.0
)

// ViewState - то, что хранится в адресной строке: центр карты, масштаб и фильтры
type ViewState struct {
	Center  domain.LatLng
	Zoom    float64
	Filters domain.FilterState
}

func DefaultViewState() ViewState {
	return ViewState{
		Center:  domain.LatLng{Lat: DefaultLat, Lng: DefaultLng},
		Zoom:    DefaultZoom,
		Filters: domain.NewFilterState(),
	}
}

// Equal сравнивает с допуском: 1e-6 для координат, 1e-3 для масштаба, фильтры как множества
func (v ViewState) Equal(other ViewState) bool {
	return sameCenter(v.Center, other.Center) &&
		math.Abs(v.Zoom-other.Zoom) <= ZoomEpsilon &&
		v.Filters.Equal(other.Filters)
}

func sameCenter(a, b domain.LatLng) bool {
	return math.Abs(a.Lat-b.Lat) <= CoordinateEpsilon && math.Abs(a.Lng-b.Lng) <= CoordinateEpsilon
}

// ParseViewState - разовая гидратация из query-параметров.
// Центр берется, только если lat и lng оба корректны; иначе используется центр Франции.
func ParseViewState(values url.Values) ViewState {
	view := DefaultViewState()

	lat, latOK := domain.ParseCoordinate(values.Get("lat"))
	lng, lngOK := domain.ParseCoordinate(values.Get("lng"))
	if latOK && lngOK && math.Abs(lat) <= 90 && math.Abs(lng) <= 180 {
		view.Center = domain.LatLng{Lat: lat, Lng: lng}
	}

	if zoom, ok := domain.ParseCoordinate(values.Get("zoom")); ok && zoom >= 0 && zoom <= maxZoom {
		view.Zoom = zoom
	}

	view.Filters = domain.FilterStateFromParams(values.Get)
	return view
}

// Encode - обратное преобразование для ParseViewState
func (v ViewState) Encode() url.Values {
	values := url.Values{}
	values.Set("lat", formatRounded(v.Center.Lat, 6))
	values.Set("lng", formatRounded(v.Center.Lng, 6))
	values.Set("zoom", formatRounded(v.Zoom, 3))
	for name, raw := range v.Filters.Params() {
		values.Set(name, raw)
	}
	return values
}

// QueryString кодирует параметры для адресной строки. Запятая-разделитель
// значений категории остается читаемой: certifications=Label+AB,AOC.
func QueryString(values url.Values) string {
	return strings.ReplaceAll(values.Encode(), "%2C", ",")
}

func formatRounded(v float64, digits int) string {
	scale := math.Pow(10, float64(digits))
	return strconv.FormatFloat(math.Round(v*scale)/scale, 'f', -1, 64)
}

// URLWriter заменяет query-строку текущего адреса
type URLWriter interface {
	WriteURL(values url.Values) error
}

// URLWriterFunc позволяет использовать функцию как URLWriter
type URLWriterFunc func(values url.Values) error

func (f URLWriterFunc) WriteURL(values url.Values) error { return f(values) }

// URLState синхронизирует вид с адресом: разовая гидратация и отложенная запись.
// Запись, не меняющая вид с учетом допусков, не выполняется.
type URLState struct {
	writer    URLWriter
	debouncer *Debouncer
	logger    port.LoggerPort

	mu      sync.Mutex
	written ViewState
	hasLast bool
}

func NewURLState(writer URLWriter, sched Scheduler, logger port.LoggerPort) *URLState {
	if logger == nil {
		logger = contextkeys.NoopLogger()
	}
	return &URLState{
		writer:    writer,
		debouncer: NewDebouncer(sched, URLDebounceDelay),
		logger:    logger.WithFields(port.Fields{"component": "URLState"}),
	}
}

// Hydrate разбирает адрес и запоминает его как уже записанный
func (s *URLState) Hydrate(values url.Values) ViewState {
	view := ParseViewState(values)
	s.mu.Lock()
	s.written = view
	s.hasLast = true
	s.mu.Unlock()
	return view
}

// Push планирует запись вида через 300 мс, отменяя ранее запланированную
func (s *URLState) Push(view ViewState) {
	s.debouncer.Trigger(func() { s.write(view) })
}

// Flush выполняет запланированную запись сразу
func (s *URLState) Flush() {
	s.debouncer.Flush()
}

// Close отменяет запланированную запись
func (s *URLState) Close() {
	s.debouncer.Stop()
}

func (s *URLState) write(view ViewState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasLast && s.written.Equal(view) {
		s.logger.Debug("View unchanged, skipping URL write", nil)
		return
	}
	if err := s.writer.WriteURL(view.Encode()); err != nil {
		s.logger.Error("Failed to write view to URL", err, nil)
		return
	}
	s.written = view
	s.hasLast = true
}
