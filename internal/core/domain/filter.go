package domain

import (
	"sort"
	"strings"
)

// FilterCategory - одна грань атрибутов карточки, по которой пользователь фильтрует выдачу
type FilterCategory int

const (
	CategoryProductType FilterCategory = iota
	CategoryCertifications
	CategoryPurchaseMode
	CategoryProductionMethod
	CategoryAdditionalServices
	CategoryAvailability
)

// AllFilterCategories в порядке отображения
var AllFilterCategories = []FilterCategory{
	CategoryProductType,
	CategoryCertifications,
	CategoryPurchaseMode,
	CategoryProductionMethod,
	CategoryAdditionalServices,
	CategoryAvailability,
}

// String возвращает имя категории, оно же имя query-параметра и колонки
func (c FilterCategory) String() string {
	switch c {
	case CategoryProductType:
		return "product_type"
	case CategoryCertifications:
		return "certifications"
	case CategoryPurchaseMode:
		return "purchase_mode"
	case CategoryProductionMethod:
		return "production_method"
	case CategoryAdditionalServices:
		return "additional_services"
	case CategoryAvailability:
		return "availability"
	default:
		return "unknown"
	}
}

// ParseFilterCategory - обратное преобразование к String
func ParseFilterCategory(name string) (FilterCategory, bool) {
	for _, c := range AllFilterCategories {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// FilterState - выбранные значения по категориям. Пустой набор означает "без ограничения".
// Значение неизменяемое: методы возвращают копию.
type FilterState struct {
	selected map[FilterCategory][]string
}

// NewFilterState создает пустое состояние
func NewFilterState() FilterState {
	return FilterState{}
}

// Selected возвращает копию выбранных значений категории в порядке добавления
func (f FilterState) Selected(c FilterCategory) []string {
	values := f.selected[c]
	if len(values) == 0 {
		return nil
	}
	return append([]string(nil), values...)
}

// IsEmpty - ни в одной категории ничего не выбрано
func (f FilterState) IsEmpty() bool {
	for _, values := range f.selected {
		if len(values) > 0 {
			return false
		}
	}
	return true
}

// With заменяет выбор категории. Дубликаты и пустые строки отбрасываются.
func (f FilterState) With(c FilterCategory, values ...string) FilterState {
	next := f.clone()
	set := dedupe(values)
	if len(set) == 0 {
		delete(next.selected, c)
	} else {
		next.selected[c] = set
	}
	return next
}

// Toggle добавляет значение в категорию или убирает его, если оно уже выбрано
func (f FilterState) Toggle(c FilterCategory, value string) FilterState {
	current := f.selected[c]
	out := make([]string, 0, len(current)+1)
	found := false
	for _, v := range current {
		if v == value {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, value)
	}
	return f.With(c, out...)
}

// Equal сравнивает состояния как множества, порядок не важен
func (f FilterState) Equal(other FilterState) bool {
	for _, c := range AllFilterCategories {
		a, b := sortedCopy(f.selected[c]), sortedCopy(other.selected[c])
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

func (f FilterState) clone() FilterState {
	next := FilterState{selected: make(map[FilterCategory][]string, len(f.selected))}
	for c, values := range f.selected {
		next.selected[c] = append([]string(nil), values...)
	}
	return next
}

// Запятая внутри значения и сам символ % экранируются, чтобы значение пережило
// склейку через запятую.
var (
	paramValueEscaper   = strings.NewReplacer("%", "%25", ",", "%2C")
	paramValueUnescaper = strings.NewReplacer("%2C", ",", "%2c", ",", "%25", "%")
)

// FilterStateFromParams читает по одному параметру на категорию, значения через запятую
func FilterStateFromParams(get func(name string) string) FilterState {
	filters := NewFilterState()
	for _, c := range AllFilterCategories {
		raw := get(c.String())
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = paramValueUnescaper.Replace(strings.TrimSpace(parts[i]))
		}
		filters = filters.With(c, parts...)
	}
	return filters
}

// Params - обратное преобразование: имя категории -> значения через запятую
func (f FilterState) Params() map[string]string {
	params := make(map[string]string)
	for _, c := range AllFilterCategories {
		selected := f.selected[c]
		if len(selected) == 0 {
			continue
		}
		escaped := make([]string, len(selected))
		for i, v := range selected {
			escaped[i] = paramValueEscaper.Replace(v)
		}
		params[c.String()] = strings.Join(escaped, ",")
	}
	return params
}

// Matches: внутри категории - ИЛИ, между категориями - И. Сравнение строк точное.
func Matches(l Listing, filters FilterState) bool {
	for _, c := range AllFilterCategories {
		selected := filters.selected[c]
		if len(selected) == 0 {
			continue
		}
		if !intersects(l.Attribute(c), selected) {
			return false
		}
	}
	return true
}

// FilterListings оставляет карточки, прошедшие фильтры. При пустом состоянии возвращает вход как есть.
func FilterListings(listings []Listing, filters FilterState) []Listing {
	if filters.IsEmpty() {
		return listings
	}
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if Matches(l, filters) {
			out = append(out, l)
		}
	}
	return out
}

func intersects(attr, selected []string) bool {
	for _, a := range attr {
		for _, s := range selected {
			if a == s {
				return true
			}
		}
	}
	return false
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
