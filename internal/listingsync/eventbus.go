package listingsync

import "sync"

type UIEventName string

const (
	EventOpenMobileFilters UIEventName = "open-mobile-filters"
	EventModalOpen         UIEventName = "modal-open"
	EventModalClose        UIEventName = "modal-close"
)

type UIEvent struct {
	Name UIEventName
	// Payload - например, имя модального окна
	Payload string
}

// EventBus - сигналы интерфейса между компонентами, не входящие в Store.
// Обработчики вызываются синхронно в горутине Publish, вне блокировки.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[UIEventName]map[uint64]func(UIEvent)
	nextID   uint64
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[UIEventName]map[uint64]func(UIEvent))}
}

// Subscribe возвращает функцию отписки
func (b *EventBus) Subscribe(name UIEventName, handler func(UIEvent)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	if b.handlers[name] == nil {
		b.handlers[name] = make(map[uint64]func(UIEvent))
	}
	b.handlers[name][id] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[name], id)
	}
}

func (b *EventBus) Publish(event UIEvent) {
	b.mu.RLock()
	handlers := make([]func(UIEvent), 0, len(b.handlers[event.Name]))
	for _, h := range b.handlers[event.Name] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// BindUIEvents переводит сигналы шины в действия хранилища
func BindUIEvents(bus *EventBus, store *Store) (unbind func()) {
	unsubs := []func(){
		bus.Subscribe(EventOpenMobileFilters, func(UIEvent) { store.SetFiltersOpen(true) }),
		bus.Subscribe(EventModalOpen, func(e UIEvent) { store.SetOpenModal(e.Payload) }),
		bus.Subscribe(EventModalClose, func(UIEvent) { store.SetOpenModal("") }),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
