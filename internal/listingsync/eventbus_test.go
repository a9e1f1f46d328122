package listingsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus()
	var got []UIEvent
	unsubscribe := bus.Subscribe(EventModalOpen, func(e UIEvent) { got = append(got, e) })

	bus.Publish(UIEvent{Name: EventModalOpen, Payload: "contact"})
	bus.Publish(UIEvent{Name: EventModalClose})
	assert.Equal(t, []UIEvent{{Name: EventModalOpen, Payload: "contact"}}, got)

	unsubscribe()
	bus.Publish(UIEvent{Name: EventModalOpen, Payload: "again"})
	assert.Len(t, got, 1)
}

func TestBindUIEvents(t *testing.T) {
	bus := NewEventBus()
	store := NewStore(nil, nil)
	unbind := BindUIEvents(bus, store)

	bus.Publish(UIEvent{Name: EventOpenMobileFilters})
	bus.Publish(UIEvent{Name: EventModalOpen, Payload: "review"})
	st := store.Snapshot()
	assert.True(t, st.UI.IsFiltersOpen)
	assert.Equal(t, "review", st.UI.OpenModal)

	bus.Publish(UIEvent{Name: EventModalClose})
	assert.Empty(t, store.Snapshot().UI.OpenModal)

	unbind()
	bus.Publish(UIEvent{Name: EventModalOpen, Payload: "ignored"})
	assert.Empty(t, store.Snapshot().UI.OpenModal)
}
