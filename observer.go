package shipyard

import (
	"fmt"
	"reflect"
)

// observer holds a registered observer and its event methods.
type observer struct {
	value  reflect.Value
	events map[reflect.Type]int
}

// Observe registers h to receive events. Observers listen for events by
// implementing methods with the signature:
//
//	func (o *MyObserver) HandleTurnStarted(e *shipyard.EventTurnStarted)
//
// The method name does not matter, only the signature (one argument).
func (m *Manager) Observe(h any) error {
	t := reflect.TypeOf(h)
	if t == nil {
		return fmt.Errorf("observe nil: %w", ErrInvalidObserver)
	}

	// Scan for event methods
	events := make(map[reflect.Type]int)
	for i := 0; i < t.NumMethod(); i++ {
		method := t.Method(i)
		// Check for 1 argument (plus receiver)
		if method.Type.NumIn() != 2 || method.Type.NumOut() != 0 {
			continue
		}
		events[method.Type.In(1)] = i
	}
	if len(events) == 0 {
		return fmt.Errorf("observe %s: %w", t, ErrInvalidObserver)
	}

	m.observersMu.Lock()
	m.observers = append(m.observers, &observer{
		value:  reflect.ValueOf(h),
		events: events,
	})
	m.observersMu.Unlock()
	return nil
}

// Dispatch delivers event to every observer that listens for its type.
// Observers run synchronously on the calling goroutine, in registration order.
func (m *Manager) Dispatch(event any) {
	eventType := reflect.TypeOf(event)

	m.observersMu.RLock()
	observers := m.observers
	m.observersMu.RUnlock()

	for _, o := range observers {
		// Check if this observer handles this event type
		methodIdx, ok := o.events[eventType]
		if !ok {
			continue
		}
		// We use the cached method index for performance
		o.value.Method(methodIdx).Call([]reflect.Value{reflect.ValueOf(event)})
	}
}
