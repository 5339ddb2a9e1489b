package observable

import (
	"log/slog"
	"sync"
)

// ReadOnly is the consumer-facing view of an observable value.
// Reconcilers hold the concrete *Value and are the only writers.
type ReadOnly[T any] interface {
	// Get returns the current value.
	Get() T

	// Subscribe registers a listener invoked synchronously on every
	// change. The returned function unsubscribes; calling it is safe
	// at any time, including from within the listener itself.
	Subscribe(listener func(T)) (unsubscribe func())
}

// Value holds a current value and notifies subscribers on change.
type Value[T any] struct {
	mu        sync.Mutex
	current   T
	listeners map[int64]func(T)
	order     []int64 // registration order for deterministic delivery
	nextID    int64
	logger    *slog.Logger
}

// New creates a Value holding initial.
func New[T any](initial T, logger *slog.Logger) *Value[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Value[T]{
		current:   initial,
		listeners: make(map[int64]func(T)),
		logger:    logger,
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the current value and notifies all subscribers.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	v.current = next
	ids := make([]int64, len(v.order))
	copy(ids, v.order)
	v.mu.Unlock()

	v.notify(ids, next)
}

// Update applies fn to the current value, stores the result, and
// notifies all subscribers.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	v.current = fn(v.current)
	next := v.current
	ids := make([]int64, len(v.order))
	copy(ids, v.order)
	v.mu.Unlock()

	v.notify(ids, next)
}

// Subscribe registers a listener. See ReadOnly.Subscribe.
func (v *Value[T]) Subscribe(listener func(T)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = listener
	v.order = append(v.order, id)
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if _, ok := v.listeners[id]; !ok {
			return
		}
		delete(v.listeners, id)
		for i, oid := range v.order {
			if oid == id {
				v.order = append(v.order[:i], v.order[i+1:]...)
				break
			}
		}
	}
}

// notify delivers value to the listeners captured at the start of the
// pass. Liveness is re-checked per listener so a listener unsubscribed
// mid-pass (by itself or by an earlier listener) is not invoked.
func (v *Value[T]) notify(ids []int64, value T) {
	for _, id := range ids {
		v.mu.Lock()
		listener, ok := v.listeners[id]
		v.mu.Unlock()
		if !ok {
			continue
		}
		v.invoke(listener, value)
	}
}

// invoke calls a single listener, recovering panics so one bad
// subscriber cannot break delivery to the rest.
func (v *Value[T]) invoke(listener func(T), value T) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("observable listener panic", "panic", r)
		}
	}()
	listener(value)
}
