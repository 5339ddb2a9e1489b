package observable

import "log/slog"

// Derived is an observable computed from a source observable through a
// reducer. It subscribes to the source, folds each source update into
// its own accumulator, and notifies its subscribers with the reduced
// value. The reducer must be pure apart from the accumulator it is
// handed.
type Derived[S, T any] struct {
	value  *Value[T]
	cancel func()
}

// Derive creates a derived observable seeded with seed. Each source
// notification produces reduce(accumulator, sourceValue) as the next
// value. Close detaches it from the source.
func Derive[S, T any](source ReadOnly[S], seed T, reduce func(acc T, next S) T, logger *slog.Logger) *Derived[S, T] {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Derived[S, T]{
		value: New(seed, logger),
	}
	d.cancel = source.Subscribe(func(s S) {
		d.value.Update(func(acc T) T {
			return reduce(acc, s)
		})
	})
	return d
}

// Get returns the current reduced value.
func (d *Derived[S, T]) Get() T {
	return d.value.Get()
}

// Subscribe registers a listener on the reduced value.
func (d *Derived[S, T]) Subscribe(listener func(T)) (unsubscribe func()) {
	return d.value.Subscribe(listener)
}

// Close unsubscribes from the source. The last reduced value remains
// readable.
func (d *Derived[S, T]) Close() {
	d.cancel()
}
