package owned

// Finalizer is implemented by payloads that need teardown when their
// owning handle releases them. Finalize runs exactly once per payload,
// immediately before the payload's slot is released.
//
// A payload that transitively owns other handles should drop them inside
// Finalize in reverse construction order, so the most recently created
// value is torn down first and nothing is referenced after its teardown.
type Finalizer interface {
	Finalize()
}

// dropHook resolves the teardown hook for a payload: an explicit hook
// wins, otherwise a Finalizer implementation on T or *T is used, otherwise
// there is no hook.
func dropHook[T any](explicit func(*T)) func(*T) {
	if explicit != nil {
		return explicit
	}
	var zero T
	if _, ok := any(&zero).(Finalizer); ok {
		return func(p *T) { any(p).(Finalizer).Finalize() }
	}
	if _, ok := any(zero).(Finalizer); ok {
		return func(p *T) { any(*p).(Finalizer).Finalize() }
	}
	return nil
}
