package state

// State is either an inline immutable value or a Pointer into the store.
// Inline values never touch the store and never report a change.
type State[T any] struct {
	value *T
	ptr   Pointer[T]
}

// Value wraps v as an inline State.
func Value[T any](v T) State[T] {
	return State[T]{value: &v}
}

// IsValue reports whether s is inline.
func (s State[T]) IsValue() bool {
	return s.value != nil
}

// Pointer returns the underlying handle and whether s holds one.
func (s State[T]) Pointer() (Pointer[T], bool) {
	return s.ptr, s.value == nil
}

func (s State[T]) Get(ctx *Context) T {
	if s.value != nil {
		return *s.value
	}
	return s.ptr.Get(ctx)
}

func (s State[T]) Changed(ctx *Context) bool {
	if s.value != nil {
		return false
	}
	return s.ptr.Changed(ctx)
}

// RefCount returns the live reference count; inline values report 0.
func (s State[T]) RefCount(ctx *Context) int {
	if s.value != nil {
		return 0
	}
	return s.ptr.RefCount(ctx)
}

func (s State[T]) Clone() State[T] {
	if s.value != nil {
		return s
	}
	return State[T]{ptr: s.ptr.Clone()}
}

func (s State[T]) Release() {
	if s.value == nil {
		s.ptr.Release()
	}
}
