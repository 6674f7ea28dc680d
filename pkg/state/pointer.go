package state

// Pointer is a reactive handle to a store entry of type T.
//
// Every Pointer returned by New, NewLazy, NewWithDestructor or Clone owns
// one reference and must be released exactly once with Release. Mutations
// are queued and become visible after the next flush.
type Pointer[T any] struct {
	key   Key
	queue *Queue
}

// New reserves a key and queues the insertion of v.
func New[T any](q *Queue, v T) Pointer[T] {
	p := Pointer[T]{key: NextKey(), queue: q}
	q.Push(insertEvent[T]{key: p.key, value: v})
	return p
}

// NewLazy reserves a key and queues an insertion whose value is produced
// by factory on the frame goroutine.
func NewLazy[T any](q *Queue, factory func() T) Pointer[T] {
	p := Pointer[T]{key: NextKey(), queue: q}
	q.Push(insertEvent[T]{key: p.key, factory: factory})
	return p
}

// NewWithDestructor is New with a custom destructor run when the last
// reference is released.
func NewWithDestructor[T any](q *Queue, v T, destroy func(*T)) Pointer[T] {
	p := Pointer[T]{key: NextKey(), queue: q}
	q.Push(insertEvent[T]{key: p.key, value: v, destroy: destroy})
	return p
}

func (p Pointer[T]) Key() Key {
	return p.key
}

// Clone queues a subscribe and returns a handle to the same entry.
func (p Pointer[T]) Clone() Pointer[T] {
	p.queue.Push(subscribeEvent{key: p.key})
	return p
}

// Release queues an unsubscribe for this handle's reference.
func (p Pointer[T]) Release() {
	p.queue.Push(unsubscribeEvent{key: p.key})
}

// Set queues replacing the value with v.
func (p Pointer[T]) Set(v T) {
	p.queue.Push(replaceEvent[T]{key: p.key, value: v})
}

// SetLazy queues replacing the value with the result of factory.
func (p Pointer[T]) SetLazy(factory func() T) {
	p.queue.Push(replaceEvent[T]{key: p.key, factory: factory})
}

// Update queues an in-place mutation of the value.
func (p Pointer[T]) Update(fn func(*T)) {
	p.queue.Push(mutateEvent[T]{key: p.key, fn: fn})
}

// Get returns the current value.
func (p Pointer[T]) Get(ctx *Context) T {
	return Get[T](ctx.controller, p.key)
}

// Ref returns the stored value in place. The pointer is valid until the
// next flush.
func (p Pointer[T]) Ref(ctx *Context) *T {
	return Ref[T](ctx.controller, p.key)
}

// Changed reports whether the value changed this frame.
func (p Pointer[T]) Changed(ctx *Context) bool {
	return ctx.Changed(p.key)
}

func (p Pointer[T]) RefCount(ctx *Context) int {
	return ctx.controller.RefCount(p.key)
}

// State wraps the handle as a State. The State shares this handle's
// reference.
func (p Pointer[T]) State() State[T] {
	return State[T]{ptr: p}
}
