package state

// EventKind classifies store events.
type EventKind int

const (
	EventInsert EventKind = iota
	EventReplace
	EventReplaceLazy
	EventMutate
	EventSubscribe
	EventUnsubscribe
)

var eventKindNames = [...]string{
	EventInsert:      "insert",
	EventReplace:     "replace",
	EventReplaceLazy: "replace_lazy",
	EventMutate:      "mutate",
	EventSubscribe:   "subscribe",
	EventUnsubscribe: "unsubscribe",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// Event is a pending change to the store. Events are built by handles and
// applied by Queue.Flush on the frame goroutine.
type Event interface {
	Key() Key
	Kind() EventKind
	apply(c *Controller, w *Watcher)
}

type insertEvent[T any] struct {
	key     Key
	value   T
	factory func() T
	destroy func(*T)
}

func (e insertEvent[T]) Key() Key        { return e.key }
func (e insertEvent[T]) Kind() EventKind { return EventInsert }

func (e insertEvent[T]) apply(c *Controller, w *Watcher) {
	v := e.value
	if e.factory != nil {
		v = e.factory()
	}
	InsertValue(c, e.key, v, e.destroy)
	w.Add(e.key)
}

type replaceEvent[T any] struct {
	key     Key
	value   T
	factory func() T
}

func (e replaceEvent[T]) Key() Key { return e.key }

func (e replaceEvent[T]) Kind() EventKind {
	if e.factory != nil {
		return EventReplaceLazy
	}
	return EventReplace
}

func (e replaceEvent[T]) apply(c *Controller, w *Watcher) {
	v := e.value
	if e.factory != nil {
		v = e.factory()
	}
	p := new(T)
	*p = v
	c.Replace(e.key, p)
	w.Add(e.key)
}

type mutateEvent[T any] struct {
	key Key
	fn  func(*T)
}

func (e mutateEvent[T]) Key() Key        { return e.key }
func (e mutateEvent[T]) Kind() EventKind { return EventMutate }

func (e mutateEvent[T]) apply(c *Controller, w *Watcher) {
	e.fn(Ref[T](c, e.key))
	w.Add(e.key)
}

type subscribeEvent struct {
	key Key
}

func (e subscribeEvent) Key() Key                      { return e.key }
func (e subscribeEvent) Kind() EventKind               { return EventSubscribe }
func (e subscribeEvent) apply(c *Controller, _ *Watcher) { c.Subscribe(e.key) }

type unsubscribeEvent struct {
	key Key
}

func (e unsubscribeEvent) Key() Key                      { return e.key }
func (e unsubscribeEvent) Kind() EventKind               { return EventUnsubscribe }
func (e unsubscribeEvent) apply(c *Controller, _ *Watcher) { c.Unsubscribe(e.key) }
