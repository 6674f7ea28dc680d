package state

import "sort"

// Watcher is the set of keys changed since the last RemoveAll.
type Watcher struct {
	keys map[Key]struct{}
}

func NewWatcher() *Watcher {
	return &Watcher{keys: make(map[Key]struct{})}
}

// Add marks key as changed.
func (w *Watcher) Add(key Key) {
	w.keys[key] = struct{}{}
}

// Contains reports whether key changed this frame.
func (w *Watcher) Contains(key Key) bool {
	_, ok := w.keys[key]
	return ok
}

// RemoveAll clears the set. The driver calls it once per frame after draw.
func (w *Watcher) RemoveAll() {
	clear(w.keys)
}

func (w *Watcher) Len() int {
	return len(w.keys)
}

// Keys returns the changed keys in ascending order.
func (w *Watcher) Keys() []Key {
	keys := make([]Key, 0, len(w.keys))
	for k := range w.keys {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
