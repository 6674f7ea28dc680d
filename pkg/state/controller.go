// Package state holds reactive values for the UI.
//
// Values live in a Controller keyed by integer Keys. Handles (Pointer and
// State) never touch the Controller directly: they push events onto a
// Queue, and the frame goroutine flushes the queue into the Controller and
// a Watcher at the start of each frame. The Controller and Watcher are
// therefore owned by a single goroutine and carry no locks.
package state

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// Key identifies a store entry. Keys are never reused.
type Key uint64

var lastKey atomic.Uint64

// NextKey reserves a process-wide unique key. The first key is 1.
func NextKey() Key {
	return Key(lastKey.Add(1))
}

// Destructor drops a payload when its entry leaves the store.
type Destructor func(payload any)

// Releaser is implemented by values that hold handles of their own.
// The default destructor calls Release when the value is dropped.
type Releaser interface {
	Release()
}

type entry struct {
	payload  any
	destroy  Destructor
	refCount int
}

// Controller is the type-erased, reference-counted value store.
// It is not safe for concurrent use; only the frame goroutine touches it.
type Controller struct {
	entries map[Key]*entry
}

// NewController creates an empty store.
func NewController() *Controller {
	return &Controller{entries: make(map[Key]*entry)}
}

// Insert stores payload under key with a ref count of 1. A nil destructor
// selects DefaultDestructor. Insert panics if key is already present.
func (c *Controller) Insert(key Key, payload any, destroy Destructor) {
	if _, ok := c.entries[key]; ok {
		panic(&DuplicateKeyError{Key: key})
	}
	if destroy == nil {
		destroy = DefaultDestructor
	}
	c.entries[key] = &entry{payload: payload, destroy: destroy, refCount: 1}
}

// Replace swaps the payload of key and destroys the old one. The new
// payload must have the same dynamic type as the old.
func (c *Controller) Replace(key Key, payload any) {
	e := c.lookup(key, "replace")
	if reflect.TypeOf(payload) != reflect.TypeOf(e.payload) {
		panic(&TypeMismatchError{
			Key:      key,
			Expected: payloadTypeName(e.payload),
			Actual:   payloadTypeName(payload),
		})
	}
	old := e.payload
	e.payload = payload
	e.destroy(old)
}

// Subscribe increments the ref count of key.
func (c *Controller) Subscribe(key Key) {
	c.lookup(key, "subscribe").refCount++
}

// Unsubscribe decrements the ref count of key. On the transition to zero
// the destructor runs and the entry is removed.
func (c *Controller) Unsubscribe(key Key) {
	e := c.lookup(key, "unsubscribe")
	e.refCount--
	if e.refCount > 0 {
		return
	}
	delete(c.entries, key)
	e.destroy(e.payload)
}

// Remove deletes key regardless of its ref count and runs its destructor.
func (c *Controller) Remove(key Key) {
	e := c.lookup(key, "remove")
	delete(c.entries, key)
	e.destroy(e.payload)
}

// Contains reports whether key is live.
func (c *Controller) Contains(key Key) bool {
	_, ok := c.entries[key]
	return ok
}

// RefCount returns the ref count of key.
func (c *Controller) RefCount(key Key) int {
	return c.lookup(key, "ref count").refCount
}

// Len returns the number of live entries.
func (c *Controller) Len() int {
	return len(c.entries)
}

// Payload returns the erased payload of key.
func (c *Controller) Payload(key Key) any {
	return c.lookup(key, "payload").payload
}

func (c *Controller) lookup(key Key, op string) *entry {
	e, ok := c.entries[key]
	if !ok {
		panic(&MissingKeyError{Key: key, Op: op})
	}
	return e
}

// Ref returns the stored *T for key. It panics with *TypeMismatchError if
// the entry was not inserted as a *T.
func Ref[T any](c *Controller, key Key) *T {
	payload := c.lookup(key, "get").payload
	p, ok := payload.(*T)
	if !ok {
		panic(&TypeMismatchError{
			Key:      key,
			Expected: reflect.TypeFor[T]().String(),
			Actual:   payloadTypeName(payload),
		})
	}
	return p
}

// Get returns a copy of the value stored under key.
func Get[T any](c *Controller, key Key) T {
	return *Ref[T](c, key)
}

// InsertValue stores v as a *T. A nil destroy selects DefaultDestructor.
func InsertValue[T any](c *Controller, key Key, v T, destroy func(*T)) {
	p := new(T)
	*p = v
	c.Insert(key, p, typedDestructor(destroy))
}

func typedDestructor[T any](destroy func(*T)) Destructor {
	if destroy == nil {
		return nil
	}
	return func(payload any) {
		destroy(payload.(*T))
	}
}

// DefaultDestructor releases the payload if it, or the value it points
// to, implements Releaser.
func DefaultDestructor(payload any) {
	if r, ok := payload.(Releaser); ok {
		r.Release()
		return
	}
	v := reflect.ValueOf(payload)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}
	if r, ok := v.Elem().Interface().(Releaser); ok {
		r.Release()
	}
}

func payloadTypeName(payload any) string {
	t := reflect.TypeOf(payload)
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

// MissingKeyError is the panic value for operations on an absent key.
type MissingKeyError struct {
	Key Key
	Op  string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("state: %s on missing key %d", e.Op, e.Key)
}

// DuplicateKeyError is the panic value for inserting a live key.
type DuplicateKeyError struct {
	Key Key
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("state: key %d already inserted", e.Key)
}

// TypeMismatchError is the panic value for reading an entry as the wrong
// type.
type TypeMismatchError struct {
	Key      Key
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("state: key %d holds %s, requested %s", e.Key, e.Actual, e.Expected)
}
