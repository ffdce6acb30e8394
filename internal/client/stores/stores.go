// Package stores holds the client-side state of the TraceTrail client: the
// signed-in session, the dashboard snapshot and the notification queue.
//
// Every store is an explicit object with a Close method. State is guarded by
// a mutex; observers registered with Subscribe are called with a copy of the
// new state after each change, outside the lock, so they may call back into
// the store.
package stores

import "errors"

var (
	// ErrClosed is returned by mutations on a closed store, and by calls
	// whose result arrived after Close.
	ErrClosed = errors.New("store closed")
	// ErrSuperseded is returned by a call whose result was discarded
	// because a newer call replaced the state it would have written.
	ErrSuperseded = errors.New("superseded by a newer call")
	// ErrAlreadyRestored is returned by every Restore call after the first.
	ErrAlreadyRestored = errors.New("session already restored")
)

type subscriber[T any] struct {
	id int
	fn func(T)
}

// observers is not safe for concurrent use; the owning store locks it.
type observers[T any] struct {
	next int
	subs []subscriber[T]
}

func (o *observers[T]) add(fn func(T)) int {
	o.next++
	o.subs = append(o.subs, subscriber[T]{id: o.next, fn: fn})
	return o.next
}

func (o *observers[T]) remove(id int) {
	for i, s := range o.subs {
		if s.id == id {
			o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
			return
		}
	}
}

func (o *observers[T]) snapshot() []func(T) {
	fns := make([]func(T), len(o.subs))
	for i, s := range o.subs {
		fns[i] = s.fn
	}
	return fns
}

func (o *observers[T]) reset() {
	o.subs = nil
}

func notify[T any](fns []func(T), v T) {
	for _, fn := range fns {
		fn(v)
	}
}
