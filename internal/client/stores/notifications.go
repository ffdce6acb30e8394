package stores

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultDuration = 5 * time.Second
	DefaultCapacity = 5
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeveritySuccess, SeverityError, SeverityInfo, SeverityWarning:
		return true
	}
	return false
}

type Notification struct {
	ID        string
	Message   string
	Severity  Severity
	Duration  time.Duration
	CreatedAt time.Time
}

type NotificationOptions struct {
	// Capacity caps the list; DefaultCapacity when <= 0.
	Capacity int
	// Duration used by Success, Error, Info and Warning; DefaultDuration
	// when zero.
	Duration time.Duration

	now   func() time.Time
	newID func() string
}

// NotificationStore is a newest-first list of transient messages. Entries
// with a positive duration are removed by a timer once it elapses.
type NotificationStore struct {
	capacity int
	duration time.Duration
	now      func() time.Time
	newID    func() string

	mu     sync.Mutex
	items  []Notification
	timers map[string]*time.Timer
	closed bool
	subs   observers[[]Notification]
}

func NewNotificationStore(opts NotificationOptions) *NotificationStore {
	s := &NotificationStore{
		capacity: opts.Capacity,
		duration: opts.Duration,
		now:      opts.now,
		newID:    opts.newID,
		timers:   make(map[string]*time.Timer),
	}
	if s.capacity <= 0 {
		s.capacity = DefaultCapacity
	}
	if s.duration == 0 {
		s.duration = DefaultDuration
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return "notif-" + uuid.NewString() }
	}
	return s
}

// Push adds a notification at the head of the list and returns its id. A
// duration <= 0 keeps it until dismissed. Unknown severities are stored as
// info. The message is stored as given.
func (s *NotificationStore) Push(message string, severity Severity, duration time.Duration) string {
	if !severity.Valid() {
		severity = SeverityInfo
	}
	n := Notification{
		ID:        s.newID(),
		Message:   message,
		Severity:  severity,
		Duration:  max(duration, 0),
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return n.ID
	}
	s.items = append([]Notification{n}, s.items...)
	for len(s.items) > s.capacity {
		evicted := s.items[len(s.items)-1]
		s.items = s.items[:len(s.items)-1]
		s.stopLocked(evicted.ID)
	}
	if n.Duration > 0 {
		id := n.ID
		s.timers[id] = time.AfterFunc(n.Duration, func() { s.expire(id) })
	}
	list, fns := s.listLocked(), s.subs.snapshot()
	s.mu.Unlock()

	notify(fns, list)
	return n.ID
}

func (s *NotificationStore) Success(message string) string {
	return s.Push(message, SeveritySuccess, s.duration)
}

func (s *NotificationStore) Error(message string) string {
	return s.Push(message, SeverityError, s.duration)
}

func (s *NotificationStore) Info(message string) string {
	return s.Push(message, SeverityInfo, s.duration)
}

func (s *NotificationStore) Warning(message string) string {
	return s.Push(message, SeverityWarning, s.duration)
}

// Dismiss removes the notification and cancels its timer. Unknown or
// already removed ids are ignored.
func (s *NotificationStore) Dismiss(id string) {
	s.remove(id)
}

func (s *NotificationStore) expire(id string) {
	s.remove(id)
}

func (s *NotificationStore) remove(id string) {
	s.mu.Lock()
	idx := -1
	for i, n := range s.items {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	s.stopLocked(id)
	list, fns := s.listLocked(), s.subs.snapshot()
	s.mu.Unlock()

	notify(fns, list)
}

// Clear empties the list and stops every pending timer.
func (s *NotificationStore) Clear() {
	s.mu.Lock()
	s.items = nil
	for id := range s.timers {
		s.stopLocked(id)
	}
	list, fns := s.listLocked(), s.subs.snapshot()
	s.mu.Unlock()

	notify(fns, list)
}

// List returns a copy of the notifications, newest first.
func (s *NotificationStore) List() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

func (s *NotificationStore) Subscribe(fn func([]Notification)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.subs.add(fn)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.subs.remove(id)
		s.mu.Unlock()
	}
}

// Close stops all timers and detaches observers. Later pushes are dropped.
func (s *NotificationStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id := range s.timers {
		s.stopLocked(id)
	}
	s.subs.reset()
}

func (s *NotificationStore) stopLocked(id string) {
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *NotificationStore) listLocked() []Notification {
	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}
