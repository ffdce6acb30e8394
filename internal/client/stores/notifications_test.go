package stores

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("notif-%d", n)
	}
}

func newNotifications(t *testing.T) *NotificationStore {
	t.Helper()
	s := NewNotificationStore(NotificationOptions{newID: sequentialIDs()})
	t.Cleanup(s.Close)
	return s
}

func TestNotifications_DefaultID(t *testing.T) {
	s := NewNotificationStore(NotificationOptions{})
	defer s.Close()

	id := s.Push("hello", SeverityInfo, 0)
	assert.True(t, strings.HasPrefix(id, "notif-"), id)
	assert.NotEqual(t, id, s.Push("hello", SeverityInfo, 0))
}

func TestNotifications_PushAndAutoExpire(t *testing.T) {
	s := newNotifications(t)

	s.Push("Saved", SeveritySuccess, 100*time.Millisecond)
	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, SeveritySuccess, list[0].Severity)
	assert.Equal(t, "Saved", list[0].Message)

	time.Sleep(150 * time.Millisecond)
	require.Eventually(t, func() bool { return len(s.List()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestNotifications_ZeroDurationStays(t *testing.T) {
	s := newNotifications(t)

	s.Push("sticky", SeverityWarning, 0)
	s.Push("also sticky", SeverityWarning, -time.Second)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, s.List(), 2)
}

func TestNotifications_CapKeepsNewest(t *testing.T) {
	s := newNotifications(t)

	var ids []string
	for i := 1; i <= 6; i++ {
		ids = append(ids, s.Push(fmt.Sprintf("m%d", i), SeverityInfo, 0))
	}

	list := s.List()
	require.Len(t, list, 5)
	assert.Equal(t, ids[5], list[0].ID)
	assert.Equal(t, "m6", list[0].Message)
	assert.Equal(t, "m2", list[4].Message)
	for _, n := range list {
		assert.NotEqual(t, ids[0], n.ID)
	}
}

func TestNotifications_EvictionStopsTimer(t *testing.T) {
	s := newNotifications(t)

	s.Push("oldest", SeverityInfo, time.Hour)
	for i := 0; i < 5; i++ {
		s.Push("filler", SeverityInfo, 0)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.timers)
}

func TestNotifications_DismissUnknownIsNoop(t *testing.T) {
	s := newNotifications(t)
	s.Push("one", SeverityInfo, 0)

	calls := 0
	s.Subscribe(func([]Notification) { calls++ })

	s.Dismiss("notif-does-not-exist")
	assert.Len(t, s.List(), 1)
	assert.Zero(t, calls)
}

func TestNotifications_DismissCancelsTimerAndIsIdempotent(t *testing.T) {
	s := newNotifications(t)
	id := s.Push("bye", SeverityError, time.Hour)

	s.Dismiss(id)
	s.Dismiss(id)
	assert.Empty(t, s.List())

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.timers)
}

func TestNotifications_DismissAfterExpiry(t *testing.T) {
	s := newNotifications(t)
	id := s.Push("quick", SeverityInfo, 10*time.Millisecond)

	require.Eventually(t, func() bool { return len(s.List()) == 0 }, time.Second, 2*time.Millisecond)
	s.Dismiss(id)
	assert.Empty(t, s.List())
}

func TestNotifications_ClearStopsTimers(t *testing.T) {
	s := newNotifications(t)
	s.Push("a", SeverityInfo, time.Hour)
	s.Push("b", SeverityInfo, 20*time.Millisecond)

	s.Clear()
	assert.Empty(t, s.List())

	s.Push("c", SeverityInfo, 0)
	time.Sleep(40 * time.Millisecond)
	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].Message)
}

func TestNotifications_UnknownSeverityFallsBackToInfo(t *testing.T) {
	s := newNotifications(t)
	s.Push("x", Severity("critical"), 0)
	assert.Equal(t, SeverityInfo, s.List()[0].Severity)
}

func TestNotifications_Helpers(t *testing.T) {
	s := NewNotificationStore(NotificationOptions{Duration: time.Hour, newID: sequentialIDs()})
	defer s.Close()

	s.Success("s")
	s.Error("e")
	s.Info("i")
	s.Warning("w")

	list := s.List()
	require.Len(t, list, 4)
	got := []Severity{list[0].Severity, list[1].Severity, list[2].Severity, list[3].Severity}
	assert.Equal(t, []Severity{SeverityWarning, SeverityInfo, SeverityError, SeveritySuccess}, got)
	for _, n := range list {
		assert.Equal(t, time.Hour, n.Duration)
	}
}

func TestNotifications_StoresMessageVerbatim(t *testing.T) {
	s := newNotifications(t)
	s.Push("use <tab> to complete ", SeverityInfo, 0)
	assert.Equal(t, "use <tab> to complete ", s.List()[0].Message)
}

func TestNotifications_ListIsACopy(t *testing.T) {
	s := newNotifications(t)
	s.Push("original", SeverityInfo, 0)

	list := s.List()
	list[0].Message = "changed"
	assert.Equal(t, "original", s.List()[0].Message)
}

func TestNotifications_SubscribeAndClose(t *testing.T) {
	s := NewNotificationStore(NotificationOptions{newID: sequentialIDs()})

	var mu sync.Mutex
	var lengths []int
	unsubscribe := s.Subscribe(func(list []Notification) {
		mu.Lock()
		lengths = append(lengths, len(list))
		mu.Unlock()
	})

	id := s.Push("a", SeverityInfo, 0)
	s.Push("b", SeverityInfo, 0)
	s.Dismiss(id)
	unsubscribe()
	s.Clear()

	mu.Lock()
	assert.Equal(t, []int{1, 2, 1}, lengths)
	mu.Unlock()

	s.Push("timed", SeverityInfo, time.Hour)
	s.Close()
	s.mu.Lock()
	assert.Empty(t, s.timers)
	s.mu.Unlock()

	s.Push("after close", SeverityInfo, 0)
	assert.Len(t, s.List(), 1)
}
