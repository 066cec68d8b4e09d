package guard

import (
	"sync"
	"time"
)

// Security event kinds recorded by the gate.
const (
	EventAuthSuccess = "auth_success"
	EventAuthFailure = "auth_failure"
	EventViolation   = "violation"
)

const (
	// DefaultEventCapacity bounds the in-memory event log.
	DefaultEventCapacity = 1000

	suspiciousThreshold = 3
	suspiciousWindow    = 60 * time.Second
)

// SecurityEvent is one recorded authentication outcome.
type SecurityEvent struct {
	Type       string
	Identifier string
	Detail     string
	At         time.Time
}

// EventLog is a fixed-capacity ring buffer of security events. Appends past
// capacity overwrite the oldest entry. Safe for concurrent use.
type EventLog struct {
	mu     sync.Mutex
	events []SecurityEvent
	head   int
	size   int
	now    func() time.Time
}

// NewEventLog creates a log retaining at most capacity events
// (DefaultEventCapacity when capacity <= 0).
func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultEventCapacity
	}
	return &EventLog{
		events: make([]SecurityEvent, capacity),
		now:    time.Now,
	}
}

// Record appends an event, dropping the oldest when full.
func (l *EventLog) Record(eventType, identifier, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events[l.head] = SecurityEvent{
		Type:       eventType,
		Identifier: identifier,
		Detail:     detail,
		At:         l.now(),
	}
	l.head = (l.head + 1) % len(l.events)
	if l.size < len(l.events) {
		l.size++
	}
}

// Recent returns up to n most recent events, newest first.
func (l *EventLog) Recent(n int) []SecurityEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > l.size {
		n = l.size
	}
	out := make([]SecurityEvent, 0, n)
	for i := 1; i <= n; i++ {
		idx := (l.head - i + len(l.events)) % len(l.events)
		out = append(out, l.events[idx])
	}
	return out
}

// Suspicious reports whether the identifier accumulated three or more
// failures within the last minute. Advisory only, it never blocks on its own.
func (l *EventLog) Suspicious(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-suspiciousWindow)
	failures := 0
	for i := 1; i <= l.size; i++ {
		idx := (l.head - i + len(l.events)) % len(l.events)
		e := l.events[idx]
		if e.At.Before(cutoff) {
			// Entries are stored in append order, everything older is
			// outside the window too.
			break
		}
		if e.Type == EventAuthFailure && e.Identifier == identifier {
			failures++
			if failures >= suspiciousThreshold {
				return true
			}
		}
	}
	return false
}

// Len reports the number of retained events.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}
