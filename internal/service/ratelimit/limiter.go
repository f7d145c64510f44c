package ratelimit

import (
	"sync"
	"time"
)

// Quota configures a fixed window for one service.
type Quota struct {
	Limit  int
	Window time.Duration
}

// Decision is the outcome of a TryAcquire call. RetryAfter is only
// meaningful when Allowed is false.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// WindowState is a read-only view of one service window.
type WindowState struct {
	ServiceID   string        `json:"service_id"`
	WindowStart time.Time     `json:"window_start"`
	CallCount   int           `json:"call_count"`
	Limit       int           `json:"limit"`
	Window      time.Duration `json:"window"`
}

type window struct {
	start time.Time
	count int
	quota Quota
}

// Limiter tracks calls-per-window against a configured quota per service id.
// The check and increment are atomic across goroutines: two concurrent
// callers never both pass when a single slot remains.
type Limiter struct {
	mu     sync.Mutex
	m      map[string]*window
	quotas map[string]Quota
	now    func() time.Time
}

// New creates a limiter with per-service quotas.
func New(quotas map[string]Quota) *Limiter {
	return &Limiter{
		m:      make(map[string]*window),
		quotas: quotas,
		now:    time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// TryAcquire consumes one slot for serviceID if the current window has
// capacity. Unknown service ids are always allowed.
func (l *Limiter) TryAcquire(serviceID string) Decision {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	q, ok := l.quotas[serviceID]
	if !ok || q.Limit <= 0 {
		return Decision{Allowed: true}
	}

	w, ok := l.m[serviceID]
	if !ok || now.Sub(w.start) >= w.quota.Window {
		l.m[serviceID] = &window{start: now, count: 1, quota: q}
		return Decision{Allowed: true}
	}
	if w.count < w.quota.Limit {
		w.count++
		return Decision{Allowed: true}
	}
	return Decision{
		Allowed:    false,
		RetryAfter: w.start.Add(w.quota.Window).Sub(now),
	}
}

// Peek reports current window state without consuming a slot.
func (l *Limiter) Peek() []WindowState {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]WindowState, 0, len(l.quotas))
	for id, q := range l.quotas {
		st := WindowState{ServiceID: id, Limit: q.Limit, Window: q.Window}
		if w, ok := l.m[id]; ok && now.Sub(w.start) < w.quota.Window {
			st.WindowStart = w.start
			st.CallCount = w.count
		}
		out = append(out, st)
	}
	return out
}
