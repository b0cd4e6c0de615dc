// Package retry tracks per-record failure counts so a record that keeps
// failing stops consuming API quota. The ledger lives in memory only; a
// process restart deliberately clears it.
package retry

import (
	"sync"
	"time"
)

type entry struct {
	attempts    int
	lastAttempt time.Time
	failed      bool
}

// State is a read-only snapshot of one record's retry standing.
type State struct {
	RecordID    string    `json:"record_id"`
	Attempts    int       `json:"attempts"`
	LastAttempt time.Time `json:"last_attempt"`
	Failed      bool      `json:"failed"`
}

// Ledger is safe for concurrent use; job runs mutate it while the HTTP
// inspection endpoints read it.
type Ledger struct {
	mu          sync.Mutex
	entries     map[string]*entry
	maxAttempts int
	resetAfter  time.Duration
	now         func() time.Time
}

func NewLedger(maxAttempts int, resetAfter time.Duration) *Ledger {
	return &Ledger{
		entries:     make(map[string]*entry),
		maxAttempts: maxAttempts,
		resetAfter:  resetAfter,
		now:         time.Now,
	}
}

// CanAttempt reports whether a record may be processed. An exhausted entry
// whose last attempt is older than the reset window is forgotten, giving
// the record a fresh allowance.
func (l *Ledger) CanAttempt(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		return true
	}
	if e.failed || e.attempts >= l.maxAttempts {
		if l.now().Sub(e.lastAttempt) >= l.resetAfter {
			delete(l.entries, id)
			return true
		}
		return false
	}
	return true
}

// Record registers the outcome of one processing attempt. Success clears
// the record's entry. A permanent failure exhausts the record immediately;
// a transient one increments its count. The return value is true exactly
// when this call moved the record into the exhausted state, so callers can
// notify once per record rather than once per subsequent skip.
func (l *Ledger) Record(id string, success, permanent bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if success {
		delete(l.entries, id)
		return false
	}

	e, ok := l.entries[id]
	if !ok {
		e = &entry{}
		l.entries[id] = e
	}

	wasExhausted := e.failed || e.attempts >= l.maxAttempts

	e.lastAttempt = l.now()
	if permanent {
		e.attempts = l.maxAttempts
		e.failed = true
	} else {
		e.attempts++
		if e.attempts >= l.maxAttempts {
			e.failed = true
		}
	}

	nowExhausted := e.failed || e.attempts >= l.maxAttempts
	return nowExhausted && !wasExhausted
}

// Attempts returns the recorded attempt count for a record, 0 when unseen.
func (l *Ledger) Attempts(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[id]; ok {
		return e.attempts
	}
	return 0
}

// Snapshot copies the ledger for the inspection endpoint.
func (l *Ledger) Snapshot() []State {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]State, 0, len(l.entries))
	for id, e := range l.entries {
		out = append(out, State{
			RecordID:    id,
			Attempts:    e.attempts,
			LastAttempt: e.lastAttempt,
			Failed:      e.failed,
		})
	}
	return out
}

// Reset forgets a record's history, re-enabling processing regardless of
// how it was exhausted.
func (l *Ledger) Reset(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, id)
}
