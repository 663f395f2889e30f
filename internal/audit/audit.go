package audit

import (
	"encoding/json"
	"sync"
	"time"
)

// DefaultCapacity is the number of entries retained when no capacity is
// configured.
const DefaultCapacity = 100

// Entry records one successful computation.
type Entry struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Endpoint  string          `json:"endpoint"`
	Input     json.RawMessage `json:"input"`
	Output    any             `json:"output"`
}

// Log is a bounded record of recent computations.
type Log interface {
	Append(e Entry)
	// Recent returns at most limit entries, oldest first. A limit <= 0
	// returns every retained entry.
	Recent(limit int) []Entry
	// Clear drops every entry and reports how many were removed.
	Clear() int
	Len() int
	Capacity() int
}

// Ring is a fixed-capacity Log. Once full, each append evicts the oldest
// entry.
type Ring struct {
	mu    sync.Mutex
	buf   []Entry
	start int
	n     int
}

// NewRing creates a ring holding up to capacity entries.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{buf: make([]Entry, capacity)}
}

func (r *Ring) Append(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = e
		r.n++
		return
	}
	r.buf[r.start] = e
	r.start = (r.start + 1) % len(r.buf)
}

func (r *Ring) Recent(limit int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > r.n {
		limit = r.n
	}
	out := make([]Entry, limit)
	skip := r.n - limit
	for i := range out {
		out[i] = r.buf[(r.start+skip+i)%len(r.buf)]
	}
	return out
}

func (r *Ring) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.n
	clear(r.buf)
	r.start, r.n = 0, 0
	return n
}

func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

func (r *Ring) Capacity() int {
	return len(r.buf)
}
