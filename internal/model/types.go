package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Record is one decoded log line. Raw is the line as it appeared in the
// file, without its terminator; it keeps field order and number text.
type Record struct {
	Raw    string
	Fields map[string]any
}

// NewRecord builds a record from fields alone, with Raw set to their
// compact JSON encoding.
func NewRecord(fields map[string]any) Record {
	raw, err := json.Marshal(fields)
	if err != nil {
		return Record{Fields: fields}
	}
	return Record{Raw: string(raw), Fields: fields}
}

const (
	TimestampField = "timestamp"
	MessageField   = "message"

	missingTimestamp = "N/A"
	missingMessage   = "No message"
)

// Timestamp returns the display value of the timestamp field.
func (r Record) Timestamp() string { return r.field(TimestampField, missingTimestamp) }

// Message returns the display value of the message field.
func (r Record) Message() string { return r.field(MessageField, missingMessage) }

// Summary is the one-line list representation of a record.
func (r Record) Summary() string {
	return r.Timestamp() + " - " + r.Message()
}

func (r Record) field(name, fallback string) string {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return fallback
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fallback
		}
		return string(b)
	}
}

var ErrIndexOutOfRange = errors.New("index out of range")

// Store holds records newest first. Index 0 is always the most recently
// known record. It is safe for one writer and any number of readers; every
// method is a single critical section.
type Store struct {
	mu sync.RWMutex
	// newer holds records prepended after tailing began, in arrival order.
	newer []Record
	// older holds records appended by the snapshot scan, newest first.
	older   []Record
	cap     int
	total   uint64 // total accepted
	dropped uint64
}

// NewStore returns a store. capacity <= 0 means unbounded.
func NewStore(capacity int) *Store {
	if capacity < 0 {
		capacity = 0
	}
	return &Store{cap: capacity}
}

// AppendOlder adds r at the end of the sequence. A full store discards r.
func (s *Store) AppendOlder(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full() {
		s.dropped++
		return
	}
	s.older = append(s.older, r)
	s.total++
}

// PrependNewest adds r at index 0. A full store evicts its oldest record.
func (s *Store) PrependNewest(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full() {
		s.evictOldest()
		s.dropped++
	}
	s.newer = append(s.newer, r)
	s.total++
}

func (s *Store) full() bool {
	return s.cap > 0 && len(s.newer)+len(s.older) >= s.cap
}

func (s *Store) evictOldest() {
	if n := len(s.older); n > 0 {
		s.older[n-1] = Record{}
		s.older = s.older[:n-1]
		return
	}
	if len(s.newer) > 0 {
		s.newer[0] = Record{}
		s.newer = s.newer[1:]
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size()
}

func (s *Store) size() int { return len(s.newer) + len(s.older) }

// at must be called with the lock held and i in range.
func (s *Store) at(i int) Record {
	if n := len(s.newer); i < n {
		return s.newer[n-1-i]
	}
	return s.older[i-len(s.newer)]
}

// At returns the record at index i.
func (s *Store) At(i int) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= s.size() {
		return Record{}, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, s.size())
	}
	return s.at(i), nil
}

// Snapshot returns a point-in-time copy of the whole sequence.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, s.size())
	for i := range out {
		out[i] = s.at(i)
	}
	return out
}

// Window returns a copy of at most limit records starting at offset along
// with the length observed in the same critical section.
func (s *Store) Window(offset, limit int) ([]Record, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.size()
	if offset < 0 {
		offset = 0
	}
	if limit < 0 || offset >= n {
		return nil, n
	}
	end := offset + limit
	if end > n {
		end = n
	}
	out := make([]Record, end-offset)
	for i := range out {
		out[i] = s.at(offset + i)
	}
	return out, n
}

// Stats reports how many records were accepted and how many were dropped
// because of the capacity limit.
func (s *Store) Stats() (total, dropped uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total, s.dropped
}
