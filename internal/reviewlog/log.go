// Package reviewlog keeps a bounded, append-only history of review
// transitions. The log only records; it never feeds back into scheduling.
package reviewlog

import "iter"

// DefaultCapacity is the number of entries kept before the oldest is evicted.
const DefaultCapacity = 5000

// Log is a fixed-capacity FIFO of entries backed by a ring buffer.
// A Log is not safe for concurrent use; its owner serializes access.
type Log struct {
	buf   []Entry
	start int // index of the oldest entry
	n     int
}

// New creates an empty log. A capacity below 1 uses DefaultCapacity.
func New(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{buf: make([]Entry, capacity)}
}

// Append adds an entry, evicting the oldest one when the log is full.
// It reports whether an entry was evicted.
func (l *Log) Append(e Entry) (evicted bool) {
	capacity := len(l.buf)
	if l.n < capacity {
		l.buf[(l.start+l.n)%capacity] = e
		l.n++
		return false
	}
	l.buf[l.start] = e
	l.start = (l.start + 1) % capacity
	return true
}

// Len returns the number of entries held.
func (l *Log) Len() int { return l.n }

// Cap returns the maximum number of entries held.
func (l *Log) Cap() int { return len(l.buf) }

// At returns the i-th entry, oldest first. It panics if i is out of range.
func (l *Log) At(i int) Entry {
	if i < 0 || i >= l.n {
		panic("reviewlog: index out of range")
	}
	return l.buf[(l.start+i)%len(l.buf)]
}

// All iterates over the entries from oldest to newest.
func (l *Log) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for i := 0; i < l.n; i++ {
			if !yield(l.At(i)) {
				return
			}
		}
	}
}

// Entries returns a copy of the entries from oldest to newest.
func (l *Log) Entries() []Entry {
	out := make([]Entry, 0, l.n)
	for e := range l.All() {
		out = append(out, e)
	}
	return out
}

// Last returns up to n of the newest entries, oldest first.
func (l *Log) Last(n int) []Entry {
	if n < 0 {
		n = 0
	}
	if n > l.n {
		n = l.n
	}
	out := make([]Entry, 0, n)
	for i := l.n - n; i < l.n; i++ {
		out = append(out, l.At(i))
	}
	return out
}
