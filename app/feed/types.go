// Package feed fetches and parses RSS/Atom feeds into a shape the rest of
// the engine can consume without depending on the parser library's types.
package feed

import (
	"time"
)

const (
	// Feeds may advertise any refresh hint, but polling never slows down
	// below once per hour.
	DefaultTTLMinutes = 60
	MaxTTLMinutes     = 60
)

type Link struct {
	Href  string
	Title string
}

type Entry struct {
	ID          string
	Title       string
	Description string
	Links       []Link
}

type Feed struct {
	Title       string
	TTLMinutes  *int
	PublishedAt *time.Time
	Links       []Link
	Entries     []Entry
}

// RefreshInterval derives the poll interval from the feed's advertised TTL,
// defaulting to an hour when absent or nonsensical and capped at an hour.
func (f *Feed) RefreshInterval() time.Duration {
	ttl := DefaultTTLMinutes
	if f.TTLMinutes != nil && *f.TTLMinutes > 0 {
		ttl = *f.TTLMinutes
	}
	if ttl > MaxTTLMinutes {
		ttl = MaxTTLMinutes
	}
	return time.Duration(ttl) * time.Minute
}
