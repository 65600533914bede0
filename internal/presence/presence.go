// Package presence tracks which dashboard clients were seen recently.
package presence

import (
	"context"
	"sort"
	"time"
)

// DefaultTimeout is how long a client stays listed after its last heartbeat.
const DefaultTimeout = 30 * time.Second

// Entry is one online client. LastSeen is not exposed over the API.
type Entry struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	LastSeen time.Time `json:"-"`
}

// Store keeps presence entries. Every call drops entries older than the
// timeout before answering.
type Store interface {
	// Heartbeat upserts e as seen now and returns the active entries.
	Heartbeat(ctx context.Context, e Entry) ([]Entry, error)
	Active(ctx context.Context) ([]Entry, error)
	Prune(ctx context.Context) error
}

func sortEntries(entries []Entry) []Entry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}
