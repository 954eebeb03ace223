package transition

import (
	"fmt"
	"slices"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// Guard vetoes an otherwise valid transition. A non-nil error becomes a GuardRejected
// with the error text as reason.
type Guard func(o *order.Order, role kernel.Role, p Payload, now time.Time) error

// Entry is one legal transition.
type Entry struct {
	From     order.Status
	Action   order.Action
	To       order.Status
	Roles    []kernel.Role
	Required []string
	Guard    Guard
}

// Allows reports whether role may trigger the entry.
func (e Entry) Allows(role kernel.Role) bool {
	return slices.Contains(e.Roles, role)
}

type key struct {
	from   order.Status
	action order.Action
}

// Table is an immutable registry of transitions keyed by (from, action).
type Table struct {
	entries map[key]Entry
	byFrom  map[order.Status][]key
}

// NewTable builds a table. Duplicate (from, action) pairs, entries without roles and
// entries with invalid statuses are rejected.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{
		entries: make(map[key]Entry, len(entries)),
		byFrom:  make(map[order.Status][]key),
	}
	for _, e := range entries {
		if err := e.From.Validate(); err != nil {
			return nil, fmt.Errorf("transition %s: from: %w", e.Action, err)
		}
		if err := e.To.Validate(); err != nil {
			return nil, fmt.Errorf("transition %s from %s: to: %w", e.Action, e.From, err)
		}
		if e.Action == "" {
			return nil, fmt.Errorf("transition from %s has no action", e.From)
		}
		if len(e.Roles) == 0 {
			return nil, fmt.Errorf("transition %s from %s has no roles", e.Action, e.From)
		}
		k := key{from: e.From, action: e.Action}
		if _, ok := t.entries[k]; ok {
			return nil, fmt.Errorf("duplicate transition %s from %s", e.Action, e.From)
		}
		e.Roles = slices.Clone(e.Roles)
		e.Required = slices.Clone(e.Required)
		t.entries[k] = e
		t.byFrom[e.From] = append(t.byFrom[e.From], k)
	}
	return t, nil
}

// MustNewTable is NewTable that panics on a malformed table.
func MustNewTable(entries ...Entry) *Table {
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the entry for (from, action).
func (t *Table) Lookup(from order.Status, action order.Action) (Entry, bool) {
	e, ok := t.entries[key{from: from, action: action}]
	return e, ok
}

// From returns the entries leaving a status in registration order.
func (t *Table) From(from order.Status) []Entry {
	keys := t.byFrom[from]
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.entries[k])
	}
	return out
}

// Entries returns every entry, grouped by source status in status order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, s := range order.Statuses() {
		out = append(out, t.From(s)...)
	}
	return out
}

// Len is the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}
