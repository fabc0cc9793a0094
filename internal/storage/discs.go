// Implements the disc record store on top of Table.

package storage

import (
	"slices"

	"github.com/maruel/discdb/internal/discs"
)

// DiscStore is the ordered collection of disc records.
type DiscStore struct {
	table *Table[discs.Record]
	rule  discs.IDRule
}

// NewDiscStore creates a store holding seed in order, assigning ids for new
// records with rule.
func NewDiscStore(seed []discs.Record, rule discs.IDRule) *DiscStore {
	return &DiscStore{table: NewTable(seed), rule: rule}
}

// IDRule returns the id assignment rule in use.
func (s *DiscStore) IDRule() discs.IDRule {
	return s.rule
}

// List returns all records in insertion order.
func (s *DiscStore) List() []discs.Record {
	out := make([]discs.Record, 0, s.table.Len())
	return slices.AppendSeq(out, s.table.All())
}

// Get returns the first record with the given id.
func (s *DiscStore) Get(id int64) (discs.Record, bool) {
	return s.table.Find(func(r discs.Record) bool { return r.ID == id })
}

// Insert appends r as is. No uniqueness check is performed.
func (s *DiscStore) Insert(r discs.Record) {
	s.table.Append(r)
}

// Create assigns an id to c and appends the resulting record atomically.
func (s *DiscStore) Create(c discs.Candidate) discs.Record {
	return s.table.AppendWith(func(rows []discs.Record) discs.Record {
		var lastID, maxID int64
		if len(rows) > 0 {
			lastID = rows[len(rows)-1].ID
		}
		for i := range rows {
			maxID = max(maxID, rows[i].ID)
		}
		return discs.Build(c, s.rule.Next(lastID, maxID))
	})
}

// DeleteByID removes all records with the given id and reports whether any
// was removed.
func (s *DiscStore) DeleteByID(id int64) bool {
	return s.table.DeleteFunc(func(r discs.Record) bool { return r.ID == id }) > 0
}

// Len returns the number of records.
func (s *DiscStore) Len() int {
	return s.table.Len()
}
