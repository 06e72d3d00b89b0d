package procedure

import (
	"fmt"
	"sort"
)

// Set is a set of identifiers.
type Set map[string]bool

func (s Set) Add(v string) { s[v] = true }

// Sorted returns the members in lexicographic order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Extraction is the raw result of scanning one procedure body.
type Extraction struct {
	// Tables holds every fully-qualified table seen after FROM or JOIN.
	Tables Set
	// Columns maps a table from Tables to the columns referenced on it.
	Columns map[string]Set
	// Unresolved maps a column qualifier that matched no table reference
	// to the columns referenced through it.
	Unresolved map[string]Set
}

func newExtraction() *Extraction {
	return &Extraction{
		Tables:     Set{},
		Columns:    map[string]Set{},
		Unresolved: map[string]Set{},
	}
}

func addColumn(m map[string]Set, key, column string) {
	cols, ok := m[key]
	if !ok {
		cols = Set{}
		m[key] = cols
	}
	cols.Add(column)
}

// StoredProcedure is one procedure and the dependencies scraped from it.
// It is not modified after New returns.
type StoredProcedure struct {
	Name       string
	Tables     []string
	Columns    map[string][]string
	Unresolved map[string][]string
}

// New freezes an extraction into a StoredProcedure with sorted members.
func New(name string, ex *Extraction) *StoredProcedure {
	sp := &StoredProcedure{
		Name:       name,
		Tables:     ex.Tables.Sorted(),
		Columns:    make(map[string][]string, len(ex.Columns)),
		Unresolved: make(map[string][]string, len(ex.Unresolved)),
	}
	for table, cols := range ex.Columns {
		sp.Columns[table] = cols.Sorted()
	}
	for alias, cols := range ex.Unresolved {
		sp.Unresolved[alias] = cols.Sorted()
	}
	return sp
}

// UnresolvedAliases lists the qualifiers that resolved to no table.
func (sp *StoredProcedure) UnresolvedAliases() []string {
	out := make([]string, 0, len(sp.Unresolved))
	for alias := range sp.Unresolved {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

func (sp *StoredProcedure) String() string {
	return fmt.Sprintf("Stored Procedure: %s\nTables: %v", sp.Name, sp.Tables)
}
