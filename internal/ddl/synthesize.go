package ddl

import (
	"context"
	"strings"

	"sp-depends/internal/procedure"
	"sp-depends/internal/schema"

	"github.com/sirupsen/logrus"
)

const (
	// PlaceholderType is rendered for columns whose declared type is unknown.
	PlaceholderType = "VARCHAR(255)"
	// DependencyType marks a table column of the procedure table.
	DependencyType = "TABLE"
)

// TypeSource resolves the declared column types of a table. An empty map
// means nothing is known and placeholders are used.
type TypeSource interface {
	ColumnTypes(ctx context.Context, table string) map[string]string
}

// Options tunes rendering.
type Options struct {
	// Placeholder overrides PlaceholderType when set.
	Placeholder string
}

func (o Options) placeholder() string {
	if o.Placeholder == "" {
		return PlaceholderType
	}
	return o.Placeholder
}

// ProcedureTable renders the synthetic table named after the procedure,
// one TABLE-typed column per referenced table.
func ProcedureTable(sp *procedure.StoredProcedure) string {
	lines := make([]string, 0, len(sp.Tables))
	for _, table := range sp.Tables {
		lines = append(lines, "    "+table+" "+DependencyType)
	}
	return createTable(sp.Name, lines)
}

// BuildTables resolves the shape of every referenced table. Tables and
// columns come out in lexicographic order.
func BuildTables(ctx context.Context, sp *procedure.StoredProcedure, src TypeSource, opts Options) []*schema.Table {
	tables := make([]*schema.Table, 0, len(sp.Tables))
	for _, name := range sp.Tables {
		columns := sp.Columns[name]
		types := map[string]string{}
		if src != nil {
			types = src.ColumnTypes(ctx, name)
		}
		if len(types) == 0 {
			logrus.WithField("table", name).Warn("No column types found, using default types")
		}

		t := &schema.Table{Name: name}
		for _, col := range columns {
			c := &schema.Column{Name: col, DataType: opts.placeholder()}
			if declared, ok := types[col]; ok {
				c.DataType = declared
				c.Declared = true
			}
			t.Columns = append(t.Columns, c)
		}
		tables = append(tables, t)
	}
	return tables
}

// RenderTable renders one CREATE TABLE statement.
func RenderTable(t *schema.Table) string {
	lines := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		lines = append(lines, "    "+c.Name+" "+c.DataType)
	}
	return createTable(t.Name, lines)
}

// Tables renders the per-table statements separated by a blank line.
func Tables(ctx context.Context, sp *procedure.StoredProcedure, src TypeSource, opts Options) string {
	tables := BuildTables(ctx, sp, src, opts)
	statements := make([]string, 0, len(tables))
	for _, t := range tables {
		statements = append(statements, RenderTable(t))
	}
	return strings.Join(statements, "\n\n")
}

// Render returns the procedure table followed by the referenced tables.
func Render(ctx context.Context, sp *procedure.StoredProcedure, src TypeSource, opts Options) string {
	out := ProcedureTable(sp)
	if tables := Tables(ctx, sp, src, opts); tables != "" {
		out += "\n\n" + tables
	}
	return out
}

func createTable(name string, lines []string) string {
	if len(lines) == 0 {
		return "CREATE TABLE " + name + " (\n);"
	}
	return "CREATE TABLE " + name + " (\n" + strings.Join(lines, ",\n") + "\n);"
}
