package dialect

import "database/sql"

// ColumnType is one row of a catalog column lookup.
type ColumnType struct {
	Name      string
	DataType  string
	Length    sql.NullInt64
	Precision sql.NullInt64
	Scale     sql.NullInt64
}

// Dialect abstracts database-specific catalog lookups.
type Dialect interface {
	// ColumnTypesQuery selects name, data type, length, precision and scale
	// of one table's columns. Its parameters are bound from ColumnTypesArgs.
	ColumnTypesQuery(database string) string
	ColumnTypesArgs(database, schema, table string) []any
	Placeholder(index int) string // Returns ?, $1, @p1, etc.

	// FormatType renders a catalog row as a declared type, e.g. NVARCHAR(50).
	FormatType(col ColumnType) string
	GetSchemaName(input string) string
}
