package dialect

import "fmt"

type MysqlDialect struct{}

var (
	mysqlSized  = []string{"char", "varchar", "binary", "varbinary"}
	mysqlScaled = []string{"decimal", "numeric"}
)

// ColumnTypesQuery matches TABLE_SCHEMA against the database part of the
// name: in MySQL the schema is the database. An empty database falls back
// to the connection's current one.
func (d *MysqlDialect) ColumnTypesQuery(database string) string {
	return fmt.Sprintf(`SELECT COLUMN_NAME, DATA_TYPE, CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION, NUMERIC_SCALE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = COALESCE(NULLIF(%s, ''), DATABASE()) AND TABLE_NAME = %s ORDER BY ORDINAL_POSITION`,
		d.Placeholder(0), d.Placeholder(1))
}

// ColumnTypesArgs drops the repository schema (usually dbo), which has no
// MySQL counterpart.
func (d *MysqlDialect) ColumnTypesArgs(database, schema, table string) []any {
	return []any{database, table}
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) FormatType(col ColumnType) string {
	return DefaultFormatType(col, mysqlSized, mysqlScaled)
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
