package dialect

import (
	"fmt"
	"strings"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server Driver
)

type MSSQLDialect struct{}

var (
	mssqlSized  = []string{"char", "varchar", "nchar", "nvarchar", "binary", "varbinary"}
	mssqlScaled = []string{"decimal", "numeric"}
)

// ColumnTypesQuery reads the database's own INFORMATION_SCHEMA so that
// three-part names resolve against the right catalog.
func (d *MSSQLDialect) ColumnTypesQuery(database string) string {
	view := "INFORMATION_SCHEMA.COLUMNS"
	if database != "" {
		view = quoteIdent(database) + "." + view
	}
	return fmt.Sprintf(`SELECT COLUMN_NAME, DATA_TYPE, CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION, NUMERIC_SCALE FROM %s WHERE TABLE_SCHEMA = %s AND TABLE_NAME = %s ORDER BY ORDINAL_POSITION`,
		view, d.Placeholder(0), d.Placeholder(1))
}

func (d *MSSQLDialect) ColumnTypesArgs(database, schema, table string) []any {
	return []any{d.GetSchemaName(schema), table}
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) FormatType(col ColumnType) string {
	return DefaultFormatType(col, mssqlSized, mssqlScaled)
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

func quoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}
