package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

var (
	oracleSized  = []string{"char", "varchar2", "nchar", "nvarchar2", "raw"}
	oracleScaled = []string{"number"}
)

// ColumnTypesQuery reads ALL_TAB_COLUMNS; the owner plays the schema role.
// CHAR_LENGTH is used so character types report characters, not bytes.
func (d *OracleDialect) ColumnTypesQuery(database string) string {
	return fmt.Sprintf(`SELECT COLUMN_NAME, DATA_TYPE, CHAR_LENGTH, DATA_PRECISION, DATA_SCALE FROM ALL_TAB_COLUMNS WHERE OWNER = %s AND TABLE_NAME = %s ORDER BY COLUMN_ID`,
		d.Placeholder(0), d.Placeholder(1))
}

func (d *OracleDialect) ColumnTypesArgs(database, schema, table string) []any {
	return []any{d.GetSchemaName(schema), table}
}

func (d *OracleDialect) Placeholder(index int) string {
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) FormatType(col ColumnType) string {
	return DefaultFormatType(col, oracleSized, oracleScaled)
}

// Oracle stores unquoted owner names in upper case.
func (d *OracleDialect) GetSchemaName(input string) string {
	return strings.ToUpper(input)
}
