package dialect

import "fmt"

type PostgresDialect struct{}

var (
	postgresSized  = []string{"character", "character varying", "bit", "bit varying"}
	postgresScaled = []string{"numeric", "decimal"}
)

func (d *PostgresDialect) ColumnTypesQuery(database string) string {
	return fmt.Sprintf(`SELECT column_name, data_type, character_maximum_length, numeric_precision, numeric_scale FROM information_schema.columns WHERE table_schema = %s AND table_name = %s ORDER BY ordinal_position`,
		d.Placeholder(0), d.Placeholder(1))
}

func (d *PostgresDialect) ColumnTypesArgs(database, schema, table string) []any {
	return []any{d.GetSchemaName(schema), table}
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) FormatType(col ColumnType) string {
	return DefaultFormatType(col, postgresSized, postgresScaled)
}

// Helper to fix schema name if needed (usually public)
func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" || input == "dbo" {
		return "public"
	}
	return input
}
