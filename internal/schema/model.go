package schema

// TableName is a three-part SQL Server table identifier.
type TableName struct {
	Database string
	Schema   string
	Table    string
}

func (n TableName) String() string {
	return n.Database + "." + n.Schema + "." + n.Table
}

// Table is the synthetic shape of a referenced table, ready for rendering.
type Table struct {
	Name    string
	Columns []*Column
}

type Column struct {
	Name     string
	DataType string
	Declared bool // DataType came from a definition script or the live catalog
}
