package catalog_test

import (
	"context"
	"testing"

	"sp-depends/internal/catalog"
	"sp-depends/internal/dialect"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columnHeader = []string{"COLUMN_NAME", "DATA_TYPE", "CHARACTER_MAXIMUM_LENGTH", "NUMERIC_PRECISION", "NUMERIC_SCALE"}

func newDBCatalog(t *testing.T, driver string) (*catalog.DBCatalog, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &catalog.DBCatalog{
		DB:              db,
		Dialect:         dialect.GetDialect(driver),
		DefaultDatabase: "Shop",
		DefaultSchema:   "dbo",
	}, mock
}

func TestDBCatalog_MSSQL(t *testing.T) {
	c, mock := newDBCatalog(t, "sqlserver")
	mock.ExpectQuery(`FROM \[Shop\]\.INFORMATION_SCHEMA\.COLUMNS WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2`).
		WithArgs("Sales", "Orders").
		WillReturnRows(sqlmock.NewRows(columnHeader).
			AddRow("Id", "int", nil, int64(10), int64(0)).
			AddRow("Note", "nvarchar", int64(-1), nil, nil).
			AddRow("Total", "decimal", nil, int64(10), int64(2)))

	types := c.ColumnTypes(context.Background(), "Shop.Sales.Orders")

	assert.Equal(t, map[string]string{"Id": "INT", "Note": "NVARCHAR(MAX)", "Total": "DECIMAL(10, 2)"}, types)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBCatalog_MySQLBindsDatabase(t *testing.T) {
	c, mock := newDBCatalog(t, "mysql")
	mock.ExpectQuery(`FROM information_schema\.COLUMNS WHERE TABLE_SCHEMA = COALESCE`).
		WithArgs("Shop", "Orders").
		WillReturnRows(sqlmock.NewRows(columnHeader).
			AddRow("Code", "varchar", int64(12), nil, nil))

	types := c.ColumnTypes(context.Background(), "Orders")

	assert.Equal(t, map[string]string{"Code": "VARCHAR(12)"}, types)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBCatalog_QueryFailureIsEmpty(t *testing.T) {
	c, mock := newDBCatalog(t, "sqlserver")
	mock.ExpectQuery(`INFORMATION_SCHEMA\.COLUMNS`).WillReturnError(errors.New("login failed"))

	types := c.ColumnTypes(context.Background(), "Shop.dbo.Orders")

	assert.NotNil(t, types)
	assert.Empty(t, types)
	assert.NoError(t, mock.ExpectationsWereMet())
}
