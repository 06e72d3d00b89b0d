package catalog

import (
	"context"
	"database/sql"

	"sp-depends/internal/dialect"
	"sp-depends/internal/schema"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Source answers "what are the declared column types of this table".
// An empty map means the source knows nothing about the table.
type Source interface {
	ColumnTypes(ctx context.Context, table string) map[string]string
}

// FileCatalog reads types from the table scripts of a database repository.
type FileCatalog struct {
	Locator *Locator
}

func (c *FileCatalog) ColumnTypes(ctx context.Context, table string) map[string]string {
	path, ok := c.Locator.Find(table)
	if !ok {
		return map[string]string{}
	}
	return LoadColumnTypes(c.Locator.Fs, path)
}

// DBCatalog reads types from a live server's catalog views.
type DBCatalog struct {
	DB              *sql.DB
	Dialect         dialect.Dialect
	DefaultDatabase string
	DefaultSchema   string
}

func (c *DBCatalog) ColumnTypes(ctx context.Context, table string) map[string]string {
	types, err := c.lookup(ctx, table)
	if err != nil {
		logrus.WithField("table", table).Warnf("Catalog lookup failed: %v", err)
		return map[string]string{}
	}
	return types
}

func (c *DBCatalog) lookup(ctx context.Context, table string) (map[string]string, error) {
	name := schema.ParseTableName(table, c.DefaultDatabase, c.DefaultSchema)
	query := c.Dialect.ColumnTypesQuery(name.Database)

	args := c.Dialect.ColumnTypesArgs(name.Database, name.Schema, name.Table)

	rows, err := c.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query columns")
	}
	defer rows.Close()

	types := map[string]string{}
	for rows.Next() {
		var col dialect.ColumnType
		if err := rows.Scan(&col.Name, &col.DataType, &col.Length, &col.Precision, &col.Scale); err != nil {
			return nil, errors.Wrapf(err, "failed to scan column (table: %s)", table)
		}
		types[col.Name] = c.Dialect.FormatType(col)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating columns")
	}
	return types, nil
}

// Chain asks each source in turn; the first non-empty answer wins.
type Chain []Source

func (c Chain) ColumnTypes(ctx context.Context, table string) map[string]string {
	for _, src := range c {
		if types := src.ColumnTypes(ctx, table); len(types) > 0 {
			return types
		}
	}
	return map[string]string{}
}
