package catalog_test

import (
	"path/filepath"
	"testing"

	"sp-depends/internal/catalog"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatorPath(t *testing.T) {
	l := catalog.NewLocator(afero.NewMemMapFs(), "/repo", "ThisDB", "")

	assert.Equal(t, filepath.Join("/repo", "Db", "Sales", "Tables", "Sales.Orders.sql"), l.Path("Db.Sales.Orders"))
	assert.Equal(t, filepath.Join("/repo", "ThisDB", "Sales", "Tables", "Sales.Orders.sql"), l.Path("Sales.Orders"))
	assert.Equal(t, filepath.Join("/repo", "ThisDB", "dbo", "Tables", "dbo.Orders.sql"), l.Path("Orders"))
	assert.Equal(t, filepath.Join("/repo", "Db", "dbo", "Tables", "dbo.Orders.sql"), l.Path("[Db].[dbo].[Orders]"))
}

func TestLocatorFind(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := filepath.Join("/repo", "Db", "dbo", "Tables", "dbo.Orders.sql")
	require.NoError(t, afero.WriteFile(fs, path, []byte("CREATE TABLE [dbo].[Orders] ([Id] INT)"), 0o644))
	l := catalog.NewLocator(fs, "/repo", "Db", "dbo")

	got, ok := l.Find("Orders")
	assert.True(t, ok)
	assert.Equal(t, path, got)

	_, ok = l.Find("Db.dbo.Missing")
	assert.False(t, ok)
}
