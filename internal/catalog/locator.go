package catalog

import (
	"path/filepath"

	"sp-depends/internal/schema"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Locator maps table identifiers onto the script repository layout
// <root>/<database>/<schema>/Tables/<schema>.<table>.sql.
type Locator struct {
	Fs              afero.Fs
	Root            string
	DefaultDatabase string
	DefaultSchema   string
}

func NewLocator(fs afero.Fs, root, defaultDatabase, defaultSchema string) *Locator {
	if defaultSchema == "" {
		defaultSchema = schema.DefaultSchema
	}
	return &Locator{Fs: fs, Root: root, DefaultDatabase: defaultDatabase, DefaultSchema: defaultSchema}
}

// Path returns where the definition script of table is expected to live.
func (l *Locator) Path(table string) string {
	name := schema.ParseTableName(table, l.DefaultDatabase, l.DefaultSchema)
	return filepath.Join(l.Root, name.Database, name.Schema, "Tables", name.Schema+"."+name.Table+".sql")
}

// Find probes the expected script path. A miss is not an error: it is
// logged and reported as ok == false.
func (l *Locator) Find(table string) (string, bool) {
	path := l.Path(table)
	logrus.WithField("table", table).Debugf("Looking for script at: %s", path)

	info, err := l.Fs.Stat(path)
	if err != nil || info.IsDir() {
		logrus.WithField("table", table).Warnf("Table script not found at %s", path)
		return "", false
	}
	return path, true
}
