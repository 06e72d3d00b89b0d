package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
repository:
  path: /work/db
  default_database: ThisDB
output:
  file: deps.sql
databases:
  - name: dev
    driver: sqlserver
    dsn: sqlserver://sa:pw@localhost?database=ThisDB
    active: true
  - name: prod
    driver: sqlserver
    dsn: sqlserver://prod
`

func readSample(t *testing.T, text string) *Config {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(text)))
	cfg, err := loadConfig(v)
	require.NoError(t, err)
	return cfg
}

func TestLoadConfig(t *testing.T) {
	cfg := readSample(t, sampleConfig)

	assert.Equal(t, "/work/db", cfg.Repository.Path)
	assert.Equal(t, "ThisDB", cfg.Repository.DefaultDatabase)
	assert.Equal(t, "dbo", cfg.Repository.DefaultSchema)
	assert.Equal(t, "deps.sql", cfg.Output.File)

	db, err := cfg.ActiveDatabase()
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.Equal(t, "dev", db.Name)
}

func TestActiveDatabase(t *testing.T) {
	cfg := &Config{}
	db, err := cfg.ActiveDatabase()
	assert.NoError(t, err)
	assert.Nil(t, db)

	cfg.Databases = []DBConfig{{Name: "a", DSN: "x", Active: true}, {Name: "b", DSN: "y", Active: true}}
	_, err = cfg.ActiveDatabase()
	assert.Error(t, err)

	cfg.Database = DBConfig{Driver: "postgres", DSN: "postgres://flag"}
	db, err = cfg.ActiveDatabase()
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag", db.DSN)
	assert.Equal(t, "CLI Wrapper", db.Name)

	cfg = &Config{Databases: []DBConfig{{Name: "nodsn", Active: true}}}
	_, err = cfg.ActiveDatabase()
	assert.Error(t, err)
}
