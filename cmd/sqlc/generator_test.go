package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

const baseYAML = `
version: "2"
sql:
  - engine: postgresql
    schema: migrations
    source:
      - %s
    gen:
      go:
        sql_package: pgx/v5
        emit_methods_with_db_argument: true
`

func newBase(t *testing.T, source string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(strings.Replace(baseYAML, "%s", source, 1))))
	return v
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	queries := filepath.Join(dir, "symbol_store", "service", "pg", "sql")
	require.NoError(t, os.MkdirAll(queries, 0o755))
	file := filepath.Join(queries, "symbols.sql")
	require.NoError(t, os.WriteFile(file, []byte("-- name: ListSymbols :many\n"), 0o644))

	g, err := loadGenerator(newBase(t, filepath.Join(dir, "*", "service", "pg", "sql", "*.sql")))
	require.NoError(t, err)

	files, err := g.queryFiles()
	require.NoError(t, err)
	require.Equal(t, []string{file}, files)

	content, err := g.render(file)
	require.NoError(t, err)

	var out struct {
		Version string `yaml:"version"`
		SQL     []struct {
			Engine  string `yaml:"engine"`
			Schema  string `yaml:"schema"`
			Queries string `yaml:"queries"`
			Source  any    `yaml:"source"`
			Gen     struct {
				Go struct {
					Package    string `yaml:"package"`
					Out        string `yaml:"out"`
					SQLPackage string `yaml:"sql_package"`
				} `yaml:"go"`
			} `yaml:"gen"`
		} `yaml:"sql"`
	}
	require.NoError(t, yaml.Unmarshal(content, &out))

	assert.Equal(t, "2", out.Version)
	require.Len(t, out.SQL, 1)
	assert.Equal(t, "postgresql", out.SQL[0].Engine)
	assert.Equal(t, "migrations", out.SQL[0].Schema)
	assert.Equal(t, file, out.SQL[0].Queries)
	assert.Nil(t, out.SQL[0].Source)
	assert.Equal(t, "sql", out.SQL[0].Gen.Go.Package)
	assert.Equal(t, queries, out.SQL[0].Gen.Go.Out)
	assert.Equal(t, "pgx/v5", out.SQL[0].Gen.Go.SQLPackage)
}

func TestLoadGeneratorWithoutSource(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("version: \"2\"\n")))

	_, err := loadGenerator(v)
	require.Error(t, err)
}
