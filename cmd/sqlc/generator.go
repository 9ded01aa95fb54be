package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// generator раскладывает общий .sqlc.base.yaml на отдельный sqlc-конфиг под каждый файл запросов,
// чтобы пакет генерировался рядом с .sql
type generator struct {
	version string
	schema  string
	sources []string
	engine  *viper.Viper
}

func loadGenerator(base *viper.Viper) (*generator, error) {
	sources := base.GetStringSlice("sql.0.source")
	if len(sources) == 0 {
		return nil, errors.New("has no sql.0.source in config")
	}
	engine := base.Sub("sql.0")
	if engine == nil {
		return nil, errors.New("has no sql.0 section in config")
	}
	return &generator{
		version: base.GetString("version"),
		schema:  base.GetString("sql.0.schema"),
		sources: sources,
		engine:  engine,
	}, nil
}

// queryFiles раскрывает glob-и из source, без дублей и в стабильном порядке
func (g *generator) queryFiles() ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	for _, pattern := range g.sources {
		matched, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "glob %q", pattern)
		}
		for _, f := range matched {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	sort.Strings(files)
	return files, nil
}

// render собирает sqlc-конфиг для одного файла: пакет = имя каталога файла
func (g *generator) render(file string) ([]byte, error) {
	dir := filepath.Dir(file)

	settings := viper.New()
	for _, key := range g.engine.AllKeys() {
		if key == "source" {
			continue
		}
		settings.Set(key, g.engine.Get(key))
	}
	settings.Set("schema", g.schema)
	settings.Set("queries", file)
	settings.Set("gen.go.package", filepath.Base(dir))
	settings.Set("gen.go.out", dir)

	result := map[string]interface{}{
		"version": g.version,
		"sql":     []interface{}{settings.AllSettings()},
	}
	bs, err := yaml.Marshal(result)
	if err != nil {
		return nil, errors.Wrap(err, "marshal config to yaml")
	}
	return bs, nil
}

func writeConfig(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func callSqlc(config string) error {
	cmd := exec.Command("sqlc", "generate", "--file", config)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("call sqlc: %s", string(output)))
	}
	return nil
}
