package rubric

import (
	"embed"
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed tables/*.yaml
var tableFS embed.FS

// builtin is the rubric decoded from the embedded tables
var builtin *Rubric

func init() {
	r, err := loadEmbedded()
	if err != nil {
		panic(fmt.Sprintf("rubric: embedded tables: %v", err))
	}
	builtin = r
}

// Default returns the built-in rubric.
func Default() *Rubric {
	return builtin
}

// loadEmbedded decodes every embedded table file, in name order, into one
// Rubric.
func loadEmbedded() (*Rubric, error) {
	entries, err := tableFS.ReadDir("tables")
	if err != nil {
		return nil, err
	}

	r := &Rubric{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		data, err := tableFS.ReadFile(path.Join("tables", entry.Name()))
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, r); err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
	}

	r.applyDefaults()
	return r, nil
}

// LoadFile loads the built-in tables and overlays the tables found in the
// YAML file at path. Top-level tables present in the file replace the
// built-in ones; evidence kinds are replaced per kind.
func LoadFile(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rubric: %w", err)
	}
	return Parse(data)
}

// Parse is LoadFile for in-memory YAML.
func Parse(data []byte) (*Rubric, error) {
	r, err := loadEmbedded()
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parsing rubric: %w", err)
	}

	r.applyDefaults()
	return r, nil
}

func (r *Rubric) applyDefaults() {
	if r.Filler.MinFragment <= 0 {
		r.Filler.MinFragment = 15
	}
	if r.Filler.Cap <= 0 {
		r.Filler.Cap = 3.0
	}
}
