package mapping

import (
	"embed"
	"path"
	"slices"
	"sync"

	"github.com/fishresearch/trapdb/pkg/sample"
	"gopkg.in/yaml.v3"
)

// Names of built-in tables.
const (
	LegacyToIntermediate = "legacy-to-intermediate"
	IntermediateToMerged = "intermediate-to-merged"
	LegacyToMerged       = "legacy-to-merged"
)

//go:embed tables/*.yaml
var tablesFS embed.FS

// tableFile is the YAML layout of a mapping table.
type tableFile struct {
	Name    string  `yaml:"name"`
	Version int     `yaml:"version"`
	From    string  `yaml:"from"`
	To      string  `yaml:"to"`
	Entries []Entry `yaml:"entries"`
}

// Parse reads a mapping table from YAML and validates it.
func Parse(data []byte) (*Table, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, ParseError(tf.Name, err)
	}
	from, err := sample.ParseGeneration(tf.From)
	if err != nil {
		return nil, ParseError(tf.Name, err)
	}
	to, err := sample.ParseGeneration(tf.To)
	if err != nil {
		return nil, ParseError(tf.Name, err)
	}
	return New(tf.Name, tf.Version, from, to, tf.Entries)
}

var builtin = sync.OnceValues(loadBuiltin)

func loadBuiltin() (map[string]*Table, error) {
	files, err := tablesFS.ReadDir("tables")
	if err != nil {
		return nil, ParseError("tables", err)
	}

	res := make(map[string]*Table)
	for _, f := range files {
		data, err := tablesFS.ReadFile(path.Join("tables", f.Name()))
		if err != nil {
			return nil, ParseError(f.Name(), err)
		}
		t, err := Parse(data)
		if err != nil {
			return nil, err
		}
		res[t.Name] = t
	}

	l2i, ok := res[LegacyToIntermediate]
	if !ok {
		return nil, UnknownTableError(LegacyToIntermediate)
	}
	i2m, ok := res[IntermediateToMerged]
	if !ok {
		return nil, UnknownTableError(IntermediateToMerged)
	}
	l2m, err := Compose(LegacyToMerged, l2i, i2m)
	if err != nil {
		return nil, err
	}
	res[l2m.Name] = l2m
	return res, nil
}

// Get returns a built-in table by name.
func Get(name string) (*Table, error) {
	tables, err := builtin()
	if err != nil {
		return nil, err
	}
	res, ok := tables[name]
	if !ok {
		return nil, UnknownTableError(name)
	}
	return res, nil
}

// Names returns sorted names of built-in tables.
func Names() ([]string, error) {
	tables, err := builtin()
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(tables))
	for k := range tables {
		res = append(res, k)
	}
	slices.Sort(res)
	return res, nil
}

// Find returns the built-in table that converts between two
// generations.
func Find(from, to sample.Generation) (*Table, error) {
	tables, err := builtin()
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if t.From == from && t.To == to {
			return t, nil
		}
	}
	return nil, UnknownTableError(from.String() + "-to-" + to.String())
}
