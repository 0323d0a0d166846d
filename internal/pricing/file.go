package pricing

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type fileLine struct {
	Sizes []SizePrice `yaml:"sizes"`
}

type fileTable struct {
	Lines   map[string]fileLine `yaml:"lines"`
	Order   []string            `yaml:"order"`
	Flavors []string            `yaml:"flavors"`
}

// Load returns the default table when path is empty, otherwise the table
// described by the YAML file at path.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing file: %w", err)
	}
	return Parse(raw)
}

// Parse builds a table from YAML. Flavors fall back to the built-in list.
func Parse(raw []byte) (*Table, error) {
	var ft fileTable
	if err := yaml.Unmarshal(raw, &ft); err != nil {
		return nil, fmt.Errorf("parse pricing file: %w", err)
	}
	if len(ft.Lines) == 0 {
		return nil, errors.New("pricing file defines no lines")
	}

	t := &Table{lines: make(map[string][]SizePrice, len(ft.Lines))}
	for name, l := range ft.Lines {
		code := CanonicalLine(name)
		if len(l.Sizes) == 0 {
			return nil, fmt.Errorf("line %q has no sizes", name)
		}
		for _, sp := range l.Sizes {
			if sp.Size == "" || sp.Price <= 0 || sp.Price > MaxUnitPrice {
				return nil, fmt.Errorf("line %q: invalid size entry %+v", name, sp)
			}
		}
		t.lines[code] = l.Sizes
	}

	if len(ft.Order) > 0 {
		for _, name := range ft.Order {
			code := CanonicalLine(name)
			if _, ok := t.lines[code]; !ok {
				return nil, fmt.Errorf("order lists unknown line %q", name)
			}
			t.order = append(t.order, code)
		}
	} else {
		for code := range t.lines {
			t.order = append(t.order, code)
		}
		sort.Strings(t.order)
	}

	t.flavors = ft.Flavors
	if len(t.flavors) == 0 {
		t.flavors = append([]string(nil), defaultFlavors...)
	}
	return t, nil
}
