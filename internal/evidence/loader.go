package evidence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// file is the document form of an evidence file: either a bare list of
// items or a mapping with an items key.
type file struct {
	Items []Item `yaml:"items"`
}

// LoadFile reads evidence items from a YAML or JSON file
func LoadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read evidence: %w", err)
	}
	items, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse evidence %s: %w", path, err)
	}
	return items, nil
}

// Parse decodes evidence items. Kinds are normalised but not validated;
// unknown kinds are reported by the scorer.
func Parse(data []byte) ([]Item, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var items []Item
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&items); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var f file
		if err := root.Decode(&f); err != nil {
			return nil, err
		}
		items = f.Items
	default:
		return nil, fmt.Errorf("line %d: expected a list of evidence items", root.Line)
	}

	for i := range items {
		items[i].Kind = items[i].Kind.Normalize()
	}
	return items, nil
}
