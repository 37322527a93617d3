package merge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const softwareApplicationType = "sc:SoftwareApplication"

// parseDocument reads and decodes a source file into a generic document
// tree. YAML and JSON are selected by extension.
func parseDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source file: %w", err)
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json", ".jsonld":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported extension %q", filepath.Ext(path))
	}
	return doc, nil
}

// Resolve walks a path through the document tree. String elements are
// map lookups, int elements are list indices. When a string key is
// applied to a list, the walk descends into the first element. The
// second return is false when any step fails or the final value is nil.
func Resolve(doc any, path Path) (any, bool) {
	node := doc
	for _, elem := range path {
		switch step := elem.(type) {
		case int:
			list, ok := node.([]any)
			if !ok || step < 0 || step >= len(list) {
				return nil, false
			}
			node = list[step]
		case string:
			if list, ok := node.([]any); ok {
				if len(list) == 0 {
					return nil, false
				}
				node = list[0]
			}
			obj, ok := node.(map[string]any)
			if !ok {
				return nil, false
			}
			value, present := obj[step]
			if !present {
				return nil, false
			}
			node = value
		default:
			return nil, false
		}
	}
	if node == nil {
		return nil, false
	}
	return node, true
}

// extract applies a mapping table to a source document, returning
// resolved fields only. Fields whose path does not resolve are omitted;
// grouped mappings that resolve no children are omitted entirely.
func extract(doc any, mappings []Mapping) map[string]any {
	fields := make(map[string]any)
	for _, mapping := range mappings {
		if len(mapping.Group) > 0 {
			group := extract(doc, mapping.Group)
			if len(group) > 0 {
				fields[mapping.Field] = group
			}
			continue
		}
		if value, ok := Resolve(doc, mapping.Path); ok {
			fields[mapping.Field] = value
		}
	}
	return fields
}

// softwareApplication locates the SoftwareApplication entry inside a
// bioschemas @graph. Absent graph or entry means the bioschemas source
// contributes nothing.
func softwareApplication(doc any) (any, bool) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, false
	}
	graph, ok := obj["@graph"].([]any)
	if !ok {
		return nil, false
	}
	for _, entry := range graph {
		node, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if node["@type"] == softwareApplicationType {
			return node, true
		}
	}
	return nil, false
}
