package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// loadVars reads path as either JSON or YAML (by extension, defaulting to
// YAML) into the map RenderToString expects as template variables. An empty
// path yields an empty context.
func loadVars(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading context file %s: %w", path, err)
	}

	vars := map[string]any{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &vars); err != nil {
			return nil, fmt.Errorf("parsing %s as JSON: %w", path, err)
		}
		return vars, nil
	}
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("parsing %s as YAML: %w", path, err)
	}
	return vars, nil
}
