package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// readDocument loads a JSON or YAML file and returns it as JSON. YAML is
// picked by extension.
func readDocument(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		out, err := json.Marshal(normalizeYAML(doc))
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s to JSON: %w", path, err)
		}
		return out, nil
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("failed to parse %s: invalid JSON", path)
		}
		return data, nil
	}
}

// readData loads a document that must be an object.
func readData(path string) (map[string]interface{}, error) {
	raw, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%s must contain an object: %w", path, err)
	}
	return data, nil
}

// normalizeYAML turns map[interface{}]interface{} nodes into string-keyed
// maps so the result can be encoded as JSON.
func normalizeYAML(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case []interface{}:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	default:
		return v
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
