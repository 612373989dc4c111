package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// detectUnknownFields compares raw YAML with known struct fields and
// returns a warning per unrecognized key. Unknown keys are ignored by
// decoding, so a typo like "tolerence" would otherwise silently fall
// back to the default.
func detectUnknownFields(data []byte) []string {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// The data was already parsed successfully; surface the
		// inconsistency rather than silently skipping detection.
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	var warnings []string
	known := yamlFields(reflect.TypeOf(Config{}))
	for _, key := range sortedKeys(raw) {
		if !known[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
		}
	}

	sections := []struct {
		name string
		typ  reflect.Type
	}{
		{"solver", reflect.TypeOf(SolverConfig{})},
		{"matrix", reflect.TypeOf(MatrixConfig{})},
		{"results", reflect.TypeOf(ResultsConfig{})},
	}
	for _, section := range sections {
		node, ok := raw[section.name]
		if !ok {
			continue
		}
		warnings = append(warnings, checkSectionUnknownFields(section.name, node, section.typ)...)
	}

	return warnings
}

func checkSectionUnknownFields(section string, node yaml.Node, typ reflect.Type) []string {
	var fields map[string]yaml.Node
	if err := node.Decode(&fields); err != nil {
		return nil
	}

	var warnings []string
	known := yamlFields(typ)
	for _, key := range sortedKeys(fields) {
		if !known[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q in %s (ignored)", key, section))
		}
	}
	return warnings
}

// sortedKeys keeps warning order stable; map iteration would reshuffle
// the log between otherwise identical runs.
func sortedKeys(m map[string]yaml.Node) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// yamlFields returns a map of known YAML field names for a struct type.
func yamlFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		fields[name] = true
	}
	return fields
}
