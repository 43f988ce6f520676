// SPDX-License-Identifier: MPL-2.0

package agenda

import (
	"fmt"
	"math"
	"sort"
)

// Clause keys accepted in definition files.
const (
	keyShips   = "ships"
	keyClasses = "classes"
	keyTiers   = "tiers"
	keyNations = "nations"
	keyHas     = "has"
)

// document is the format-neutral shape every decoder produces before it is
// checked and turned into a Definition. Scalar fields stay untyped so type
// errors can be reported with the file and field they occur in.
type document struct {
	Name    any     `json:"name" yaml:"name"`
	Extends any     `json:"extends" yaml:"extends"`
	Matcher any     `json:"matcher" yaml:"matcher"`
	Topics  *Topics `json:"topics" yaml:"topics"`
}

// definition validates doc and converts it into a Definition.
func (doc *document) definition(path string) (*Definition, error) {
	def := &Definition{Path: path}

	name, err := optionalString(doc.Name)
	if err != nil {
		return nil, &FormatError{Path: path, Field: "name", Err: err}
	}
	def.Name = name

	extends, err := optionalString(doc.Extends)
	if err != nil {
		return nil, &FormatError{Path: path, Field: "extends", Err: err}
	}
	def.Extends = extends

	matcher, err := decodeMatcher(path, doc.Matcher)
	if err != nil {
		return nil, err
	}
	def.Matcher = matcher

	def.Topics = NewTopics()
	if doc.Topics != nil {
		for pair := doc.Topics.Oldest(); pair != nil; pair = pair.Next() {
			def.Topics.Set(pair.Key, cloneOptions(pair.Value))
		}
	}

	return def, nil
}

func optionalString(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

// decodeMatcher accepts a single clause mapping or a list of them. A missing
// matcher decodes to nil (undeclared); an empty list to a non-nil empty slice.
func decodeMatcher(path string, raw any) ([]Clause, error) {
	switch m := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		c, err := decodeClause(path, "matcher", m)
		if err != nil {
			return nil, err
		}
		return []Clause{c}, nil
	case []any:
		clauses := make([]Clause, 0, len(m))
		for i, item := range m {
			field := fmt.Sprintf("matcher[%d]", i)
			fields, ok := item.(map[string]any)
			if !ok {
				return nil, formatErrorf(path, field, "expected mapping, got %T", item)
			}
			c, err := decodeClause(path, field, fields)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, c)
		}
		return clauses, nil
	default:
		return nil, formatErrorf(path, "matcher", "expected mapping or list, got %T", raw)
	}
}

func decodeClause(path, field string, fields map[string]any) (Clause, error) {
	var c Clause

	// Sorted for deterministic error reporting.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := fields[key]
		keyField := field + "." + key
		var err error
		switch key {
		case keyShips:
			c.Ships, err = stringSet(value)
		case keyClasses:
			c.Classes, err = stringSet(value)
		case keyNations:
			c.Nations, err = stringSet(value)
		case keyTiers:
			c.Tiers, err = intSet(value)
		case keyHas:
			if s, ok := value.(string); ok {
				c.Has = []string{s}
				c.HasScalar = true
				continue
			}
			c.Has, err = stringSet(value)
		default:
			return Clause{}, formatErrorf(path, keyField, "unknown clause key")
		}
		if err != nil {
			return Clause{}, &FormatError{Path: path, Field: keyField, Err: err}
		}
	}
	return c, nil
}

// stringSet converts a decoded list into a non-nil string slice.
func stringSet(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", v)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d: expected string, got %T", i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// intSet converts a decoded list into a non-nil int slice. Decoders disagree
// on the numeric type (YAML int, TOML and CUE int64, JSON float64), so every
// integral representation is accepted.
func intSet(v any) ([]int, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", v)
	}
	out := make([]int, 0, len(items))
	for i, item := range items {
		n, ok := toInt(item)
		if !ok {
			return nil, fmt.Errorf("element %d: expected integer, got %v", i, item)
		}
		out = append(out, n)
	}
	return out, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
