// SPDX-License-Identifier: MPL-2.0

package agenda

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/wows-briefing/briefing/pkg/cueutil"

	"cuelang.org/go/cue"
	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

//go:embed agenda_schema.cue
var agendaSchema []byte

type (
	// Decoder turns the bytes of one definition file into a Definition.
	// Decoders must preserve topic declaration order.
	Decoder interface {
		Decode(path string, data []byte) (*Definition, error)
	}

	// DecoderFunc adapts a function to the Decoder interface.
	DecoderFunc func(path string, data []byte) (*Definition, error)
)

// Decode calls f.
func (f DecoderFunc) Decode(path string, data []byte) (*Definition, error) {
	return f(path, data)
}

// DefaultDecoders returns the decoder registry keyed by lower-case file
// extension (with the leading dot).
func DefaultDecoders() map[string]Decoder {
	return map[string]Decoder{
		".yaml":  DecoderFunc(DecodeYAML),
		".yml":   DecoderFunc(DecodeYAML),
		".json":  DecoderFunc(DecodeJSON),
		".jsonc": DecoderFunc(DecodeJSON),
		".toml":  DecoderFunc(DecodeTOML),
		".cue":   DecoderFunc(DecodeCUE),
	}
}

// DecodeYAML decodes a YAML definition. An empty document is an empty
// definition.
func DecodeYAML(path string, data []byte) (*Definition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	return doc.definition(path)
}

// DecodeJSON decodes a JSON definition. Comments and trailing commas are
// accepted so hand-edited files stay readable.
func DecodeJSON(path string, data []byte) (*Definition, error) {
	var doc document
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	return doc.definition(path)
}

// DecodeTOML decodes a TOML definition. go-toml decodes tables into plain
// maps, so topic order is recovered from a second pass over the document's
// expressions.
func DecodeTOML(path string, data []byte) (*Definition, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}

	doc := document{
		Name:    raw["name"],
		Extends: raw["extends"],
		Matcher: raw["matcher"],
	}

	if rawTopics, ok := raw["topics"]; ok {
		topics, isTable := rawTopics.(map[string]any)
		if !isTable {
			return nil, formatErrorf(path, "topics", "expected table, got %T", rawTopics)
		}
		order, err := tomlTopicOrder(data)
		if err != nil {
			return nil, &FormatError{Path: path, Err: err}
		}
		doc.Topics = NewTopics()
		for _, name := range order {
			value, ok := topics[name]
			if !ok {
				continue
			}
			opts, isTable := value.(map[string]any)
			if !isTable {
				return nil, formatErrorf(path, "topics."+name, "expected table, got %T", value)
			}
			doc.Topics.Set(name, opts)
		}
	}

	return doc.definition(path)
}

// tomlTopicOrder lists the keys of the top-level `topics` table in the order
// they first appear, whether declared as [topics.x] headers, dotted keys or
// an inline table.
func tomlTopicOrder(data []byte) ([]string, error) {
	var (
		p     unstable.Parser
		table []string
		seen  = make(map[string]bool)
		order []string
	)
	note := func(name string) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}

	p.Reset(data)
	for p.NextExpression() {
		expr := p.Expression()
		var key []string
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = tomlKey(expr.Key())
			key = table
		case unstable.KeyValue:
			key = append(slices.Clone(table), tomlKey(expr.Key())...)
			if len(key) == 1 && key[0] == "topics" && expr.Value().Kind == unstable.InlineTable {
				children := expr.Value().Children()
				for children.Next() {
					child := children.Node()
					if child.Kind != unstable.KeyValue {
						continue
					}
					if inner := tomlKey(child.Key()); len(inner) > 0 {
						note(inner[0])
					}
				}
			}
		default:
			continue
		}
		if len(key) >= 2 && key[0] == "topics" {
			note(key[1])
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return order, nil
}

func tomlKey(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

// DecodeCUE decodes a CUE definition, validated against the #Agenda schema.
// Topic order follows the field order of the unified value.
func DecodeCUE(path string, data []byte) (*Definition, error) {
	value, err := cueutil.CompileAndUnify(agendaSchema, data, "#Agenda", cueutil.WithFilename(path))
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}

	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return nil, &FormatError{Path: path, Err: cueutil.FormatError(err, path)}
	}

	doc := document{
		Name:    raw["name"],
		Extends: raw["extends"],
		Matcher: raw["matcher"],
	}

	topicsValue := value.LookupPath(cue.ParsePath("topics"))
	if topicsValue.Exists() {
		fields, err := topicsValue.Fields()
		if err != nil {
			return nil, &FormatError{Path: path, Field: "topics", Err: cueutil.FormatError(err, path)}
		}
		doc.Topics = NewTopics()
		for fields.Next() {
			var opts Options
			if err := fields.Value().Decode(&opts); err != nil {
				return nil, &FormatError{Path: path, Err: cueutil.FormatError(err, path)}
			}
			doc.Topics.Set(fields.Selector().Unquoted(), opts)
		}
	}

	return doc.definition(path)
}

// decodeFile dispatches data to the decoder registered for ext.
func decodeFile(decoders map[string]Decoder, ext, path string, data []byte) (*Definition, error) {
	decoder, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("no decoder for %q", ext)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &Definition{Path: path, Topics: NewTopics()}, nil
	}
	def, err := decoder.Decode(path, data)
	if err != nil {
		var formatErr *FormatError
		if errors.As(err, &formatErr) {
			return nil, err
		}
		return nil, &FormatError{Path: path, Err: err}
	}
	if def.Path == "" {
		def.Path = path
	}
	return def, nil
}
