// SPDX-License-Identifier: MPL-2.0

package agenda

import (
	"maps"
	"path/filepath"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type (
	// Options is the free-form option mapping of one topic. It is passed
	// through to the topic renderer without interpretation.
	Options map[string]any

	// Topics is an ordered mapping of topic name to its options. Declaration
	// order is significant: it is the order topics are rendered in.
	Topics = orderedmap.OrderedMap[string, Options]

	// Definition is one decoded definition file, before inheritance is
	// resolved.
	//
	// Matcher follows the nil convention used by Clause: a nil Matcher means
	// the file did not declare one (it is inherited through extends), while a
	// non-nil empty Matcher is declared and overrides the parent's.
	Definition struct {
		// Name identifies the definition for `extends`. Optional.
		Name string
		// Extends names the parent definition. Empty means no parent.
		Extends string
		// Matcher is the list of alternative clauses (ORed).
		Matcher []Clause
		// Topics holds the topics in declaration order. May be nil.
		Topics *Topics
		// Path is the file the definition was decoded from.
		Path string
	}
)

// NewTopics returns an empty Topics map.
func NewTopics() *Topics {
	return orderedmap.New[string, Options]()
}

// Label returns a human-readable identifier for diagnostics: the name when
// set, otherwise the file's base name.
func (d *Definition) Label() string {
	if d.Name != "" {
		return d.Name
	}
	if d.Path != "" {
		return filepath.Base(d.Path)
	}
	return "<anonymous>"
}

// DeclaresMatcher reports whether the definition declares its own matcher.
func (d *Definition) DeclaresMatcher() bool {
	return d.Matcher != nil
}

// topicNames returns the keys of t in order. A nil map has no keys.
func topicNames(t *Topics) []string {
	if t == nil {
		return []string{}
	}
	names := make([]string, 0, t.Len())
	for pair := t.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// lookupTopic is Topics.Get tolerant of a nil map.
func lookupTopic(t *Topics, name string) (Options, bool) {
	if t == nil {
		return nil, false
	}
	return t.Get(name)
}

// cloneOptions copies the top level of an option map. Nested values are
// shared; compiled agendas never mutate them.
func cloneOptions(o Options) Options {
	if o == nil {
		return Options{}
	}
	return maps.Clone(o)
}

// cloneTopics copies t preserving order.
func cloneTopics(t *Topics) *Topics {
	out := NewTopics()
	if t == nil {
		return out
	}
	for pair := t.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, cloneOptions(pair.Value))
	}
	return out
}
