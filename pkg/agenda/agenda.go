// SPDX-License-Identifier: MPL-2.0

package agenda

// wildcard is the implicit clause of an agenda without a matcher.
var wildcard = Clause{}

// Agenda is a compiled, immutable agenda: matcher clauses plus an ordered
// topic map, with every `extends` already flattened in. Accessors return
// copies; an Agenda is safe for concurrent use.
type Agenda struct {
	name    string
	path    string
	matcher []Clause
	topics  *Topics
}

// FromDefinition builds an Agenda directly from a definition, ignoring its
// Extends field. Compile uses it for definitions without a parent and for the
// result of every merge.
func FromDefinition(def *Definition) *Agenda {
	return &Agenda{
		name:    def.Name,
		path:    def.Path,
		matcher: cloneClauses(def.Matcher),
		topics:  cloneTopics(def.Topics),
	}
}

// Name returns the agenda's name, empty for anonymous agendas.
func (a *Agenda) Name() string { return a.name }

// Path returns the file the agenda's own definition was loaded from.
func (a *Agenda) Path() string { return a.path }

// Label returns the name, or the file base name for anonymous agendas.
func (a *Agenda) Label() string {
	return (&Definition{Name: a.name, Path: a.path}).Label()
}

// Matcher returns the declared clauses. An empty result means the agenda
// matches every ship through one implicit wildcard clause.
func (a *Agenda) Matcher() []Clause {
	if len(a.matcher) == 0 {
		return []Clause{}
	}
	return cloneClauses(a.matcher)
}

// Matches returns the clauses that ship satisfies, in matcher order. An
// agenda without clauses yields the single implicit wildcard clause.
func (a *Agenda) Matches(ship Ship) []Clause {
	if len(a.matcher) == 0 {
		return []Clause{wildcard}
	}
	var matched []Clause
	for _, c := range a.matcher {
		if c.MatchedBy(ship) {
			matched = append(matched, c.clone())
		}
	}
	return matched
}

// TopicNames returns the topic keys in compiled order.
func (a *Agenda) TopicNames() []string {
	return topicNames(a.topics)
}

// Topic returns a copy of the options of one topic.
func (a *Agenda) Topic(name string) (Options, bool) {
	opts, ok := lookupTopic(a.topics, name)
	if !ok {
		return nil, false
	}
	return cloneOptions(opts), true
}
