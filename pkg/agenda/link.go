// SPDX-License-Identifier: MPL-2.0

package agenda

// noParent marks a definition without `extends` in Linked.
const noParent = -1

type (
	// Index maps definition names to their position in a global definition
	// list. When several definitions share a name the first one wins, so a
	// higher-precedence source shadows a lower one.
	Index struct {
		byName map[string]int
	}

	// Linked is the result of resolving every `extends` reference of a global
	// definition list. Parents are recorded as indices into the list instead
	// of rewriting the definitions, so the same Definition values can be
	// shared by several Linked sets.
	Linked struct {
		defs   []*Definition
		parent []int
	}
)

// NewIndex indexes the named definitions of defs.
func NewIndex(defs []*Definition) *Index {
	byName := make(map[string]int, len(defs))
	for i, def := range defs {
		if def.Name == "" {
			continue
		}
		if _, exists := byName[def.Name]; exists {
			continue
		}
		byName[def.Name] = i
	}
	return &Index{byName: byName}
}

// Lookup returns the position of the definition called name.
func (x *Index) Lookup(name string) (int, bool) {
	i, ok := x.byName[name]
	return i, ok
}

// Resolve returns the parent index of def, or noParent when def has no
// `extends`. A name that is not indexed is a DanglingReferenceError.
func (x *Index) Resolve(def *Definition) (int, error) {
	if def.Extends == "" {
		return noParent, nil
	}
	i, ok := x.Lookup(def.Extends)
	if !ok {
		return noParent, &DanglingReferenceError{Name: def.Extends, From: def.Path}
	}
	return i, nil
}

// Link resolves the `extends` reference of every definition against the
// whole list. defs must already hold the definitions of every source so that
// references may cross source boundaries in either direction.
func Link(defs []*Definition) (*Linked, error) {
	index := NewIndex(defs)
	parent := make([]int, len(defs))
	for i, def := range defs {
		p, err := index.Resolve(def)
		if err != nil {
			return nil, err
		}
		parent[i] = p
	}
	return &Linked{defs: defs, parent: parent}, nil
}

// Len returns the number of linked definitions.
func (l *Linked) Len() int { return len(l.defs) }

// Definition returns the i-th definition.
func (l *Linked) Definition(i int) *Definition { return l.defs[i] }

// Parent returns the index of the i-th definition's parent.
func (l *Linked) Parent(i int) (int, bool) {
	p := l.parent[i]
	return p, p != noParent
}
