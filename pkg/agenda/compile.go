// SPDX-License-Identifier: MPL-2.0

package agenda

import "slices"

// Compiler flattens extension chains of a Linked set into Agendas.
//
// Results are memoised per definition, so a parent shared by many children
// is merged once. A Compiler is not safe for concurrent use.
type Compiler struct {
	linked   *Linked
	resolved map[int]*Definition
	// path is the chain of definitions currently being resolved, outermost
	// first. Re-entering one of them is a cycle.
	path []int
}

// NewCompiler returns a Compiler over linked.
func NewCompiler(linked *Linked) *Compiler {
	return &Compiler{
		linked:   linked,
		resolved: make(map[int]*Definition, linked.Len()),
	}
}

// Compile returns the flattened Agenda of the i-th linked definition.
func (c *Compiler) Compile(i int) (*Agenda, error) {
	def, err := c.resolve(i)
	if err != nil {
		return nil, err
	}
	return FromDefinition(def), nil
}

// CompileAll compiles every linked definition, in list order.
func (c *Compiler) CompileAll() ([]*Agenda, error) {
	agendas := make([]*Agenda, 0, c.linked.Len())
	for i := range c.linked.Len() {
		a, err := c.Compile(i)
		if err != nil {
			return nil, err
		}
		agendas = append(agendas, a)
	}
	return agendas, nil
}

// resolve returns the i-th definition with its whole parent chain merged in.
// Parents resolve fully before the child merges onto them.
func (c *Compiler) resolve(i int) (*Definition, error) {
	if def, ok := c.resolved[i]; ok {
		return def, nil
	}
	if slices.Contains(c.path, i) {
		return nil, c.cycle(i)
	}

	def := c.linked.Definition(i)
	parent, ok := c.linked.Parent(i)
	if !ok {
		c.resolved[i] = def
		return def, nil
	}

	c.path = append(c.path, i)
	base, err := c.resolve(parent)
	c.path = c.path[:len(c.path)-1]
	if err != nil {
		return nil, err
	}

	merged := Extend(def, base)
	c.resolved[i] = merged
	return merged, nil
}

// cycle builds the error for re-entering i, listing the chain from the first
// visit of i back to i.
func (c *Compiler) cycle(i int) *CircularExtensionError {
	start := slices.Index(c.path, i)
	chain := make([]string, 0, len(c.path)-start+1)
	for _, j := range c.path[start:] {
		chain = append(chain, c.linked.Definition(j).Label())
	}
	chain = append(chain, c.linked.Definition(i).Label())
	return &CircularExtensionError{Chain: chain}
}

// Compile links defs among themselves and compiles every definition. It is a
// convenience for single-source callers; multi-source callers link the union
// of all sources and compile per source.
func Compile(defs []*Definition) ([]*Agenda, error) {
	linked, err := Link(defs)
	if err != nil {
		return nil, err
	}
	return NewCompiler(linked).CompileAll()
}
