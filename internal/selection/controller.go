// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/wows-briefing/briefing/internal/fleet"
	"github.com/wows-briefing/briefing/pkg/agenda"

	"github.com/charmbracelet/log"
)

type (
	// Source is the compiled agendas of one source directory. Its position
	// among a Controller's sources is its precedence (0 is highest).
	Source struct {
		path    string
		agendas []*agenda.Agenda
	}

	// Controller chooses agendas across precedence-ordered sources. It is
	// built once by Create and never changes afterwards; rebuilding means
	// creating a new Controller. Choose is safe for concurrent use when the
	// chooser is.
	Controller struct {
		sources     []Source
		chooser     Chooser
		byName      map[string]*agenda.Agenda
		diagnostics []Diagnostic
	}

	// Option configures Create.
	Option func(*createOptions)

	createOptions struct {
		logger *log.Logger
		loader *agenda.Loader
	}
)

// WithLogger sets the logger used to report recovered sources and progress.
func WithLogger(logger *log.Logger) Option {
	return func(o *createOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLoader replaces the default definition loader.
func WithLoader(loader *agenda.Loader) Option {
	return func(o *createOptions) {
		if loader != nil {
			o.loader = loader
		}
	}
}

// Path returns the source directory.
func (s Source) Path() string { return s.path }

// Agendas returns the source's compiled agendas in load order.
func (s Source) Agendas() []*agenda.Agenda { return slices.Clone(s.agendas) }

// Len returns the number of agendas in the source.
func (s Source) Len() int { return len(s.agendas) }

// Create loads every source in paths (index 0 has the highest precedence),
// links `extends` references across all of them and compiles each source.
//
// A source directory that does not exist or cannot be read is treated as
// empty and reported through Diagnostics. Every other failure (a malformed
// file, a dangling reference, a cycle) aborts creation.
func Create(ctx context.Context, paths []string, chooser Chooser, opts ...Option) (*Controller, error) {
	if chooser == nil {
		return nil, &ConfigurationError{Reason: "controller requires a chooser"}
	}

	o := createOptions{
		logger: log.New(io.Discard),
		loader: agenda.NewLoader(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller{chooser: chooser}

	var (
		all    []*agenda.Definition
		counts = make([]int, len(paths))
	)
	for i, path := range paths {
		defs, err := o.loader.Load(ctx, path)
		if err != nil {
			if !sourceUnavailable(path, err) {
				return nil, fmt.Errorf("load source %s: %w", path, err)
			}
			severity := sourceSeverity(err)
			if severity == SeverityError {
				o.logger.Error("agenda source unreadable, treating as empty", "source", path, "err", err)
			} else {
				o.logger.Warn("agenda source unavailable, treating as empty", "source", path, "err", err)
			}
			c.diagnostics = append(c.diagnostics, Diagnostic{
				Severity: severity,
				Code:     CodeSourceUnavailable,
				Message:  fmt.Sprintf("agenda source %s is unavailable: %v", path, err),
				Path:     path,
				Cause:    err,
			})
			defs = nil
		}
		o.logger.Debug("loaded agenda source", "source", path, "definitions", len(defs))
		counts[i] = len(defs)
		all = append(all, defs...)
	}

	linked, err := agenda.Link(all)
	if err != nil {
		return nil, err
	}
	compiler := agenda.NewCompiler(linked)

	c.sources = make([]Source, len(paths))
	c.byName = make(map[string]*agenda.Agenda)
	offset := 0
	for i, path := range paths {
		agendas := make([]*agenda.Agenda, 0, counts[i])
		for j := offset; j < offset+counts[i]; j++ {
			a, err := compiler.Compile(j)
			if err != nil {
				return nil, err
			}
			agendas = append(agendas, a)
			if name := a.Name(); name != "" {
				if _, exists := c.byName[name]; !exists {
					c.byName[name] = a
				}
			}
		}
		offset += counts[i]
		c.sources[i] = Source{path: path, agendas: agendas}
	}

	o.logger.Debug("compiled agendas", "sources", len(paths), "agendas", len(all))
	return c, nil
}

// sourceUnavailable reports whether err means the source directory itself is
// missing or unreadable. Failures reading a file inside it do not count.
func sourceUnavailable(dir string, err error) bool {
	if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, fs.ErrPermission) {
		return false
	}
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		return false
	}
	return filepath.Clean(pathErr.Path) == filepath.Clean(dir)
}

// sourceSeverity grades an unavailable source. A missing directory is
// expected (the stock source may not be installed); one that exists but
// cannot be read hides agendas the user meant to use.
func sourceSeverity(err error) Severity {
	if errors.Is(err, fs.ErrPermission) {
		return SeverityError
	}
	return SeverityWarning
}

// Choose asks the chooser for a match from each source in precedence order
// and returns the first one. Lower-precedence sources are not consulted once
// a source matched. It returns nil when no source has a match.
func (c *Controller) Choose(ctx context.Context, battle fleet.Battle) (*agenda.Agenda, error) {
	if c == nil || c.chooser == nil {
		return nil, ErrNotInitialized
	}
	for _, src := range c.sources {
		a, err := c.chooser.Choose(ctx, battle, src.Agendas())
		if err != nil {
			return nil, err
		}
		if a != nil {
			return a, nil
		}
	}
	return nil, nil
}

// Sources returns the compiled sources in precedence order.
func (c *Controller) Sources() []Source {
	if c == nil {
		return nil
	}
	return slices.Clone(c.sources)
}

// Diagnostics returns the problems recovered while creating the controller.
func (c *Controller) Diagnostics() []Diagnostic {
	if c == nil {
		return nil
	}
	return slices.Clone(c.diagnostics)
}

// Lookup returns the compiled agenda called name. When several sources
// define the name, the highest-precedence one is returned.
func (c *Controller) Lookup(name string) (*agenda.Agenda, bool) {
	if c == nil {
		return nil, false
	}
	a, ok := c.byName[name]
	return a, ok
}
