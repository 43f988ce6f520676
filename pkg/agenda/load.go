// SPDX-License-Identifier: MPL-2.0

package agenda

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/wows-briefing/briefing/pkg/cueutil"

	"golang.org/x/sync/errgroup"
)

type (
	// Loader reads every recognised definition file of one directory.
	Loader struct {
		decoders    map[string]Decoder
		maxFileSize int64
	}

	// LoaderOption configures a Loader.
	LoaderOption func(*Loader)
)

// WithDecoder registers (or replaces) the decoder for a file extension such
// as ".yaml". Extensions are matched case-insensitively.
func WithDecoder(ext string, decoder Decoder) LoaderOption {
	return func(l *Loader) {
		l.decoders[strings.ToLower(ext)] = decoder
	}
}

// WithMaxFileSize limits the size of a single definition file. Non-positive
// sizes keep the default limit.
func WithMaxFileSize(size int64) LoaderOption {
	return func(l *Loader) {
		if size > 0 {
			l.maxFileSize = size
		}
	}
}

// NewLoader returns a Loader using DefaultDecoders.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		decoders:    DefaultDecoders(),
		maxFileSize: cueutil.DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Extensions returns the registered file extensions.
func (l *Loader) Extensions() []string {
	exts := make([]string, 0, len(l.decoders))
	for ext := range l.decoders {
		exts = append(exts, ext)
	}
	return exts
}

// Load decodes the definition files directly inside dir. Subdirectories and
// files with unregistered extensions are skipped. An existing directory
// without definition files yields an empty slice.
//
// The error of listing dir is returned unchanged, so callers can test it
// with errors.Is(err, fs.ErrNotExist) or fs.ErrPermission. A file that fails
// to decode is a *FormatError and fails the whole call.
func (l *Loader) Load(ctx context.Context, dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := l.decoders[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	defs := make([]*Definition, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			def, err := l.loadFile(path)
			if err != nil {
				return err
			}
			defs[i] = def
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return defs, nil
}

func (l *Loader) loadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agenda file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, l.maxFileSize, path); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	ext := strings.ToLower(filepath.Ext(path))
	return decodeFile(l.decoders, ext, path, data)
}

// Load reads dir with a default Loader.
func Load(ctx context.Context, dir string) ([]*Definition, error) {
	return NewLoader().Load(ctx, dir)
}
