// SPDX-License-Identifier: MPL-2.0

// Package agenda loads, links and compiles briefing agenda definitions.
//
// An agenda is a named bundle of topics plus a matcher that decides which ships
// it applies to. Definitions live in per-source directories as YAML, JSON,
// TOML or CUE files and may inherit from each other through `extends`.
//
// The pipeline has three stages:
//
//  1. Load: decode every recognised file in one directory into Definitions
//  2. Link: resolve `extends` names across all sources into parent indices
//  3. Compile: flatten each extension chain into an immutable Agenda
//
// File organization:
//   - definition.go: Definition, Topics and Options
//   - clause.go: Clause matching
//   - agenda.go: the compiled Agenda value
//   - extend.go: the inheritance merge operator
//   - link.go, compile.go: name resolution and chain flattening
//   - load.go, decode*.go: directory loading and per-format decoders
package agenda
