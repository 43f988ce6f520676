// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wows-briefing/briefing/pkg/agenda"

	"gopkg.in/yaml.v3"
)

// printAgenda writes an agenda's matcher and its topics in compiled order.
func printAgenda(w io.Writer, a *agenda.Agenda) {
	fmt.Fprintln(w, TitleStyle.Render(a.Label()))
	fmt.Fprintln(w, SubtitleStyle.Render(a.Path()))

	fmt.Fprintln(w)
	fmt.Fprintln(w, KeyStyle.Render("matcher:"))
	clauses := a.Matcher()
	if len(clauses) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(every ship)"))
	}
	for _, c := range clauses {
		fmt.Fprintf(w, "  - %s\n", formatClause(c))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, KeyStyle.Render("topics:"))
	names := a.TopicNames()
	if len(names) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
	}
	for _, name := range names {
		opts, _ := a.Topic(name)
		if line := formatOptions(opts); line != "" {
			fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render(name), ValueStyle.Render(line))
		} else {
			fmt.Fprintf(w, "  %s\n", KeyStyle.Render(name))
		}
	}
}

// formatClause renders the present fields of a clause; a clause without
// any is shown as "*".
func formatClause(c agenda.Clause) string {
	if c.IsWildcard() {
		return "*"
	}
	var parts []string
	add := func(key string, present bool, values []string) {
		if present {
			parts = append(parts, key+"=["+strings.Join(values, " ")+"]")
		}
	}
	tiers := make([]string, len(c.Tiers))
	for i, t := range c.Tiers {
		tiers[i] = strconv.Itoa(t)
	}
	add("ships", c.Ships != nil, c.Ships)
	add("classes", c.Classes != nil, c.Classes)
	add("tiers", c.Tiers != nil, tiers)
	add("nations", c.Nations != nil, c.Nations)
	add("has", c.Has != nil, c.Has)
	return strings.Join(parts, " ")
}

// formatOptions renders topic options as a one-line YAML flow mapping.
func formatOptions(opts agenda.Options) string {
	if len(opts) == 0 {
		return ""
	}
	var node yaml.Node
	if err := node.Encode(map[string]any(opts)); err != nil {
		return fmt.Sprint(map[string]any(opts))
	}
	node.Style = yaml.FlowStyle
	out, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Sprint(map[string]any(opts))
	}
	return strings.TrimSpace(string(out))
}
