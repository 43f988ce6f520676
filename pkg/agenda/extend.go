// SPDX-License-Identifier: MPL-2.0

package agenda

import "maps"

// Extend merges child onto parent and returns a new definition. Neither input
// is modified.
//
// The matcher is taken wholesale from the child when the child declares one
// (even an empty one), otherwise from the parent. Topics are merged in two
// passes: first the topics only the child defines, in child order; then every
// parent topic in parent order, with the child's options overlaid per option
// key where both define the topic.
//
// The result has no Extends and carries the child's Name and Path.
func Extend(child, parent *Definition) *Definition {
	merged := &Definition{
		Name: child.Name,
		Path: child.Path,
	}

	if child.DeclaresMatcher() {
		merged.Matcher = cloneClauses(child.Matcher)
	} else {
		merged.Matcher = cloneClauses(parent.Matcher)
	}

	merged.Topics = mergeTopics(child.Topics, parent.Topics)
	return merged
}

func mergeTopics(child, parent *Topics) *Topics {
	out := NewTopics()

	if child != nil {
		for pair := child.Oldest(); pair != nil; pair = pair.Next() {
			if _, inParent := lookupTopic(parent, pair.Key); inParent {
				continue
			}
			out.Set(pair.Key, cloneOptions(pair.Value))
		}
	}

	if parent != nil {
		for pair := parent.Oldest(); pair != nil; pair = pair.Next() {
			opts := cloneOptions(pair.Value)
			if own, inChild := lookupTopic(child, pair.Key); inChild {
				maps.Copy(opts, own)
			}
			out.Set(pair.Key, opts)
		}
	}

	return out
}
