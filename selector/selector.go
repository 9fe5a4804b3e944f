// Package selector provides the value types that identify graph elements
// in a path expression: nodes, predicates, and tags. A selector is either
// a wildcard ("any"), a single named element, or an ordered set of names.
//
// Selectors are immutable once constructed. Constructors copy their
// arguments and accessors return copies, so a selector can be shared
// between expressions without coordination.
package selector

import "strings"

// NodeSelector identifies one node, a set of nodes, or any node.
// The zero value behaves like AnyNode().
type NodeSelector struct {
	ids []string
}

// AnyNode returns a selector matching every node in the graph.
func AnyNode() NodeSelector {
	return NodeSelector{}
}

// Node returns a selector for a single node by its ID.
func Node(id string) NodeSelector {
	return NodeSelector{ids: []string{id}}
}

// Nodes returns a selector for an ordered set of node IDs.
func Nodes(ids ...string) NodeSelector {
	return NodeSelector{ids: copyStrings(ids)}
}

// IsAny reports whether the selector is the wildcard.
func (ns NodeSelector) IsAny() bool {
	return len(ns.ids) == 0
}

// IsSet reports whether the selector names more than one node.
func (ns NodeSelector) IsSet() bool {
	return len(ns.ids) > 1
}

// Values returns the node IDs in declaration order. The wildcard
// returns an empty slice.
func (ns NodeSelector) Values() []string {
	return copyStrings(ns.ids)
}

// String returns a human-readable form for logs and error messages.
func (ns NodeSelector) String() string {
	if ns.IsAny() {
		return "any node"
	}
	return "node(" + strings.Join(ns.ids, ",") + ")"
}

// PredicateSelector identifies one predicate, an ordered set of
// predicates (OR-of-predicates semantics), or any predicate.
// The zero value behaves like AnyPredicate().
type PredicateSelector struct {
	names []string
}

// AnyPredicate returns a selector matching every predicate.
func AnyPredicate() PredicateSelector {
	return PredicateSelector{}
}

// Predicate returns a selector for a single predicate by name.
func Predicate(name string) PredicateSelector {
	return PredicateSelector{names: []string{name}}
}

// Predicates returns a selector for an ordered set of predicate names.
// Order is preserved through compilation.
func Predicates(names ...string) PredicateSelector {
	return PredicateSelector{names: copyStrings(names)}
}

// IsAny reports whether the selector is the wildcard.
func (ps PredicateSelector) IsAny() bool {
	return len(ps.names) == 0
}

// IsSet reports whether the selector names more than one predicate.
func (ps PredicateSelector) IsSet() bool {
	return len(ps.names) > 1
}

// Values returns the predicate names in declaration order.
func (ps PredicateSelector) Values() []string {
	return copyStrings(ps.names)
}

// String returns a human-readable form for logs and error messages.
func (ps PredicateSelector) String() string {
	if ps.IsAny() {
		return "any predicate"
	}
	return "predicate(" + strings.Join(ps.names, ",") + ")"
}

// TagSelector identifies one tag name, a set of tag names, or any tag.
// The zero value behaves like AnyTag().
type TagSelector struct {
	names []string
}

// AnyTag returns a selector matching every tag.
func AnyTag() TagSelector {
	return TagSelector{}
}

// Tag returns a selector for a single tag name.
func Tag(name string) TagSelector {
	return TagSelector{names: []string{name}}
}

// Tags returns a selector for an ordered set of tag names.
func Tags(names ...string) TagSelector {
	return TagSelector{names: copyStrings(names)}
}

// IsAny reports whether the selector is the wildcard.
func (ts TagSelector) IsAny() bool {
	return len(ts.names) == 0
}

// IsSet reports whether the selector names more than one tag.
func (ts TagSelector) IsSet() bool {
	return len(ts.names) > 1
}

// Values returns the tag names in declaration order.
func (ts TagSelector) Values() []string {
	return copyStrings(ts.names)
}

// String returns a human-readable form for logs and error messages.
func (ts TagSelector) String() string {
	if ts.IsAny() {
		return "any tag"
	}
	return "tag(" + strings.Join(ts.names, ",") + ")"
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
