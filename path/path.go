// Package path provides the typed path-expression model for graph
// queries: chainable traversal, filter, tagging and combinator steps, the
// morphism registry for named reusable fragments, and the compiler that
// renders a finalized expression into the wire query the service
// understands.
//
// Expressions come in two kinds. A Vertex expression is rooted at a
// starting node selector, may be finalized with All or GetLimit, and can
// be executed. A Morphism expression is a named fragment with no starting
// selector and no finalizer; it is declared in a Registry and expanded in
// place wherever a Follow or FollowReverse step references its name.
//
// Builder calls validate their operands immediately and record the first
// violation on the chain; the recorded error surfaces from Err and from
// Compile. Step order is traversal order and is preserved exactly through
// compilation.
package path

import (
	"github.com/c360/graphpath/errors"
	"github.com/c360/graphpath/selector"
)

type exprKind int

const (
	kindVertex exprKind = iota
	kindMorphism
)

type stepOp int

const (
	opOut stepOp = iota
	opIn
	opBoth
	opOutPredicates
	opInPredicates
	opBothPredicates
	opIs
	opHas
	opTag
	opBack
	opSave
	opIntersect
	opAnd
	opUnion
	opOr
	opFollow
	opFollowReverse
)

// String returns the builder-facing name of the step operation, used in
// error messages.
func (op stepOp) String() string {
	switch op {
	case opOut:
		return "Out"
	case opIn:
		return "In"
	case opBoth:
		return "Both"
	case opOutPredicates:
		return "OutPredicates"
	case opInPredicates:
		return "InPredicates"
	case opBothPredicates:
		return "BothPredicates"
	case opIs:
		return "Is"
	case opHas:
		return "Has"
	case opTag:
		return "Tag"
	case opBack:
		return "Back"
	case opSave:
		return "Save"
	case opIntersect:
		return "Intersect"
	case opAnd:
		return "And"
	case opUnion:
		return "Union"
	case opOr:
		return "Or"
	case opFollow:
		return "Follow"
	case opFollowReverse:
		return "FollowReverse"
	default:
		return "unknown"
	}
}

// step is one traversal, filter, tagging, combinator or morphism-reference
// operation. Only the fields relevant to its op are populated.
type step struct {
	op       stepOp
	preds    selector.PredicateSelector
	tags     selector.TagSelector
	nodes    selector.NodeSelector
	sub      *Path  // combinator operand
	morphism string // Follow / FollowReverse reference, by name
}

// finalizer is the terminal operation of a Vertex expression: an
// unbounded fetch (all=true) or a bounded fetch of limit results.
type finalizer struct {
	all   bool
	limit int
}

// Path is a chainable path expression: an ordered step sequence, plus a
// starting selector and optional finalizer for the Vertex kind, or a name
// for the Morphism kind.
//
// Builder methods extend the receiver in place and return it, so a chain
// reads fluently. A Path is not safe for concurrent extension; compile
// and execute as many expressions concurrently as needed, but build each
// one from a single goroutine.
type Path struct {
	kind   exprKind
	name   string
	start  selector.NodeSelector
	steps  []step
	fin    *finalizer
	frozen bool
	err    error
}

// NewVertex returns an executable path expression rooted at the given
// starting selector.
func NewVertex(start selector.NodeSelector) *Path {
	return &Path{kind: kindVertex, start: start}
}

// NewMorphism returns a named, reusable path fragment. A morphism has no
// starting selector, cannot be finalized, and must be declared in a
// Registry before any expression referencing it is compiled.
func NewMorphism(name string) *Path {
	p := &Path{kind: kindMorphism, name: name}
	if name == "" {
		p.err = &errors.MalformedStepError{Op: "Morphism", Reason: "morphism name must not be empty"}
	}
	return p
}

// Name returns the morphism name, or the empty string for a Vertex
// expression.
func (p *Path) Name() string {
	return p.name
}

// Err returns the first construction error recorded on the chain, if any.
func (p *Path) Err() error {
	return p.err
}

// IsFinalized reports whether a finalizer has been attached.
func (p *Path) IsFinalized() bool {
	return p.fin != nil
}

// fail records the first construction error; later steps keep the chain
// usable but compilation reports the recorded error.
func (p *Path) fail(op stepOp, reason string) *Path {
	if p.err == nil {
		p.err = &errors.MalformedStepError{Op: op.String(), Reason: reason}
	}
	return p
}

func (p *Path) append(s step) *Path {
	if p.frozen {
		return p.fail(s.op, "morphism is immutable once declared")
	}
	p.steps = append(p.steps, s)
	return p
}

// Out follows outgoing edges, optionally filtered by predicate. A
// wildcard selector follows every predicate; a set selector has
// OR-of-predicates semantics.
func (p *Path) Out(preds selector.PredicateSelector) *Path {
	return p.append(step{op: opOut, preds: preds})
}

// OutTagged follows outgoing edges filtered by predicate and stores the
// traversed predicate under the given tags.
func (p *Path) OutTagged(preds selector.PredicateSelector, tags selector.TagSelector) *Path {
	return p.append(step{op: opOut, preds: preds, tags: tags})
}

// In follows incoming edges, optionally filtered by predicate.
func (p *Path) In(preds selector.PredicateSelector) *Path {
	return p.append(step{op: opIn, preds: preds})
}

// InTagged follows incoming edges filtered by predicate and stores the
// traversed predicate under the given tags.
func (p *Path) InTagged(preds selector.PredicateSelector, tags selector.TagSelector) *Path {
	return p.append(step{op: opIn, preds: preds, tags: tags})
}

// Both follows edges in both directions, optionally filtered by
// predicate.
func (p *Path) Both(preds selector.PredicateSelector) *Path {
	return p.append(step{op: opBoth, preds: preds})
}

// OutPredicates follows outgoing edges restricted to a named predicate
// set. The selector must name at least one predicate.
func (p *Path) OutPredicates(preds selector.PredicateSelector) *Path {
	if preds.IsAny() {
		return p.fail(opOutPredicates, "requires a named predicate set, got a wildcard")
	}
	return p.append(step{op: opOutPredicates, preds: preds})
}

// InPredicates follows incoming edges restricted to a named predicate
// set. The selector must name at least one predicate.
func (p *Path) InPredicates(preds selector.PredicateSelector) *Path {
	if preds.IsAny() {
		return p.fail(opInPredicates, "requires a named predicate set, got a wildcard")
	}
	return p.append(step{op: opInPredicates, preds: preds})
}

// BothPredicates follows edges in both directions restricted to a named
// predicate set. The selector must name at least one predicate.
func (p *Path) BothPredicates(preds selector.PredicateSelector) *Path {
	if preds.IsAny() {
		return p.fail(opBothPredicates, "requires a named predicate set, got a wildcard")
	}
	return p.append(step{op: opBothPredicates, preds: preds})
}

// Is filters the current set down to the named nodes.
func (p *Path) Is(nodes selector.NodeSelector) *Path {
	return p.append(step{op: opIs, nodes: nodes})
}

// Has filters the current set to nodes holding the given predicate with
// the given value. The predicate selector must name exactly one
// predicate and the node selector must name at least one node.
func (p *Path) Has(preds selector.PredicateSelector, nodes selector.NodeSelector) *Path {
	if preds.IsAny() || preds.IsSet() {
		return p.fail(opHas, "requires exactly one predicate, got "+preds.String())
	}
	if nodes.IsAny() {
		return p.fail(opHas, "requires a node or node set, got a wildcard")
	}
	return p.append(step{op: opHas, preds: preds, nodes: nodes})
}

// Tag marks the current set with the given tag names so the matched
// values appear as fields of the result records.
func (p *Path) Tag(tags selector.TagSelector) *Path {
	if tags.IsAny() {
		return p.fail(opTag, "requires at least one tag name, got a wildcard")
	}
	return p.append(step{op: opTag, tags: tags})
}

// Back rewinds the traversal to the set previously marked with the given
// tag.
func (p *Path) Back(tags selector.TagSelector) *Path {
	return p.append(step{op: opBack, tags: tags})
}

// Save stores the value of the given predicate on the current set under
// the given tag. Both selectors must name exactly one element.
func (p *Path) Save(preds selector.PredicateSelector, tags selector.TagSelector) *Path {
	if preds.IsAny() || preds.IsSet() {
		return p.fail(opSave, "requires exactly one predicate, got "+preds.String())
	}
	if tags.IsAny() || tags.IsSet() {
		return p.fail(opSave, "requires exactly one tag, got "+tags.String())
	}
	return p.append(step{op: opSave, preds: preds, tags: tags})
}

// combinator validates and appends a set-combinator step. The operand
// must be a fully-formed Vertex sub-expression; its finalizer state is
// checked at compile time so a finalizer attached after this call is
// still rejected.
func (p *Path) combinator(op stepOp, sub *Path) *Path {
	if sub == nil {
		return p.fail(op, "requires a sub-expression, got nil")
	}
	if sub.kind != kindVertex {
		return p.fail(op, "requires a vertex sub-expression, got a morphism")
	}
	return p.append(step{op: op, sub: sub})
}

// Intersect keeps only nodes present in both the current set and the
// sub-expression's result set.
func (p *Path) Intersect(sub *Path) *Path {
	return p.combinator(opIntersect, sub)
}

// And is an alias of Intersect.
func (p *Path) And(sub *Path) *Path {
	return p.combinator(opAnd, sub)
}

// Union merges the current set with the sub-expression's result set.
func (p *Path) Union(sub *Path) *Path {
	return p.combinator(opUnion, sub)
}

// Or is an alias of Union.
func (p *Path) Or(sub *Path) *Path {
	return p.combinator(opOr, sub)
}

// Follow applies the named morphism forward at this point in the chain.
// The name is recorded lazily and resolved against the registry at
// compile time, so the morphism may be declared after this call.
func (p *Path) Follow(name string) *Path {
	if name == "" {
		return p.fail(opFollow, "morphism name must not be empty")
	}
	return p.append(step{op: opFollow, morphism: name})
}

// FollowReverse applies the named morphism backwards: its steps are
// expanded in reverse order with Out and In directions swapped.
func (p *Path) FollowReverse(name string) *Path {
	if name == "" {
		return p.fail(opFollowReverse, "morphism name must not be empty")
	}
	return p.append(step{op: opFollowReverse, morphism: name})
}

// All attaches the unbounded-fetch finalizer. Exactly one finalizer may
// be attached per expression; morphisms cannot be finalized.
func (p *Path) All() *Path {
	return p.finalize(finalizer{all: true})
}

// GetLimit attaches the bounded-fetch finalizer with the given positive
// limit.
func (p *Path) GetLimit(n int) *Path {
	if n <= 0 {
		if p.err == nil {
			p.err = &errors.InvalidLimitError{Limit: n}
		}
		return p
	}
	return p.finalize(finalizer{limit: n})
}

func (p *Path) finalize(fin finalizer) *Path {
	if p.kind == kindMorphism {
		if p.err == nil {
			p.err = &errors.MalformedStepError{Op: finalizerName(fin), Reason: "morphisms cannot carry a finalizer"}
		}
		return p
	}
	if p.fin != nil {
		if p.err == nil {
			p.err = &errors.MalformedStepError{Op: finalizerName(fin), Reason: "finalizer already attached"}
		}
		return p
	}
	p.fin = &fin
	return p
}

func finalizerName(fin finalizer) string {
	if fin.all {
		return "All"
	}
	return "GetLimit"
}

// clone returns a deep copy of the expression. Sub-expression operands
// are cloned recursively so the copy is isolated from later extension of
// the original.
func (p *Path) clone() *Path {
	cp := &Path{
		kind:   p.kind,
		name:   p.name,
		start:  p.start,
		frozen: p.frozen,
		err:    p.err,
	}
	if p.fin != nil {
		fin := *p.fin
		cp.fin = &fin
	}
	if len(p.steps) > 0 {
		cp.steps = make([]step, len(p.steps))
		copy(cp.steps, p.steps)
		for i := range cp.steps {
			if cp.steps[i].sub != nil {
				cp.steps[i].sub = cp.steps[i].sub.clone()
			}
		}
	}
	return cp
}
