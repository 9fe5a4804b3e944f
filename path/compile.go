package path

import (
	"fmt"

	"github.com/c360/graphpath/errors"
	"github.com/c360/graphpath/selector"
	"github.com/c360/graphpath/wire"
)

// Compile renders the finalized expression into its wire query. The walk
// is deterministic and order-preserving: the wire query holds one element
// per step in declared order, preceded by a Vertex element when the
// starting selector names concrete nodes, and terminated by the
// finalizer's element. Morphism references are resolved against reg and
// expanded in place, so no morphism indirection survives into the output.
//
// Compilation is side-effect-free and all-or-nothing: it touches no
// network and never emits a partial query. It fails with the first
// recorded construction error, with MissingFinalizerError when no
// finalizer is attached (morphisms always fail this way), with
// NestedFinalizerError when a combinator sub-expression carries its own
// finalizer, with UnknownMorphismError for unresolvable references, and
// with InvalidLimitError for a non-positive GetLimit.
func (p *Path) Compile(reg *Registry) (wire.Query, error) {
	if p == nil {
		return nil, &errors.MissingFinalizerError{}
	}
	if p.err != nil {
		return nil, p.err
	}
	if p.kind != kindVertex || p.fin == nil {
		return nil, &errors.MissingFinalizerError{}
	}

	c := &compiler{reg: reg, expanding: make(map[string]bool)}
	q, err := c.route(p)
	if err != nil {
		return nil, err
	}

	if p.fin.all {
		return append(q, wire.Step{Op: wire.OpAll}), nil
	}
	if p.fin.limit <= 0 {
		return nil, &errors.InvalidLimitError{Limit: p.fin.limit}
	}
	return append(q, wire.Step{Op: wire.OpGetLimit, Operand: p.fin.limit}), nil
}

// compiler carries the registry and the set of morphism names currently
// being expanded, which breaks reference cycles.
type compiler struct {
	reg       *Registry
	expanding map[string]bool
}

// route renders the starting selector and step sequence of a vertex
// expression, without a finalizer. AnyNode roots contribute no element.
func (c *compiler) route(p *Path) (wire.Query, error) {
	var q wire.Query
	if !p.start.IsAny() {
		q = append(q, wire.Step{Op: wire.OpVertex, Operand: encodeValues(p.start.Values())})
	}
	steps, err := c.steps(p.steps, false)
	if err != nil {
		return nil, err
	}
	return append(q, steps...), nil
}

// steps renders a step sequence in declared order, or in reverse order
// when rendering the reverse application of a morphism.
func (c *compiler) steps(steps []step, reversed bool) (wire.Query, error) {
	out := make(wire.Query, 0, len(steps))
	for i := range steps {
		s := steps[i]
		if reversed {
			s = steps[len(steps)-1-i]
		}
		rendered, err := c.step(s, reversed)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered...)
	}
	return out, nil
}

// step renders a single step. Every step renders to exactly one wire
// element except morphism references, which splice the referenced
// fragment's rendering in place.
func (c *compiler) step(s step, reversed bool) (wire.Query, error) {
	switch s.op {
	case opOut, opOutPredicates:
		op := wire.OpOut
		if reversed {
			op = wire.OpIn
		}
		return single(op, encodePredicatesAndTags(s.preds, s.tags)), nil

	case opIn, opInPredicates:
		op := wire.OpIn
		if reversed {
			op = wire.OpOut
		}
		return single(op, encodePredicatesAndTags(s.preds, s.tags)), nil

	case opBoth, opBothPredicates:
		return single(wire.OpBoth, encodePredicatesAndTags(s.preds, s.tags)), nil

	case opIs:
		return single(wire.OpIs, encodeValues(s.nodes.Values())), nil

	case opHas:
		return single(wire.OpHas, []any{
			s.preds.Values()[0],
			encodeValues(s.nodes.Values()),
		}), nil

	case opTag:
		return single(wire.OpAs, encodeValues(s.tags.Values())), nil

	case opBack:
		return single(wire.OpBack, encodeValues(s.tags.Values())), nil

	case opSave:
		return single(wire.OpSave, []any{
			s.preds.Values()[0],
			s.tags.Values()[0],
		}), nil

	case opIntersect, opAnd:
		sub, err := c.subExpression(s)
		if err != nil {
			return nil, err
		}
		return single(wire.OpAnd, sub), nil

	case opUnion, opOr:
		sub, err := c.subExpression(s)
		if err != nil {
			return nil, err
		}
		return single(wire.OpOr, sub), nil

	case opFollow:
		return c.expand(s, reversed)

	case opFollowReverse:
		return c.expand(s, !reversed)

	default:
		return nil, &errors.MalformedStepError{Op: s.op.String(), Reason: "unsupported step"}
	}
}

// subExpression compiles a combinator operand as a nested route. The
// operand must not carry a finalizer, even one attached after the
// combinator step was built.
func (c *compiler) subExpression(s step) (wire.Query, error) {
	if s.sub.err != nil {
		return nil, s.sub.err
	}
	if s.sub.fin != nil {
		return nil, &errors.NestedFinalizerError{Op: s.op.String()}
	}
	return c.route(s.sub)
}

// expand resolves a morphism reference and renders its fragment inline.
// A reverse application renders the fragment's steps in reverse order
// with Out and In swapped; nested references flip accordingly.
func (c *compiler) expand(s step, reversed bool) (wire.Query, error) {
	if c.reg == nil {
		return nil, &errors.UnknownMorphismError{Name: s.morphism}
	}
	m, err := c.reg.lookup(s.morphism)
	if err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	if c.expanding[s.morphism] {
		return nil, &errors.MalformedStepError{
			Op:     s.op.String(),
			Reason: fmt.Sprintf("recursive reference to morphism %q", s.morphism),
		}
	}

	c.expanding[s.morphism] = true
	defer delete(c.expanding, s.morphism)
	return c.steps(m.steps, reversed)
}

func single(op string, operand any) wire.Query {
	return wire.Query{wire.Step{Op: op, Operand: operand}}
}

// encodeValues renders a selector's names to their wire operand form:
// nil for a wildcard (a no-argument step), a bare string for a single
// name, an ordered string array for a set.
func encodeValues(vals []string) any {
	switch len(vals) {
	case 0:
		return nil
	case 1:
		return vals[0]
	default:
		return vals
	}
}

// encodePredicatesAndTags renders the operand of a directional traversal.
// Without tags the predicate encoding stands alone; with tags the operand
// is a two-element array, using null for a wildcard predicate so the tag
// position is preserved.
func encodePredicatesAndTags(preds selector.PredicateSelector, tags selector.TagSelector) any {
	pe := encodeValues(preds.Values())
	if tags.IsAny() {
		return pe
	}
	return []any{pe, encodeValues(tags.Values())}
}
