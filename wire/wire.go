// Package wire defines the request and response payload shapes exchanged
// with the graph query service, and their canonical JSON encoding.
//
// A wire query is an ordered JSON array in which each element is a
// single-key object mapping a step operation name to its encoded
// operands:
//
//	[{"Vertex": "C"}, {"Out": "follows"}, {"All": []}]
//
// Operand encodings are: a string for a single node, predicate or tag
// name; an array of strings for a set; a nested array of step objects for
// a sub-expression; an integer for GetLimit; and an empty array for
// no-argument steps. Encoding is deterministic: identical queries always
// marshal to byte-identical JSON.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Step operation names accepted by the service's request grammar.
// Intersect renders as And and Union renders as Or; the Tag step renders
// as As. Morphism references never appear on the wire: they are expanded
// in place during compilation.
const (
	OpVertex   = "Vertex"
	OpOut      = "Out"
	OpIn       = "In"
	OpBoth     = "Both"
	OpIs       = "Is"
	OpHas      = "Has"
	OpAs       = "As"
	OpBack     = "Back"
	OpSave     = "Save"
	OpAnd      = "And"
	OpOr       = "Or"
	OpAll      = "All"
	OpGetLimit = "GetLimit"
)

// Step is one element of a wire query: an operation name plus its encoded
// operand. A nil Operand encodes as an empty argument list.
type Step struct {
	Op      string
	Operand any
}

// MarshalJSON renders the step as a single-key object.
func (s Step) MarshalJSON() ([]byte, error) {
	if s.Op == "" {
		return nil, fmt.Errorf("wire step has no operation name")
	}
	operand := s.Operand
	if operand == nil {
		operand = []any{}
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	key, err := json.Marshal(s.Op)
	if err != nil {
		return nil, err
	}
	buf.Write(key)
	buf.WriteByte(':')
	val, err := json.Marshal(operand)
	if err != nil {
		return nil, err
	}
	buf.Write(val)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a single-key step object.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("wire step must have exactly one operation, got %d", len(raw))
	}
	for op, operand := range raw {
		s.Op = op
		s.Operand = operand
	}
	return nil
}

// Query is an ordered sequence of wire steps. The order is the traversal
// order and is preserved exactly through encoding.
type Query []Step

// Encode renders the query to its canonical JSON form.
func (q Query) Encode() ([]byte, error) {
	if q == nil {
		q = Query{}
	}
	return json.Marshal(q)
}

// String returns the canonical JSON form, or a placeholder when the query
// fails to encode.
func (q Query) String() string {
	data, err := q.Encode()
	if err != nil {
		return "<invalid query>"
	}
	return string(data)
}

// Response is the service's reply envelope: a result array of flat
// string-keyed row objects, or a service-reported error.
type Response struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
}
