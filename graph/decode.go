package graph

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/c360/graphpath/errors"
	"github.com/c360/graphpath/wire"
)

// Node is one decoded result record: a mapping from field name ("id", or
// a tag name applied upstream) to string value. Absence of an expected
// field is a valid result shape, not an error.
type Node map[string]string

// ID returns the node's "id" field, or the empty string when the field
// is absent.
func (n Node) ID() string {
	return n["id"]
}

// Get returns the named field and whether it is present.
func (n Node) Get(field string) (string, bool) {
	v, ok := n[field]
	return v, ok
}

// NodeSet is an ordered collection of decoded result records, in the
// order the service returned them.
type NodeSet []Node

// IDs returns the "id" field of every record, in result order.
func (ns NodeSet) IDs() []string {
	ids := make([]string, len(ns))
	for i, n := range ns {
		ids[i] = n.ID()
	}
	return ids
}

// DecodeResponse parses a wire response body into a node set. A
// service-reported error in the envelope surfaces as QueryError; a
// malformed body fails with ResponseDecodeError carrying the offending
// fragment. A null or empty result decodes to an empty set.
func DecodeResponse(body []byte) (NodeSet, error) {
	var resp wire.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &errors.ResponseDecodeError{Fragment: fragment(body), Err: err}
	}
	if resp.Error != "" {
		return nil, &errors.QueryError{Message: resp.Error}
	}
	return DecodeRows(resp.Result)
}

// DecodeRows parses the result array itself. Every element must be a
// JSON object; its keys and values are copied verbatim as string fields,
// with non-string scalars converted by one fixed rule: numbers keep
// their literal text form, booleans become "true"/"false", null becomes
// the empty string, and nested arrays or objects re-encode as compact
// JSON.
func DecodeRows(result []byte) (NodeSet, error) {
	if len(result) == 0 || bytes.Equal(bytes.TrimSpace(result), []byte("null")) {
		return NodeSet{}, nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(result, &rows); err != nil {
		return nil, &errors.ResponseDecodeError{Fragment: fragment(result), Err: err}
	}

	nodes := make(NodeSet, 0, len(rows))
	for _, row := range rows {
		node, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// decodeRow parses one result object. Numbers decode as json.Number so
// their literal text form survives the round trip.
func decodeRow(row json.RawMessage) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(row))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, &errors.ResponseDecodeError{Fragment: fragment(row), Err: err}
	}

	node := make(Node, len(fields))
	for key, value := range fields {
		text, err := canonicalString(value)
		if err != nil {
			return nil, &errors.ResponseDecodeError{Fragment: fragment(row), Err: err}
		}
		node[key] = text
	}
	return node, nil
}

// canonicalString is the single fixed conversion from a decoded JSON
// value to its string field form.
func canonicalString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case json.Number:
		return v.String(), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// fragment bounds an offending payload excerpt for diagnostics.
func fragment(data []byte) string {
	const limit = 120
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) <= limit {
		return string(trimmed)
	}
	return string(trimmed[:limit]) + "..."
}
