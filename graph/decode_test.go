package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/graphpath/errors"
)

func TestDecodeResponse_Results(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected NodeSet
	}{
		{
			"single row",
			`{"result":[{"id":"graph_node_1"}]}`,
			NodeSet{{"id": "graph_node_1"}},
		},
		{
			"rows keep service order",
			`{"result":[{"id":"c"},{"id":"a"},{"id":"b"}]}`,
			NodeSet{{"id": "c"}, {"id": "a"}, {"id": "b"}},
		},
		{
			"tagged fields",
			`{"result":[{"id":"bob","source":"alice"}]}`,
			NodeSet{{"id": "bob", "source": "alice"}},
		},
		{
			"empty result array",
			`{"result":[]}`,
			NodeSet{},
		},
		{
			"null result",
			`{"result":null}`,
			NodeSet{},
		},
		{
			"absent result",
			`{}`,
			NodeSet{},
		},
		{
			"empty row is a valid record",
			`{"result":[{}]}`,
			NodeSet{{}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			nodes, err := DecodeResponse([]byte(test.body))
			require.NoError(t, err)
			assert.Equal(t, test.expected, nodes)
		})
	}
}

func TestDecodeResponse_CanonicalStringification(t *testing.T) {
	body := `{"result":[{"count":42,"ratio":1.50,"active":true,"missing":null,"name":"bob","extra":{"a":1}}]}`

	nodes, err := DecodeResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	node := nodes[0]
	assert.Equal(t, "42", node["count"])
	// Numbers keep their literal text, not a float re-rendering.
	assert.Equal(t, "1.50", node["ratio"])
	assert.Equal(t, "true", node["active"])
	assert.Equal(t, "", node["missing"])
	assert.Equal(t, "bob", node["name"])
	assert.Equal(t, `{"a":1}`, node["extra"])
}

func TestDecodeResponse_ServiceError(t *testing.T) {
	_, err := DecodeResponse([]byte(`{"error":"unknown predicate"}`))
	var qerr *errors.QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "unknown predicate", qerr.Message)
	assert.True(t, errors.IsInvalid(err))
}

func TestDecodeResponse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `not json at all`},
		{"result not an array", `{"result":{"id":"a"}}`},
		{"row not an object", `{"result":["just-a-string"]}`},
		{"row is a number", `{"result":[42]}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := DecodeResponse([]byte(test.body))
			var derr *errors.ResponseDecodeError
			require.ErrorAs(t, err, &derr)
			assert.NotEmpty(t, derr.Fragment)
		})
	}
}

func TestDecodeResponse_FragmentBounded(t *testing.T) {
	long := make([]byte, 0, 600)
	long = append(long, `{"result":`...)
	for i := 0; i < 500; i++ {
		long = append(long, 'x')
	}

	_, err := DecodeResponse(long)
	var derr *errors.ResponseDecodeError
	require.ErrorAs(t, err, &derr)
	assert.LessOrEqual(t, len(derr.Fragment), 123)
	assert.Contains(t, derr.Fragment, "...")
}

func TestNodeAccessors(t *testing.T) {
	node := Node{"id": "alice", "status": "cool_person"}
	assert.Equal(t, "alice", node.ID())

	status, ok := node.Get("status")
	assert.True(t, ok)
	assert.Equal(t, "cool_person", status)

	_, ok = node.Get("absent")
	assert.False(t, ok)

	assert.Empty(t, Node{}.ID())
}

func TestNodeSetIDs(t *testing.T) {
	set := NodeSet{{"id": "a"}, {"id": "b"}, {"status": "no id"}}
	assert.Equal(t, []string{"a", "b", ""}, set.IDs())
	assert.Empty(t, NodeSet{}.IDs())
}
