// Package graphpath provides a typed Go client for a graph query service
// that accepts Gremlin-style chained path expressions.
//
// # Architecture
//
// The client is a compiler pipeline from a typed expression tree to the
// service's nested wire query, plus the reverse decoder for its tabular
// response:
//
//	┌─────────────────────────────────────┐
//	│     Path Expression (path)          │  Vertex / Morphism builders,
//	│  steps, combinators, finalizers     │  morphism registry
//	└─────────────────────────────────────┘
//	           ↓ compiles to
//	┌─────────────────────────────────────┐
//	│        Wire Query (wire)            │  ordered single-key step
//	│   [{"Vertex":"C"},{"All":[]}]       │  objects, canonical JSON
//	└─────────────────────────────────────┘
//	           ↓ one POST per Execute
//	┌─────────────────────────────────────┐
//	│       Graph Client (graph)          │  transport shim, response
//	│     Execute / Find / NodeSet        │  decoder
//	└─────────────────────────────────────┘
//
// Selectors (package selector) identify the graph elements a step
// operates on: a node, a predicate, a tag, a set of either, or a
// wildcard. Errors (package errors) form a closed taxonomy of typed
// failure values classified as transient, invalid, or fatal; the client
// never retries, but the classification lets callers decide to.
//
// # Usage
//
//	cfg := config.DefaultConfig()
//	client, err := graph.NewClient(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	follows := path.NewMorphism("friendOfFriend").
//		OutPredicates(selector.Predicates("follows"))
//	if err := client.Declare(follows); err != nil {
//		log.Fatal(err)
//	}
//
//	nodes, err := client.Find(ctx, path.NewVertex(selector.Node("C")).
//		Follow("friendOfFriend").
//		Has(selector.Predicate("status"), selector.Node("cool_person")).
//		All())
//
// Compilation is side-effect-free and all-or-nothing: an expression
// either compiles fully before any network call, or fails with a typed
// error.
package graphpath
