// Package parser turns a token stream into a lossless concrete syntax tree.
//
// The parser is recursive descent over a cst.Builder: every production opens
// a marker, consumes tokens and completes it with a node kind. Ambiguities
// that lookahead cannot settle are resolved with context flags (composite
// literal vs. block in statement headers, `iota` inside const declarations,
// elided literal types) and with speculative markers that roll back
// (short variable declarations, labels, range clauses, type switch guards,
// parenthesised types).
//
// Parse never fails on input: malformed code becomes error nodes and the
// tree always reproduces the source text exactly. Broken internal
// invariants panic with cst.ErrMarkerOrder or ErrFlagLeak.
package parser
