// Package cst holds the lossless concrete syntax tree and the marker engine
// the parser builds it with.
//
// The parser never creates nodes directly. It drives a Builder: Mark opens a
// checkpoint, Advance consumes the current significant token, and the marker
// is then completed into a node of some Kind, rolled back (cursor restored,
// everything since the checkpoint discarded) or dropped (tokens stay with the
// enclosing node). Markers resolve strictly LIFO; anything else is a
// programming error and panics with ErrMarkerOrder.
//
// Builder records events (start, token, finish) and only materialises the
// tree in Finish. Trivia tokens never reach the parser: Finish threads them
// back in so that every node starts and ends on a significant token and
// leading trivia belongs to the enclosing node. The root receives whatever
// trivia is left before EOF, so concatenating the leaves reproduces the
// source exactly.
//
// Error nodes are reported to the builder's diag.Reporter during Finish, so
// errors produced on a speculative path that was rolled back never surface.
package cst
