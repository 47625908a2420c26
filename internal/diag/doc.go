// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// Diagnostic is the central record: severity, a numeric Code with a stable
// string form (LEX####, SYN####, IO####), a short message, the primary span,
// optional notes and optional text-edit fixes (for example "insert ')'").
//
// Producers emit through a Reporter so that storage stays decoupled: the
// lexer and parser build a Diagnostic (NewError, WithNote, WithFix) and hand it
// to Emit; the driver collects into a Bag via BagReporter behind a
// DedupReporter and then sorts.
// Rendering lives in internal/diagfmt.
//
// Keep the data model deterministic and plain: diagnostics are serialised
// into the parse cache and compared in golden tests.
package diag
