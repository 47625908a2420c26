// Package token defines lexical token kinds for the gocst parser.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Trivia (whitespace, comments, insignificant newlines) are ordinary
//     tokens; the parser skips them, the tree keeps them.
//   - A newline that terminates a statement is lexed as Newline, never as
//     whitespace. Whitespace tokens never contain such a newline.
//   - Predeclared type names (int, string, error, ...) are identifiers.
package token
