package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"gocst/internal/source"
	"gocst/internal/token"
)

type TokenOutput struct {
	Kind   string      `json:"kind"`
	Text   string      `json:"text,omitempty"`
	Span   source.Span `json:"span"`
	Trivia bool        `json:"trivia,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате, по одному на
// строку. Trivia печатается только при trivia=true, нумерация при этом
// сквозная, чтобы номера совпадали с индексами потока.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet, trivia bool) error {
	for i, tok := range tokens {
		if tok.Kind.IsTrivia() && !trivia {
			continue
		}
		start, end := fs.Resolve(tok.Span)
		if _, err := fmt.Fprintf(w, "%4d: %-14s %-24q %d:%d-%d:%d\n",
			i, tok.Kind.String(), tok.Text,
			start.Line, start.Col, end.Line, end.Col); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, trivia bool) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		isTrivia := tok.Kind.IsTrivia()
		if isTrivia && !trivia {
			continue
		}
		output = append(output, TokenOutput{
			Kind:   tok.Kind.String(),
			Text:   tok.Text,
			Span:   tok.Span,
			Trivia: isTrivia,
		})
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
