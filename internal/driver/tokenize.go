package driver

import (
	"context"
	"fmt"

	"gocst/internal/diag"
	"gocst/internal/lexer"
	"gocst/internal/source"
	"gocst/internal/token"
)

// TokenizeResult holds the full token stream of one file, trivia included.
type TokenizeResult struct {
	Path    string
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path and runs the lexer over it.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	res := tokenizeFile(fs.Get(id), &opts)
	res.Path = path
	res.FileSet = fs
	return res, nil
}

func tokenizeFile(file *source.File, opts *Options) *TokenizeResult {
	bag := diag.NewBag(opts.MaxDiagnostics)
	toks := lexer.Tokenize(file, lexer.Options{
		Reporter:     diag.BagReporter{Bag: bag},
		SkipNFCCheck: opts.SkipNFCCheck,
	})
	return &TokenizeResult{File: file, Tokens: toks, Bag: bag}
}
