package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"gocst/internal/cst"
	"gocst/internal/source"
	"gocst/internal/token"
)

// buildDocumentSymbols lists the top-level declarations of a file. Struct
// fields and interface methods become children of their type.
func buildDocumentSymbols(file *source.File, root *cst.Node) []protocol.DocumentSymbol {
	if file == nil || root == nil {
		return nil
	}
	out := make([]protocol.DocumentSymbol, 0, len(root.Children))
	for _, n := range root.Children {
		switch n.Kind {
		case cst.KindPackageClause:
			if name := identLeaf(n); name != nil {
				out = append(out, newSymbol(file, name.Token.Text, protocol.SymbolKindPackage, n, name))
			}
		case cst.KindFuncDecl:
			if name := identLeaf(n); name != nil {
				sym := newSymbol(file, name.Token.Text, protocol.SymbolKindFunction, n, name)
				sym.Detail = signatureDetail(n)
				out = append(out, sym)
			}
		case cst.KindMethodDecl:
			if name := identLeaf(n); name != nil {
				sym := newSymbol(file, name.Token.Text, protocol.SymbolKindMethod, n, name)
				if recv := n.Child(cst.KindReceiver); recv != nil {
					detail := compactText(recv)
					if sig := signatureDetail(n); sig != nil {
						detail += " " + *sig
					}
					sym.Detail = &detail
				}
				out = append(out, sym)
			}
		case cst.KindConstDecl:
			out = appendValueSymbols(out, file, n, cst.KindConstSpec, protocol.SymbolKindConstant)
		case cst.KindVarDecl:
			out = appendValueSymbols(out, file, n, cst.KindVarSpec, protocol.SymbolKindVariable)
		case cst.KindTypeDecl:
			for _, spec := range n.ChildrenOf(cst.KindTypeSpec) {
				if sym, ok := typeSymbol(file, spec); ok {
					out = append(out, sym)
				}
			}
		}
	}
	return out
}

func newSymbol(file *source.File, name string, kind protocol.SymbolKind, n, nameNode *cst.Node) protocol.DocumentSymbol {
	return protocol.DocumentSymbol{
		Name:           name,
		Kind:           kind,
		Range:          rangeForSpan(file, n.Span),
		SelectionRange: rangeForSpan(file, nameNode.Span),
	}
}

// identLeaf returns the first direct Ident leaf of n.
func identLeaf(n *cst.Node) *cst.Node {
	for _, c := range n.Children {
		if c.IsLeaf() && c.Token.Kind == token.Ident {
			return c
		}
	}
	return nil
}

// identLeaves returns the names of an IDENT_LIST child.
func identLeaves(n *cst.Node) []*cst.Node {
	list := n.Child(cst.KindIdentList)
	if list == nil {
		return nil
	}
	var out []*cst.Node
	for _, c := range list.Children {
		if c.IsLeaf() && c.Token.Kind == token.Ident {
			out = append(out, c)
		}
	}
	return out
}

func appendValueSymbols(out []protocol.DocumentSymbol, file *source.File, decl *cst.Node, specKind cst.Kind, kind protocol.SymbolKind) []protocol.DocumentSymbol {
	for _, spec := range decl.ChildrenOf(specKind) {
		for _, name := range identLeaves(spec) {
			if name.Token.Text == "_" {
				continue
			}
			out = append(out, newSymbol(file, name.Token.Text, kind, spec, name))
		}
	}
	return out
}

func typeSymbol(file *source.File, spec *cst.Node) (protocol.DocumentSymbol, bool) {
	name := identLeaf(spec)
	if name == nil {
		return protocol.DocumentSymbol{}, false
	}
	sym := newSymbol(file, name.Token.Text, protocol.SymbolKindClass, spec, name)
	switch {
	case spec.Child(cst.KindStructType) != nil:
		sym.Kind = protocol.SymbolKindStruct
		sym.Children = fieldSymbols(file, spec.Child(cst.KindStructType))
	case spec.Child(cst.KindInterfaceType) != nil:
		sym.Kind = protocol.SymbolKindInterface
		sym.Children = methodSymbols(file, spec.Child(cst.KindInterfaceType))
	}
	return sym, true
}

func fieldSymbols(file *source.File, st *cst.Node) []protocol.DocumentSymbol {
	var out []protocol.DocumentSymbol
	for _, field := range st.ChildrenOf(cst.KindFieldDecl) {
		names := identLeaves(field)
		if len(names) == 0 {
			// встроенное поле: имя берём из типа
			if embedded := lastIdent(field); embedded != nil {
				out = append(out, newSymbol(file, embedded.Token.Text, protocol.SymbolKindField, field, embedded))
			}
			continue
		}
		for _, name := range names {
			out = append(out, newSymbol(file, name.Token.Text, protocol.SymbolKindField, field, name))
		}
	}
	return out
}

func methodSymbols(file *source.File, it *cst.Node) []protocol.DocumentSymbol {
	var out []protocol.DocumentSymbol
	for _, spec := range it.ChildrenOf(cst.KindMethodSpec) {
		if name := identLeaf(spec); name != nil {
			out = append(out, newSymbol(file, name.Token.Text, protocol.SymbolKindMethod, spec, name))
		}
	}
	return out
}

// lastIdent finds the last Ident leaf under n outside a Tag.
func lastIdent(n *cst.Node) *cst.Node {
	var last *cst.Node
	cst.Walk(n, func(c *cst.Node, _ int) bool {
		if c.Kind == cst.KindTag {
			return false
		}
		if c.IsLeaf() && c.Token.Kind == token.Ident {
			last = c
		}
		return true
	})
	return last
}

func signatureDetail(decl *cst.Node) *string {
	sig := decl.Child(cst.KindSignature)
	if sig == nil {
		return nil
	}
	detail := "func" + compactText(sig)
	return &detail
}

// compactText is the source of n with comments dropped and whitespace runs
// folded to one space.
func compactText(n *cst.Node) string {
	var b strings.Builder
	pendingSpace := false
	for _, tok := range cst.Leaves(n) {
		switch tok.Kind {
		case token.Whitespace, token.Newline, token.LineComment, token.BlockComment:
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}
