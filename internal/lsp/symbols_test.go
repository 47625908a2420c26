package lsp

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func symbolNames(syms []protocol.DocumentSymbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name
	}
	return out
}

func TestDocumentSymbols(t *testing.T) {
	src := "package shapes\n" +
		"\n" +
		"import \"math\"\n" +
		"\n" +
		"const (\n\tPi = math.Pi\n\t_ = 0\n)\n" +
		"var a, b int\n" +
		"type Point struct {\n\tX, Y float64\n\tfmt.Stringer\n}\n" +
		"type Shape interface {\n\tArea() float64\n}\n" +
		"type ID int\n" +
		"func New(x, y float64) *Point {\n\treturn &Point{X: x, Y: y}\n}\n" +
		"func (p *Point) Area() float64 { return 0 }\n"
	file, root := parseDoc(t, src)
	syms := buildDocumentSymbols(file, root)

	want := []string{"shapes", "Pi", "a", "b", "Point", "Shape", "ID", "New", "Area"}
	got := symbolNames(syms)
	if len(got) != len(want) {
		t.Fatalf("symbols = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("symbols = %v, want %v", got, want)
		}
	}

	kinds := map[string]protocol.SymbolKind{
		"shapes": protocol.SymbolKindPackage,
		"Pi":     protocol.SymbolKindConstant,
		"a":      protocol.SymbolKindVariable,
		"Point":  protocol.SymbolKindStruct,
		"Shape":  protocol.SymbolKindInterface,
		"ID":     protocol.SymbolKindClass,
		"New":    protocol.SymbolKindFunction,
		"Area":   protocol.SymbolKindMethod,
	}
	for _, s := range syms {
		if k, ok := kinds[s.Name]; ok && s.Kind != k {
			t.Errorf("%s: kind %d, want %d", s.Name, s.Kind, k)
		}
	}

	point := syms[4]
	if fields := symbolNames(point.Children); len(fields) != 3 || fields[0] != "X" || fields[1] != "Y" || fields[2] != "Stringer" {
		t.Fatalf("Point fields = %v", fields)
	}
	if methods := symbolNames(syms[5].Children); len(methods) != 1 || methods[0] != "Area" {
		t.Fatalf("Shape methods = %v", methods)
	}

	fn := syms[7]
	if fn.Detail == nil || *fn.Detail != "func(x, y float64) *Point" {
		t.Fatalf("New detail = %v", fn.Detail)
	}
	if fn.SelectionRange.Start.Line != 17 || fn.SelectionRange.Start.Character != 5 {
		t.Fatalf("New selection = %+v", fn.SelectionRange)
	}
	method := syms[8]
	if method.Detail == nil || *method.Detail != "(p *Point) func() float64" {
		t.Fatalf("Area detail = %v", method.Detail)
	}
}

func TestDocumentSymbolsSkipBrokenDecls(t *testing.T) {
	file, root := parseDoc(t, "package p\nvar = 1\nvar ok = 1\n")
	names := symbolNames(buildDocumentSymbols(file, root))
	found := false
	for _, n := range names {
		if n == "ok" {
			found = true
		}
	}
	if !found {
		t.Fatalf("declaration after an error lost: %v", names)
	}
}
