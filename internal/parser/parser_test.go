package parser_test

import (
	"slices"
	"strings"
	"testing"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/lexer"
	"gocst/internal/parser"
	"gocst/internal/source"
	"gocst/internal/trace"
)

// Valid and broken inputs; every one must round-trip through the tree.
var corpus = []string{
	"",
	"package main\n",
	"package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\") // greet\n}\n",
	"package p\n/* block */ const (\n\tA = iota\n\tB\n)\n",
	"package p\ntype T struct {\n\tA int `json:\"a\"`\n\t*B\n}\n",
	"package p\nfunc (t *T) M(a, b int, rest ...string) (int, error) { return 0, nil }\n",
	"package p\nvar m = map[string][]int{\"a\": {1, 2}}\n",
	"package p\r\nfunc f() {\r\n\tx := 1\r\n}\r\n",
	"func foo(",
	"package p\nfunc f() {\n\tif x {\n",
	"package p\n}}}) ]\n",
	"package p\nfunc f() { a := []int{1, 2,; b }\n",
	"package p\nimport (\n\t\"fmt\"\n\tfunc g() {}\n",
	"package p\nfunc f() {\n\tswitch x := y.(type) {\n\tcase int:\n\t}\n}\n",
	"package\n",
	"@#$",
}

func TestParseIsLossless(t *testing.T) {
	for _, src := range corpus {
		parseSource(t, src)
	}
}

func TestEndToEndMain(t *testing.T) {
	root := parseClean(t, "package main\nfunc main() {\n\tx := 1\n\t_ = x\n}\n")
	if got := significant(root); !slices.Equal(got, []string{"PACKAGE_CLAUSE", "FUNC_DECL"}) {
		t.Fatalf("root children: %v", got)
	}
	fn := root.Child(cst.KindFuncDecl)
	block := fn.Child(cst.KindBlock)
	if block == nil {
		t.Fatalf("function has no body")
	}
	if got := significant(block); !slices.Equal(got, []string{"{", "SHORT_VAR_DECL", "ASSIGN_STMT", "}"}) {
		t.Fatalf("block children: %v", got)
	}
}

func TestTruncatedFunctionTerminates(t *testing.T) {
	root, bag := parseSource(t, "func foo(")
	if len(cst.Errors(root)) == 0 {
		t.Fatalf("expected error nodes")
	}
	if !hasCode(bag, diag.SynMissingPackage) || !hasCode(bag, diag.SynUnclosedParen) {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(bag))
	}
	expectCount(t, root, cst.KindFuncDecl, 1)
}

func TestTopLevelGarbageIsWrapped(t *testing.T) {
	root, bag := parseSource(t, "package p\n+ -\nfunc f() {}\n")
	if !hasCode(bag, diag.SynUnexpectedTopLevel) {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(bag))
	}
	expectCount(t, root, cst.KindFuncDecl, 1)
	for _, e := range cst.Errors(root) {
		if e.Code == diag.SynUnexpectedTopLevel && len(e.Children) == 0 {
			t.Fatalf("top-level error must consume a token")
		}
	}
}

func TestCompositeLiteralNotInIfHeader(t *testing.T) {
	root, bag := parseSource(t, wrapFunc("\tif X{}{\n\t\tg()\n\t}"))
	expectCount(t, root, cst.KindCompositeLit, 0)
	ifs := cst.Find(root, cst.KindIfStmt)
	if len(ifs) != 1 {
		t.Fatalf("want 1 if statement, got %d", len(ifs))
	}
	if got := significant(ifs[0]); !slices.Equal(got, []string{"if", "IDENT", "BLOCK"}) {
		t.Fatalf("if children: %v", got)
	}
	// `{...}` после пустого тела — отдельный блок без разделителя
	if !hasCode(bag, diag.SynExpectSemicolon) {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(bag))
	}
}

func TestCompositeLiteralInReturn(t *testing.T) {
	root := parseClean(t, "package p\nfunc f() Point {\n\treturn Point{1, 2}\n}\n")
	expectCount(t, root, cst.KindCompositeLit, 1)
	expectCount(t, root, cst.KindKeyedElement, 0)
	expectCount(t, root, cst.KindElement, 2)
}

func TestCompositeLiteralInParenthesisedHeader(t *testing.T) {
	root := parseClean(t, wrapFunc("\tif x == (T{}) {\n\t}"))
	expectCount(t, root, cst.KindCompositeLit, 1)
	expectCount(t, root, cst.KindParenExpr, 1)
}

func TestElidedLiteralValues(t *testing.T) {
	root := parseClean(t, "package p\nvar ps = []Point{{1, 2}, {X: 3}}\n")
	expectCount(t, root, cst.KindCompositeLit, 1)
	expectCount(t, root, cst.KindLiteralValue, 3)
	expectCount(t, root, cst.KindKeyedElement, 1)
}

func TestQualifiedIdentAfterImport(t *testing.T) {
	root := parseClean(t, "package main\nimport \"fmt\"\nfunc main() {\n\tfmt.Println(x)\n}\n")
	expectCount(t, root, cst.KindQualifiedIdent, 1)
	expectCount(t, root, cst.KindSelectorExpr, 0)
	expectCount(t, root, cst.KindCallExpr, 1)
}

func TestSelectorWithoutImport(t *testing.T) {
	root := parseClean(t, wrapFunc("\tfmt.Println(x)"))
	expectCount(t, root, cst.KindQualifiedIdent, 0)
	expectCount(t, root, cst.KindSelectorExpr, 1)
}

func TestAliasedImportBindsAlias(t *testing.T) {
	root := parseClean(t, "package p\nimport (\n\tf \"fmt\"\n\t_ \"embed\"\n)\nvar a, b = f.X, fmt.Y\n")
	expectCount(t, root, cst.KindImportSpec, 2)
	expectCount(t, root, cst.KindQualifiedIdent, 1)
	expectCount(t, root, cst.KindSelectorExpr, 1)
}

func TestConversionOfDeclaredType(t *testing.T) {
	root := parseClean(t, "package p\ntype T int\nfunc f() {\n\t_ = T(x)\n}\n")
	expectCount(t, root, cst.KindConversionExpr, 1)
	expectCount(t, root, cst.KindCallExpr, 0)
}

func TestConversionForms(t *testing.T) {
	root := parseClean(t, wrapFunc("\t_ = int64(n)\n\t_ = []byte(s)\n\t_ = (*T)(p)\n\t_ = (<-chan int)(c)\n\t_ = g(x)"))
	expectCount(t, root, cst.KindConversionExpr, 4)
	expectCount(t, root, cst.KindCallExpr, 1)
	expectCount(t, root, cst.KindParenType, 2)
}

func TestParenthesisedDereferenceIsExpression(t *testing.T) {
	root := parseClean(t, wrapFunc("\t_ = (*p).x"))
	expectCount(t, root, cst.KindParenType, 0)
	expectCount(t, root, cst.KindParenExpr, 1)
	expectCount(t, root, cst.KindSelectorExpr, 1)
}

func TestParseResetsKnownNames(t *testing.T) {
	p := parser.New(parser.Options{})
	parseOnce := func(src string) *cst.Node {
		fs := source.NewFileSetWithBase("")
		file := fs.Get(fs.AddVirtual("reset.go", []byte(src)))
		return p.Parse(cst.NewBuilder(file, lexer.Tokenize(file, lexer.Options{}), nil))
	}

	parseOnce("package a\nimport \"foo\"\n")
	if !p.IsKnownPackageName("foo") {
		t.Fatalf("foo should be known after the first parse")
	}
	root := parseOnce("package b\nfunc f() {\n\tfoo.Bar()\n}\n")
	if p.IsKnownPackageName("foo") {
		t.Fatalf("foo leaked into the second parse")
	}
	expectCount(t, root, cst.KindSelectorExpr, 1)
	expectCount(t, root, cst.KindQualifiedIdent, 0)
}

func TestIotaOnlyInConst(t *testing.T) {
	root := parseClean(t, "package p\nconst (\n\tA = iota\n\tB\n)\nvar v = iota\n")
	iotas := cst.Find(root, cst.KindIotaExpr)
	if len(iotas) != 1 {
		t.Fatalf("want 1 iota, got %d", len(iotas))
	}
	spec := root.Child(cst.KindVarDecl).Child(cst.KindVarSpec)
	if spec.Child(cst.KindIdent) == nil {
		t.Fatalf("iota outside const must be a plain identifier: %v", significant(spec))
	}
}

func TestIotaInsideNestedConstExpressions(t *testing.T) {
	root := parseClean(t, "package p\nconst K = 1 << (iota * f(iota))\n")
	expectCount(t, root, cst.KindIotaExpr, 2)
}

func TestNestingLimit(t *testing.T) {
	src := "package p\nvar x = " + strings.Repeat("(", 40) + "1" + strings.Repeat(")", 40) + "\n"
	root, bag := parseWith(t, src, parser.Options{MaxDepth: 16})
	if !hasCode(bag, diag.SynNestingTooDeep) {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(bag))
	}
	expectCount(t, root, cst.KindVarDecl, 1)
}

func TestElseIfChainRespectsNestingLimit(t *testing.T) {
	src := wrapFunc("\tif a {}" + strings.Repeat(" else if a {}", 1000))
	root, bag := parseWith(t, src, parser.Options{MaxDepth: 64})
	if got := codeCount(bag, diag.SynNestingTooDeep); got != 1 {
		t.Fatalf("want one nesting diagnostic, got %d: %s", got, diagnosticsSummary(bag))
	}
	if d := treeDepth(root); d > 3*64 {
		t.Fatalf("tree depth %d exceeds the nesting limit", d)
	}
}

func TestNestingLimitReportsOncePerConstruct(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"slice type", "package p\nvar x " + strings.Repeat("[]", 5000) + "int\n"},
		{"composite literal", "package p\nvar v = " + strings.Repeat("T{", 5000) + strings.Repeat("}", 5000) + "\n"},
		{"parens", "package p\nvar v = " + strings.Repeat("(", 5000) + "1" + strings.Repeat(")", 5000) + "\n"},
		{"blocks", wrapFunc(strings.Repeat("{", 5000) + strings.Repeat("}", 5000))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, bag := parseWith(t, tc.src, parser.Options{MaxDepth: 64})
			if got := codeCount(bag, diag.SynNestingTooDeep); got != 1 {
				t.Fatalf("want one nesting diagnostic, got %d", got)
			}
			if bag.Len() > 3 {
				t.Fatalf("follow-on diagnostics: %s", diagnosticsSummary(bag))
			}
		})
	}
}

func TestMaxErrors(t *testing.T) {
	_, bag := parseWith(t, "package p\n"+strings.Repeat("+ ", 50)+"\n", parser.Options{MaxErrors: 5})
	if !hasCode(bag, diag.SynTooManyErrors) {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(bag))
	}
	if bag.Len() > 6 {
		t.Fatalf("too many diagnostics: %d", bag.Len())
	}
}

func TestParseTracesProductions(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelDebug)
	parseWith(t, wrapFunc("\tx := 1"), parser.Options{Tracer: ring})

	var names []string
	var stmt trace.Event
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
			if ev.Name == "stmt" {
				stmt = ev
			}
		}
	}
	if len(names) == 0 || names[0] != "test.go" {
		t.Fatalf("first span should be the file span, got %v", names)
	}
	if !slices.Contains(names, "top-level") || !slices.Contains(names, "stmt") {
		t.Fatalf("missing production spans: %v", names)
	}
	if stmt.File != "test.go" || stmt.Offset == 0 {
		t.Fatalf("stmt span lacks its position: %+v", stmt)
	}
}

func TestParseFileSpanEndsWithStats(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	parseWith(t, wrapFunc("\tx := )"), parser.Options{Tracer: ring})

	events := ring.Snapshot()
	last := events[len(events)-1]
	if last.Kind != trace.KindSpanEnd || last.Stats == nil {
		t.Fatalf("file span should end with stats: %+v", last)
	}
	if last.Stats.Tokens == 0 || last.Stats.Errors == 0 {
		t.Fatalf("stats = %+v", *last.Stats)
	}
}

func TestParseTracesFileOnlyAtDetail(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	parseWith(t, wrapFunc("\tx := 1"), parser.Options{Tracer: ring})
	for _, ev := range ring.Snapshot() {
		if ev.Scope == trace.ScopeProduction {
			t.Fatalf("production span %q emitted at detail level", ev.Name)
		}
	}
	if len(ring.Snapshot()) == 0 {
		t.Fatalf("file span missing")
	}
}
