package testkit

import (
	"strings"
	"testing"

	"gocst/internal/cst"
	"gocst/internal/parser"
	"gocst/internal/source"
)

func parse(src string) (*cst.Node, *source.File) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("k.go", []byte(src)))
	return parser.ParseFile(file, parser.Options{}).Root, file
}

func TestCheckTreeInvariantsAcceptsParsedTrees(t *testing.T) {
	for _, src := range []string{
		"",
		"package p\n",
		"package p\n\nfunc f() {\n\tif x { return }\n}\n",
		"func foo(",
		"package p\n) } ]\nvar = \n",
		"// только комментарий\n",
	} {
		root, file := parse(src)
		if err := CheckTreeInvariants(root, file); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}

func TestCheckTreeInvariantsRejectsBrokenTrees(t *testing.T) {
	root, file := parse("package p\n")

	// выкидываем последний лист: текст перестаёт совпадать
	trimmed := *root
	trimmed.Children = trimmed.Children[:len(trimmed.Children)-1]
	if err := CheckTreeInvariants(&trimmed, file); err == nil || !strings.Contains(err.Error(), "differs") {
		t.Fatalf("want text mismatch, got %v", err)
	}

	other := source.NewFileSet()
	other.AddVirtual("pad.go", nil)
	moved := other.Get(other.AddVirtual("k.go", []byte("package p\n")))
	if err := CheckTreeInvariants(root, moved); err == nil {
		t.Fatalf("want file id mismatch")
	}
}
