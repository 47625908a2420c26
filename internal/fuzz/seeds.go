package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// languageSeeds cover every production family, including broken inputs that
// previously stressed recovery.
var languageSeeds = []string{
	"",
	"package main\n\nfunc main() {\n\tx := 1\n\t_ = x\n}\n",
	"package p\nimport (\n\t\"fmt\"\n\tstr \"strings\"\n)\nvar _ = fmt.Sprint(str.ToUpper(\"x\"))\n",
	"package p\ntype List[T any] struct{ head *node[T] }\nfunc Map[T, U any](xs []T, f func(T) U) []U { return nil }\n",
	"package p\nfunc f() {\n\tswitch v := x.(type) {\n\tcase int:\n\tdefault:\n\t}\n\tselect {\n\tcase <-ch:\n\t}\n}\n",
	"package p\nfunc f() {\n\tif x == (T{}) {\n\t}\n\tfor _, v := range []int{1, 2} {\n\t\t_ = v\n\t}\n}\n",
	"package p\nconst (\n\tA = iota\n\tB\n)\n",
	"func foo(",
	"package p\nfunc f() {\n\tif X{}{\n}\n",
	"package p\nvar (\n\tx int\nfunc g() {}\n",
	"package p\nfunc f() { { { { } } } }\n",
	"package p\nfunc f() {\n\tf(\n\t\ta,\n\t\tb\n\t)\n}\n",
	"package p\n) } ] case default:\n",
	"package p\nvar s = `raw\nstring` + \"unterminated\n",
	"package p\ntype A [N * 2]byte\ntype B [...]int\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addSourceSeeds(f)
}

// addSourceSeeds adds the module's own Go files: a realistic corpus that is
// always present.
func addSourceSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "internal")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		// #nosec G304 -- path comes from the repository walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
