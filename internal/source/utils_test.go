package source

import "testing"

func TestToLineCol(t *testing.T) {
	content := []byte("ab\ncd\n\nef")
	idx := buildLineIndex(content)
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // сам '\n' принадлежит первой строке
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{9, LineCol{4, 3}},
	}
	for _, c := range cases {
		if got := toLineCol(idx, c.off); got != c.want {
			t.Fatalf("toLineCol(%d) = %v, want %v", c.off, got, c.want)
		}
	}
	if got := toLineCol(nil, 4); got != (LineCol{1, 5}) {
		t.Fatalf("single line: %v", got)
	}
}

func TestNormalizeCRLFKeepsLoneCR(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc"))
	if !changed || string(out) != "a\nb\rc" {
		t.Fatalf("got %q changed=%v", out, changed)
	}
	if _, changed := normalizeCRLF([]byte("plain\n")); changed {
		t.Fatalf("no CR, nothing to change")
	}
}

func TestRelativePathOutsideBase(t *testing.T) {
	got, err := RelativePath("/etc/hosts", "/workspace/project")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/etc/hosts" {
		t.Fatalf("escaping path must stay absolute, got %q", got)
	}
	got, err = RelativePath("/workspace/project/a/b.go", "/workspace/project")
	if err != nil || got != "a/b.go" {
		t.Fatalf("got %q, %v", got, err)
	}
}
