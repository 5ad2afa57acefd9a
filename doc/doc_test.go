package doc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtract_FileDoc(t *testing.T) {
	src := `// File-level documentation.
// Second line.

macro nop { }
`
	fd := Extract(src, "test.spp")
	if fd.Doc != "File-level documentation.\nSecond line." {
		t.Errorf("file doc = %q", fd.Doc)
	}
}

func TestExtract_MacroDoc(t *testing.T) {
	src := `x = 1
// Adds two numbers.
macro add {
  $1 + $2
}
`
	fd := Extract(src, "test.spp")
	if len(fd.Macros) != 1 {
		t.Fatalf("expected 1 macro, got %d", len(fd.Macros))
	}
	m := fd.Macros[0]
	if m.Name != "add" {
		t.Errorf("name = %q", m.Name)
	}
	if m.Doc != "Adds two numbers." {
		t.Errorf("doc = %q", m.Doc)
	}
	if m.Arity != 2 {
		t.Errorf("arity = %d", m.Arity)
	}
	if m.Line != 3 {
		t.Errorf("line = %d", m.Line)
	}
	if fd.Doc != "" {
		t.Errorf("file doc = %q", fd.Doc)
	}
}

func TestExtract_PatternDoc(t *testing.T) {
	src := `x = 1
// Swaps operands.
pattern { swap $a $b } {
  $b $a
}
`
	fd := Extract(src, "test.spp")
	if len(fd.Patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(fd.Patterns))
	}
	p := fd.Patterns[0]
	if p.Match != "swap $a $b" {
		t.Errorf("match = %q", p.Match)
	}
	if p.Replace != "$b $a" {
		t.Errorf("replace = %q", p.Replace)
	}
	if p.Doc != "Swaps operands." {
		t.Errorf("doc = %q", p.Doc)
	}
	if p.Line != 3 {
		t.Errorf("line = %d", p.Line)
	}
}

func TestExtract_BlankLineBreaksAttachment(t *testing.T) {
	src := `x = 1
// Orphan comment.

macro m { $1 }
`
	fd := Extract(src, "test.spp")
	if len(fd.Macros) != 1 {
		t.Fatalf("expected 1 macro, got %d", len(fd.Macros))
	}
	if fd.Macros[0].Doc != "" {
		t.Errorf("doc = %q, want empty", fd.Macros[0].Doc)
	}
}

func TestExtract_CommentsInsideBodyIgnored(t *testing.T) {
	src := `x = 1
macro outer {
  // not a doc
  macro_like
}
// Real doc.
macro inner { }
`
	fd := Extract(src, "test.spp")
	if len(fd.Macros) != 2 {
		t.Fatalf("expected 2 macros, got %d", len(fd.Macros))
	}
	if fd.Macros[0].Doc != "" {
		t.Errorf("outer doc = %q", fd.Macros[0].Doc)
	}
	if fd.Macros[1].Name != "inner" || fd.Macros[1].Doc != "Real doc." {
		t.Errorf("inner = %+v", fd.Macros[1])
	}
}

func TestExtract_IndentedDefinition(t *testing.T) {
	src := "x = 1\n  // Indented.\n  macro m { $3 }\n"
	fd := Extract(src, "test.spp")
	if len(fd.Macros) != 1 {
		t.Fatalf("expected 1 macro, got %d", len(fd.Macros))
	}
	if fd.Macros[0].Arity != 3 || fd.Macros[0].Doc != "Indented." {
		t.Errorf("macro = %+v", fd.Macros[0])
	}
}

func TestFormatFile(t *testing.T) {
	fd := &FileDoc{
		Doc: "Library.",
		Macros: []MacroDoc{
			{Name: "add", Arity: 2, Doc: "Adds.\nTwo lines."},
			{Name: "hidden"},
		},
		Patterns: []PatternDoc{{Match: "a", Replace: "b", Doc: "Rewrites a."}},
	}
	got := FormatFile(fd, false)
	want := "Library.\n\nmacro add($1, $2)\n    Adds.\n    Two lines.\n\npattern { a } -> { b }\n    Rewrites a.\n"
	if got != want {
		t.Errorf("FormatFile =\n%q\nwant\n%q", got, want)
	}
	if !strings.Contains(FormatFile(fd, true), "macro hidden\n") {
		t.Errorf("undocumented macro missing with all=true")
	}
}

func TestLookupMacro(t *testing.T) {
	fd := Extract("x = 1\n// Doubles.\nmacro double { $1 $1 }\n", "t.spp")
	docStr, sig, ok := LookupMacro(fd, "double")
	if !ok {
		t.Fatal("double not found")
	}
	if got := FormatSymbol(docStr, sig); got != "macro double($1)\n    Doubles.\n" {
		t.Errorf("FormatSymbol = %q", got)
	}
	if _, _, ok := LookupMacro(fd, "missing"); ok {
		t.Error("missing macro found")
	}
}

func TestExtractDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.spp", "// A.\nmacro a { }\n")
	write("b.spp", "x\n// B.\nmacro b { }\n")
	write("notes.txt", "macro c { }\n")

	fd, err := ExtractDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(fd.Macros) != 2 {
		t.Fatalf("expected 2 macros, got %d", len(fd.Macros))
	}
	if fd.Doc != "A." {
		t.Errorf("doc = %q", fd.Doc)
	}
}
