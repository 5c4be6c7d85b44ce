package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/termfx/pinpoint/core"
)

const samplePage = `export default function Page() {
  return (
    <main>
      <h1 className="text-4xl">Welcome</h1>
    </main>
  );
}
`

func TestParse(t *testing.T) {
	tree, err := Parse("page.tsx", []byte(samplePage))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	if tree.Root() == nil {
		t.Fatal("expected a root node")
	}
	if tree.Path() != "page.tsx" {
		t.Errorf("Path = %q, want page.tsx", tree.Path())
	}
	if string(tree.Source()) != samplePage {
		t.Error("Source should round-trip the input bytes")
	}
}

func TestParseRejectsMalformedSource(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"garbage", "const x = {{{{ <div </"},
		{"unclosed element", "export default function Page() { return (<div>; }"},
		{"missing brace", "function f( {"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := Parse("bad.tsx", []byte(tc.src))
			if err == nil {
				tree.Close()
				t.Fatal("expected an error for malformed source")
			}
			var perr *core.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %T, want *core.ParseError", err)
			}
			if perr.Path != "bad.tsx" {
				t.Errorf("Path = %q, want bad.tsx", perr.Path)
			}
		})
	}
}

func TestSplice(t *testing.T) {
	tree, err := Parse("page.tsx", []byte(samplePage))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	idx := strings.Index(samplePage, "Welcome")
	if idx < 0 {
		t.Fatal("fixture missing Welcome")
	}
	if err := tree.Splice(uint32(idx), uint32(idx+len("Welcome")), []byte("Hello")); err != nil {
		t.Fatalf("Splice failed: %v", err)
	}

	out := string(tree.Source())
	if !strings.Contains(out, ">Hello<") {
		t.Errorf("spliced source missing replacement: %s", out)
	}
	if strings.Contains(out, "Welcome") {
		t.Error("spliced source still contains old text")
	}
	// The tree must be re-parsed and usable after a splice.
	if tree.Root() == nil || tree.Root().HasError() {
		t.Error("tree should re-parse cleanly after splice")
	}
}

func TestSpliceOutOfBounds(t *testing.T) {
	tree, err := Parse("page.tsx", []byte("const a = 1;"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	if err := tree.Splice(5, 4, nil); err == nil {
		t.Error("expected error for inverted range")
	}
	if err := tree.Splice(0, 9999, nil); err == nil {
		t.Error("expected error for range past end")
	}
}

func TestValidate(t *testing.T) {
	if !Validate([]byte(samplePage)) {
		t.Error("well-formed page should validate")
	}
	if Validate([]byte("export default function Page() { return (<div>; }")) {
		t.Error("broken page should not validate")
	}
}

func TestFormat(t *testing.T) {
	in := []byte("const a = 1;   \nconst b = 2;\t\n\n\n")
	out := Format(in)
	want := "const a = 1;\nconst b = 2;\n"
	if string(out) != want {
		t.Errorf("Format = %q, want %q", out, want)
	}

	// Formatting never produces output that fails to parse; on doubt the
	// input comes back unchanged.
	if got := Format(nil); len(got) != 0 {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
}
