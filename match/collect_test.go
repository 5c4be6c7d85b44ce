package match

import (
	"reflect"
	"strings"
	"testing"

	"github.com/termfx/pinpoint/parser"
)

func parseFixture(t *testing.T, source string) *parser.Tree {
	t.Helper()
	tree, err := parser.Parse("fixture.tsx", []byte(source))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	t.Cleanup(tree.Close)
	return tree
}

func TestAcceptableNames(t *testing.T) {
	tests := []struct {
		tag  string
		want []string
	}{
		{"a", []string{"a", "A", "Link"}},
		{"img", []string{"img", "Img", "Image"}},
		{"h1", []string{"h1", "H1"}},
		{"Button", []string{"button", "Button"}},
	}
	for _, tt := range tests {
		if got := AcceptableNames(tt.tag); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("AcceptableNames(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestCollect(t *testing.T) {
	tree := parseFixture(t, `
export default function Page() {
  return (
    <main>
      <h1 className="text-4xl font-bold">Welcome</h1>
      <p>First paragraph</p>
      <p>Second paragraph</p>
      <img src="/logo.png" alt="Logo" />
    </main>
  );
}
`)

	h1s := Collect(tree, []string{"h1"}, nil)
	if len(h1s) != 1 {
		t.Fatalf("expected 1 h1 candidate, got %d", len(h1s))
	}
	c := h1s[0]
	if c.Tag != "h1" {
		t.Errorf("Tag = %q", c.Tag)
	}
	if c.ClassName != "text-4xl font-bold" {
		t.Errorf("ClassName = %q", c.ClassName)
	}
	if c.Text != "Welcome" {
		t.Errorf("Text = %q", c.Text)
	}
	if c.HasDynamicChild {
		t.Error("static element flagged dynamic")
	}
	if len(c.Parents) == 0 {
		t.Error("expected a parent chain")
	}

	if ps := Collect(tree, []string{"p"}, nil); len(ps) != 2 {
		t.Errorf("expected 2 p candidates, got %d", len(ps))
	}

	// Self-closing elements are candidates too, with their attributes.
	imgs := Collect(tree, AcceptableNames("img"), nil)
	if len(imgs) != 1 {
		t.Fatalf("expected 1 img candidate, got %d", len(imgs))
	}
	var alt string
	for _, attr := range imgs[0].Attributes {
		if attr.Name == "alt" {
			alt = attr.Value
			if !attr.Static {
				t.Error("string attribute should be static")
			}
		}
	}
	if alt != "Logo" {
		t.Errorf("alt = %q, want Logo", alt)
	}
}

func TestCollectPredicate(t *testing.T) {
	tree := parseFixture(t, `
const X = () => (
  <div>
    <span className="keep">one</span>
    <span className="drop">two</span>
  </div>
);
`)
	got := Collect(tree, []string{"span"}, func(c Candidate) bool {
		return c.ClassName == "keep"
	})
	if len(got) != 1 || got[0].Text != "one" {
		t.Fatalf("predicate filtering failed: %+v", got)
	}
}

func TestExtractTextDynamic(t *testing.T) {
	tree := parseFixture(t, `
const X = ({ name }) => (
  <div>
    <p>Hello {name}</p>
    <p>Count {"literal"}</p>
    <p><b>nested</b> text</p>
  </div>
);
`)
	ps := Collect(tree, []string{"p"}, nil)
	if len(ps) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(ps))
	}

	if ps[0].Text != "Hello "+DynamicMarker || !ps[0].HasDynamicChild {
		t.Errorf("dynamic child: text=%q dynamic=%v", ps[0].Text, ps[0].HasDynamicChild)
	}
	if ps[1].Text != "Count literal" || ps[1].HasDynamicChild {
		t.Errorf("static expression: text=%q dynamic=%v", ps[1].Text, ps[1].HasDynamicChild)
	}
	if ps[2].Text != "nested text" {
		t.Errorf("nested element text = %q", ps[2].Text)
	}
}

func TestContainsText(t *testing.T) {
	c := Candidate{Text: "Welcome   to the Site"}
	if !c.ContainsText("welcome TO") {
		t.Error("normalized containment should match")
	}
	if c.ContainsText("absent") {
		t.Error("unrelated text should not match")
	}
	if c.ContainsText("") {
		t.Error("empty target never matches")
	}
}

func TestElementName(t *testing.T) {
	tree := parseFixture(t, `const X = () => <Card title="hi" />;`)
	cards := Collect(tree, []string{"Card"}, nil)
	if len(cards) != 1 {
		t.Fatalf("expected 1 Card, got %d", len(cards))
	}
	if name := ElementName(tree, cards[0].Node); name != "Card" {
		t.Errorf("ElementName = %q", name)
	}
	if !strings.HasPrefix(tree.Text(cards[0].Node), "<Card") {
		t.Error("node text should cover the element")
	}
}
