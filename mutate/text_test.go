package mutate

import (
	"strings"
	"testing"

	"github.com/termfx/pinpoint/match"
	"github.com/termfx/pinpoint/parser"
)

func fixtureContext(t *testing.T, source, tag string) *Context {
	t.Helper()
	tree, err := parser.Parse("fixture.tsx", []byte(source))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	t.Cleanup(tree.Close)

	candidates := match.Collect(tree, match.AcceptableNames(tag), nil)
	if len(candidates) != 1 {
		t.Fatalf("fixture must have exactly one <%s>, got %d", tag, len(candidates))
	}
	return &Context{
		FilePath:    "fixture.tsx",
		Tree:        tree,
		Node:        candidates[0].Node,
		ElementName: candidates[0].Tag,
	}
}

func TestReplaceTextChild(t *testing.T) {
	ctx := fixtureContext(t, `
export default function Page() {
  return (
    <main>
      <h1 className="title">
        Welcome
      </h1>
    </main>
  );
}
`, "h1")

	changed, err := ReplaceText(ctx, "Welcome", "Hello")
	if err != nil {
		t.Fatalf("ReplaceText failed: %v", err)
	}
	if !changed {
		t.Fatal("expected a replacement")
	}

	out := string(ctx.Tree.Source())
	if !strings.Contains(out, "Hello") || strings.Contains(out, "Welcome") {
		t.Errorf("replacement missing: %s", out)
	}
	// Indentation around the literal survives.
	if !strings.Contains(out, "\n        Hello\n") {
		t.Errorf("whitespace not preserved: %q", out)
	}
	if !parser.Validate(ctx.Tree.Source()) {
		t.Error("mutated source must stay valid")
	}
}

func TestReplaceTextNormalizedLookup(t *testing.T) {
	ctx := fixtureContext(t, `const X = () => <p>  Multi   Word  Text  </p>;`, "p")

	changed, err := ReplaceText(ctx, "multi word text", "Short")
	if err != nil || !changed {
		t.Fatalf("normalized match failed: changed=%v err=%v", changed, err)
	}
	if !strings.Contains(string(ctx.Tree.Source()), "Short") {
		t.Error("replacement missing")
	}
}

func TestReplaceTextStringAttribute(t *testing.T) {
	ctx := fixtureContext(t, `const X = () => <Card title="Old title" />;`, "Card")

	changed, err := ReplaceText(ctx, "Old title", "New title")
	if err != nil || !changed {
		t.Fatalf("attribute replacement failed: changed=%v err=%v", changed, err)
	}
	out := string(ctx.Tree.Source())
	if !strings.Contains(out, `title="New title"`) {
		t.Errorf("quotes must survive: %s", out)
	}
}

func TestReplaceTextNoMatch(t *testing.T) {
	ctx := fixtureContext(t, `const X = () => <p>Something</p>;`, "p")

	changed, err := ReplaceText(ctx, "Absent", "New")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Error("no literal equals the old text; nothing should change")
	}
	if changed, _ := ReplaceText(ctx, "", "New"); changed {
		t.Error("empty old text never matches")
	}
}

func TestReplaceTextSecondPassFindsNothing(t *testing.T) {
	source := `const X = () => <p>Once</p>;`
	ctx := fixtureContext(t, source, "p")

	if changed, err := ReplaceText(ctx, "Once", "Twice"); err != nil || !changed {
		t.Fatalf("first pass: changed=%v err=%v", changed, err)
	}

	// Re-anchor on the re-parsed tree; the old literal is gone.
	node := RelocateElement(ctx.Tree, 16)
	if node == nil {
		t.Fatal("failed to re-anchor after splice")
	}
	ctx.Node = node
	if changed, _ := ReplaceText(ctx, "Once", "Twice"); changed {
		t.Error("replacement must not apply twice")
	}
}
