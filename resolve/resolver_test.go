package resolve

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/termfx/pinpoint/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeProject lays out files under a temp root and returns the root.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func newTestResolver(root string) *Resolver {
	return New(root, []string{"src", "app", "components"}, []string{"node_modules", ".git"}, testLogger())
}

func TestResolveFileOwnerPath(t *testing.T) {
	root := writeProject(t, map[string]string{
		"components/Card.tsx": `export default function Card() { return <div>card</div>; }`,
	})
	r := newTestResolver(root)

	path, via := r.ResolveFile(context.Background(), core.Descriptor{
		SourceFile:    "app/page.tsx",
		Tag:           "div",
		OwnerFilePath: "components/Card.tsx",
	})
	if via != ViaOwnerPath {
		t.Fatalf("via = %q, want %q", via, ViaOwnerPath)
	}
	if path != filepath.Join(root, "components/Card.tsx") {
		t.Errorf("path = %q", path)
	}
}

func TestResolveFileImportBinding(t *testing.T) {
	root := writeProject(t, map[string]string{
		"app/page.tsx": `import Card from "../components/Card";

export default function Page() {
  return <Card title="hi" />;
}
`,
		"components/Card.tsx": `export default function Card({ title }) { return <div>{title}</div>; }`,
	})
	r := newTestResolver(root)

	path, via := r.ResolveFile(context.Background(), core.Descriptor{
		SourceFile:         "app/page.tsx",
		Tag:                "div",
		OwnerComponentName: "Card",
	})
	if via != ViaImport {
		t.Fatalf("via = %q, want %q", via, ViaImport)
	}
	if path != filepath.Join(root, "components/Card.tsx") {
		t.Errorf("path = %q", path)
	}

	// Cached resolution survives a second call.
	again, _ := r.ResolveFile(context.Background(), core.Descriptor{
		SourceFile:         "app/page.tsx",
		Tag:                "div",
		OwnerComponentName: "Card",
	})
	if again != path {
		t.Errorf("cached path = %q, want %q", again, path)
	}
}

func TestResolveFileStrictTextSearch(t *testing.T) {
	root := writeProject(t, map[string]string{
		"app/page.tsx":  `export default function Page() { return <div>home</div>; }`,
		"app/about.tsx": `export default function About() { return <h1>About Us</h1>; }`,
	})
	r := newTestResolver(root)

	path, via := r.ResolveFile(context.Background(), core.Descriptor{
		SourceFile:        "app/page.tsx",
		Tag:               "h1",
		ElementIdentifier: "About Us",
	})
	if via != ViaStrictSearch {
		t.Fatalf("via = %q, want %q", via, ViaStrictSearch)
	}
	if path != filepath.Join(root, "app/about.tsx") {
		t.Errorf("path = %q", path)
	}
}

func TestResolveFileSearchIsDeterministic(t *testing.T) {
	// Three files carry the same element; the winner must not depend on
	// walker scheduling. src/ outranks components/, and within a directory
	// paths order lexicographically.
	root := writeProject(t, map[string]string{
		"app/page.tsx":       `export default function Page() { return <div>home</div>; }`,
		"components/Zed.tsx": `const Zed = () => <h2>Greetings</h2>;`,
		"components/Ace.tsx": `const Ace = () => <h2>Greetings</h2>;`,
		"src/Deep.tsx":       `const Deep = () => <h2>Greetings</h2>;`,
	})
	r := newTestResolver(root)

	want := filepath.Join(root, "src/Deep.tsx")
	for i := 0; i < 10; i++ {
		path, via := r.ResolveFile(context.Background(), core.Descriptor{
			SourceFile:        "app/page.tsx",
			Tag:               "h2",
			ElementIdentifier: "Greetings",
		})
		if via != ViaStrictSearch {
			t.Fatalf("via = %q, want %q", via, ViaStrictSearch)
		}
		if path != want {
			t.Fatalf("run %d resolved %q, want %q", i, path, want)
		}
	}
}

func TestPickDeterministic(t *testing.T) {
	root := writeProject(t, map[string]string{})
	r := newTestResolver(root)

	a := filepath.Join(root, "components/Ace.tsx")
	z := filepath.Join(root, "components/Zed.tsx")
	s := filepath.Join(root, "src/Deep.tsx")

	if got := r.pickDeterministic(nil); got != "" {
		t.Errorf("empty input: %q", got)
	}
	if got := r.pickDeterministic([]string{z, a}); got != a {
		t.Errorf("lexicographic order: got %q, want %q", got, a)
	}
	if got := r.pickDeterministic([]string{z, s, a}); got != s {
		t.Errorf("source-dir order: got %q, want %q", got, s)
	}
}

func TestResolveFileViewedFileWins(t *testing.T) {
	root := writeProject(t, map[string]string{
		"app/page.tsx": `export default function Page() { return <h1>Welcome</h1>; }`,
	})
	r := newTestResolver(root)

	path, via := r.ResolveFile(context.Background(), core.Descriptor{
		SourceFile:        "app/page.tsx",
		Tag:               "h1",
		ElementIdentifier: "Welcome",
	})
	if via != ViaStrictSearch || path != filepath.Join(root, "app/page.tsx") {
		t.Errorf("path=%q via=%q", path, via)
	}
}

func TestResolveFileWeakSearch(t *testing.T) {
	root := writeProject(t, map[string]string{
		"app/list.tsx": `const xs = ["Alpha"];
const X = () => <ul>{xs.map((x) => <li key={x}>{x}</li>)}</ul>;
`,
	})
	r := newTestResolver(root)

	// The text only exists at render time; the strict pass fails inside
	// the element and the weak pass accepts the dynamic one.
	path, via := r.ResolveFile(context.Background(), core.Descriptor{
		SourceFile:        "app/list.tsx",
		Tag:               "li",
		ElementIdentifier: "Alpha",
	})
	if via != ViaWeakSearch {
		t.Fatalf("via = %q, want %q", via, ViaWeakSearch)
	}
	if path != filepath.Join(root, "app/list.tsx") {
		t.Errorf("path = %q", path)
	}
}

func TestResolveFileExhausted(t *testing.T) {
	root := writeProject(t, map[string]string{
		"app/page.tsx": `const X = () => <div>static</div>;`,
	})
	r := newTestResolver(root)

	path, via := r.ResolveFile(context.Background(), core.Descriptor{
		SourceFile:        "app/page.tsx",
		Tag:               "h1",
		ElementIdentifier: "Nowhere",
	})
	if path != "" || via != "" {
		t.Errorf("exhausted chain: path=%q via=%q", path, via)
	}
}

func TestResolveComponentByName(t *testing.T) {
	root := writeProject(t, map[string]string{
		"components/Badge.tsx":        `export default function Badge() { return <span>badge</span>; }`,
		"components/Hero/index.tsx":   `export default function Hero() { return <div>hero</div>; }`,
		"components/unrelated.tsx":    `export const nope = 1;`,
		"node_modules/Badge/fake.tsx": `should never be found`,
	})
	r := newTestResolver(root)

	if got := r.ResolveComponentByName(context.Background(), "Badge"); got != filepath.Join(root, "components/Badge.tsx") {
		t.Errorf("Badge = %q", got)
	}
	if got := r.ResolveComponentByName(context.Background(), "Hero"); got != filepath.Join(root, "components/Hero/index.tsx") {
		t.Errorf("Hero = %q", got)
	}
	if got := r.ResolveComponentByName(context.Background(), "Missing"); got != "" {
		t.Errorf("Missing = %q", got)
	}
}

func TestWalkerSkipsAndFilters(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/a.tsx":               "const a = 1;",
		"src/nested/b.jsx":        "const b = 1;",
		"src/readme.md":           "not source",
		"src/node_modules/x.tsx":  "skipped",
		"app/c.ts":                "const c = 1;",
		"ignored-elsewhere/d.tsx": "outside source dirs",
	})

	w := NewWalker(root, []string{"src", "app"}, []string{"node_modules"})
	var (
		mu   sync.Mutex
		seen []string
	)
	w.Each(context.Background(), func(path string) bool {
		rel, _ := filepath.Rel(root, path)
		mu.Lock()
		seen = append(seen, filepath.ToSlash(rel))
		mu.Unlock()
		return true
	})

	sort.Strings(seen)
	want := []string{"app/c.ts", "src/a.tsx", "src/nested/b.jsx"}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}
}

func TestWalkerHonorsGitignore(t *testing.T) {
	root := writeProject(t, map[string]string{
		".gitignore":        "src/generated/\nsrc/secret.tsx\n",
		"src/keep.tsx":      "const k = 1;",
		"src/secret.tsx":    "const s = 1;",
		"src/generated/g.tsx": "const g = 1;",
	})

	w := NewWalker(root, []string{"src"}, nil)
	var (
		mu   sync.Mutex
		seen []string
	)
	w.Each(context.Background(), func(path string) bool {
		mu.Lock()
		seen = append(seen, filepath.Base(path))
		mu.Unlock()
		return true
	})

	if len(seen) != 1 || seen[0] != "keep.tsx" {
		t.Errorf("seen = %v, want only keep.tsx", seen)
	}
}

func TestWalkerStopsEarly(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/a.tsx": "1", "src/b.tsx": "2", "src/c.tsx": "3",
	})

	w := NewWalker(root, []string{"src"}, nil)
	var count int32
	var mu sync.Mutex
	w.Each(context.Background(), func(path string) bool {
		mu.Lock()
		count++
		mu.Unlock()
		return false
	})
	// Workers already holding a path may still run; the walk must still
	// terminate without visiting everything serially forever.
	if count == 0 {
		t.Fatal("callback never ran")
	}
}
