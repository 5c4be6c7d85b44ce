package risk

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/termfx/pinpoint/core"
)

func writeComponent(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Component.tsx")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testAnalyzer() *Analyzer {
	return NewAnalyzer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func hasSignal(a core.RiskAnalysis, signal string) bool {
	for _, s := range a.Signals {
		if s == signal {
			return true
		}
	}
	return false
}

func TestAnalyzeVariantProp(t *testing.T) {
	path := writeComponent(t, `
export default function Card({ variant, children }) {
  return (
    <div className={variant === "dark" ? "bg-gray-900" : "bg-white"}>
      {children}
    </div>
  );
}
`)
	analysis, err := testAnalyzer().Analyze(path)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if !analysis.Risky {
		t.Error("variant-driven styling must be risky")
	}
	if !hasSignal(analysis, SignalVariantProp) {
		t.Errorf("missing variant-prop signal: %v", analysis.Signals)
	}
	if !hasSignal(analysis, SignalDynamicClass) {
		t.Errorf("missing dynamic-class signal: %v", analysis.Signals)
	}
	if !analysis.Metadata.UsesVariantProps || !analysis.Metadata.UsesDynamicClass {
		t.Errorf("metadata incomplete: %+v", analysis.Metadata)
	}
	if analysis.Reason == "" {
		t.Error("risky verdicts carry a reason")
	}
}

func TestAnalyzeClassFromProps(t *testing.T) {
	path := writeComponent(t, `
export default function Box(props) {
  return <div className={props.className}>{props.children}</div>;
}
`)
	analysis, err := testAnalyzer().Analyze(path)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !analysis.Risky || !hasSignal(analysis, SignalClassFromProps) {
		t.Errorf("class-from-props not detected: %+v", analysis)
	}
}

func TestAnalyzePropsSpread(t *testing.T) {
	path := writeComponent(t, `
export default function Button(props) {
  return <button className="btn" {...props}>go</button>;
}
`)
	analysis, err := testAnalyzer().Analyze(path)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !hasSignal(analysis, SignalPropsSpread) || !analysis.Metadata.SpreadsProps {
		t.Errorf("props spread not detected: %+v", analysis)
	}
	// A spread alone does not make the file risky.
	if analysis.Risky {
		t.Error("spread without styling signals should stay advisory")
	}
}

func TestAnalyzeStaticComponent(t *testing.T) {
	path := writeComponent(t, `
export default function Title() {
  return <h2 className="font-bold">Hello</h2>;
}
`)
	analysis, err := testAnalyzer().Analyze(path)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if analysis.Risky {
		t.Errorf("static styling is safe: %+v", analysis)
	}
	if hasSignal(analysis, SignalNoClassName) {
		t.Error("file sets className, no-classname-prop must be absent")
	}
}

func TestAnalyzeNoClassName(t *testing.T) {
	path := writeComponent(t, `
export default function Bare() {
  return <p>plain</p>;
}
`)
	analysis, err := testAnalyzer().Analyze(path)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !hasSignal(analysis, SignalNoClassName) {
		t.Errorf("missing no-classname-prop signal: %v", analysis.Signals)
	}
	if analysis.Risky {
		t.Error("absence of class plumbing alone is not risky")
	}
}

func TestAnalyzeCachesByMtime(t *testing.T) {
	path := writeComponent(t, `export default function A() { return <p className="x">a</p>; }`)
	a := testAnalyzer()

	first, err := a.Analyze(path)
	if err != nil {
		t.Fatal(err)
	}

	// Same mtime: the cached verdict comes back even if content changed
	// behind the analyzer's back.
	info, _ := os.Stat(path)
	if err := os.WriteFile(path, []byte(`export default function A({ variant }) { return <p className={variant}>a</p>; }`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, info.ModTime(), info.ModTime()); err != nil {
		t.Fatal(err)
	}
	cached, err := a.Analyze(path)
	if err != nil {
		t.Fatal(err)
	}
	if cached.Risky != first.Risky {
		t.Error("unchanged mtime must serve the cached analysis")
	}

	// A new mtime invalidates.
	now := info.ModTime().Add(2_000_000_000)
	if err := os.Chtimes(path, now, now); err != nil {
		t.Fatal(err)
	}
	fresh, err := a.Analyze(path)
	if err != nil {
		t.Fatal(err)
	}
	if !fresh.Risky {
		t.Errorf("stale cache served after mtime change: %+v", fresh)
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	if _, err := testAnalyzer().Analyze(filepath.Join(t.TempDir(), "nope.tsx")); err == nil {
		t.Error("expected error for missing file")
	}
}
