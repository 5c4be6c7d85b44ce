// Package risk statically inspects a component file for signals that
// editing it in place would affect more than the clicked instance. The
// verdict is advisory: callers combine it with usage-site facts before
// deciding to warn, and a forced global edit skips it entirely.
package risk

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/pinpoint/core"
	"github.com/termfx/pinpoint/parser"
)

// Signal names reported in analyses and surfaced to callers.
const (
	SignalVariantProp    = "variant-prop"
	SignalDynamicClass   = "dynamic-class"
	SignalClassFromProps = "class-from-props"
	SignalNoClassName    = "no-classname-prop"
	SignalPropsSpread    = "props-spread"
)

// stylishProps are prop names that conventionally select a component's
// visual style. Their presence anywhere in a file suggests styling is
// driven by callers, not by the markup itself.
var stylishProps = map[string]struct{}{
	"variant": {}, "type": {}, "color": {}, "mode": {},
	"theme": {}, "intent": {}, "size": {},
}

// classAttrNames are JSX attribute names that carry class composition.
var classAttrNames = map[string]struct{}{
	"className": {}, "classes": {}, "variants": {}, "styles": {},
}

// dynamicClassMarkers indicate a class value assembled at render time.
var dynamicClassMarkers = []string{"${", "cn(", "clsx(", "cva(", "classnames(", "?"}

// Analyzer caches per-file analyses keyed by modification time.
type Analyzer struct {
	mu    sync.Mutex
	cache map[string]cachedAnalysis
	log   *slog.Logger
}

type cachedAnalysis struct {
	stamp    time.Time
	analysis core.RiskAnalysis
}

// NewAnalyzer creates an analyzer with an empty cache.
func NewAnalyzer(log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{cache: make(map[string]cachedAnalysis), log: log}
}

// Analyze inspects filePath and returns the risk verdict, reusing a cached
// result while the file's mtime is unchanged.
func (a *Analyzer) Analyze(filePath string) (core.RiskAnalysis, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return core.RiskAnalysis{}, err
	}

	a.mu.Lock()
	if entry, ok := a.cache[filePath]; ok && entry.stamp.Equal(info.ModTime()) {
		a.mu.Unlock()
		return entry.analysis, nil
	}
	a.mu.Unlock()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return core.RiskAnalysis{}, err
	}
	tree, err := parser.Parse(filePath, data)
	if err != nil {
		return core.RiskAnalysis{}, err
	}
	defer tree.Close()

	analysis := analyzeTree(tree)

	a.mu.Lock()
	a.cache[filePath] = cachedAnalysis{stamp: info.ModTime(), analysis: analysis}
	a.mu.Unlock()

	a.log.Debug("risk analysis", "path", filePath, "risky", analysis.Risky, "signals", analysis.Signals)
	return analysis, nil
}

func analyzeTree(t *parser.Tree) core.RiskAnalysis {
	var (
		analysis     core.RiskAnalysis
		sawClassAttr bool
	)
	addSignal := func(signal string) {
		for _, s := range analysis.Signals {
			if s == signal {
				return
			}
		}
		analysis.Signals = append(analysis.Signals, signal)
	}

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		switch node.Type() {
		case "identifier", "property_identifier", "shorthand_property_identifier", "shorthand_property_identifier_pattern":
			if _, ok := stylishProps[t.Text(node)]; ok {
				analysis.Metadata.UsesVariantProps = true
				addSignal(SignalVariantProp)
			}
		case "jsx_attribute":
			name, value, static := attributeParts(t, node)
			if _, ok := classAttrNames[name]; ok {
				sawClassAttr = true
				if !static {
					if strings.Contains(value, "props.") {
						addSignal(SignalClassFromProps)
						analysis.Metadata.UsesDynamicClass = true
					}
					if containsDynamicMarker(value) {
						addSignal(SignalDynamicClass)
						analysis.Metadata.UsesDynamicClass = true
					}
				}
				if name == "className" || name == "class" {
					analysis.Metadata.HasClassOverride = true
				}
			}
		case "jsx_expression":
			parent := node.Parent()
			if parent != nil && (parent.Type() == "jsx_opening_element" || parent.Type() == "jsx_self_closing_element") {
				if strings.Contains(t.Text(node), "...") {
					analysis.Metadata.SpreadsProps = true
					addSignal(SignalPropsSpread)
				}
			}
		}

		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(t.Root())

	if !sawClassAttr {
		addSignal(SignalNoClassName)
	}

	for _, s := range analysis.Signals {
		switch s {
		case SignalVariantProp, SignalDynamicClass, SignalClassFromProps:
			analysis.Risky = true
		}
	}
	if analysis.Risky {
		analysis.Reason = "styling in this file is shared or caller-driven: " + strings.Join(analysis.Signals, ", ")
	}

	return analysis
}

func attributeParts(t *parser.Tree, attr *sitter.Node) (name, value string, static bool) {
	for i := 0; i < int(attr.ChildCount()); i++ {
		child := attr.Child(i)
		switch child.Type() {
		case "property_identifier":
			name = t.Text(child)
		case "string":
			value = t.Text(child)
			static = true
		case "jsx_expression":
			value = t.Text(child)
			static = false
		}
	}
	return name, value, static
}

func containsDynamicMarker(value string) bool {
	lower := strings.ToLower(value)
	for _, marker := range dynamicClassMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
