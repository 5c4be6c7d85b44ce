// Package match finds the syntax node behind a clicked element: the
// collector gathers structurally plausible candidates, the matcher scores
// them against the visual descriptor and picks a confident winner or
// reports ambiguity.
package match

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/pinpoint/core"
	"github.com/termfx/pinpoint/parser"
)

// DynamicMarker stands in for an expression child that cannot be statically
// evaluated, so dynamic content never spuriously matches literal text.
const DynamicMarker = "[dynamic]"

// tagAliases maps native tags to common component wrappers that render them.
var tagAliases = map[string][]string{
	"a":      {"Link"},
	"img":    {"Image"},
	"button": {"Button"},
}

// AcceptableNames returns every element name that may render the requested
// tag: the lowercase tag, the tag verbatim, its capitalized form (component
// re-exports of native elements), and any known wrapper aliases.
func AcceptableNames(tag string) []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(n string) {
		if n == "" {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}

	lower := strings.ToLower(tag)
	add(lower)
	add(tag)
	add(capitalize(lower))
	for _, alias := range tagAliases[lower] {
		add(alias)
	}
	return names
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Attribute is one attribute on a candidate's opening element. Static is
// true when the value is a plain string literal.
type Attribute struct {
	Name   string
	Value  string
	Static bool
}

// Candidate is a read-only view over one element node within a tree. It is
// valid only as long as the owning tree is alive and unmutated.
type Candidate struct {
	Node       *sitter.Node
	Parents    []*sitter.Node
	Tag        string
	ClassName  string
	Text       string
	Attributes []Attribute
	// HasDynamicChild reports whether any child is non-literal content.
	HasDynamicChild bool
}

// Predicate filters collected candidates. A nil predicate keeps everything.
type Predicate func(c Candidate) bool

// Collect walks every element node whose resolved tag name is in names and
// returns candidates passing the predicate.
func Collect(t *parser.Tree, names []string, pred Predicate) []Candidate {
	accept := make(map[string]struct{}, len(names))
	for _, n := range names {
		accept[n] = struct{}{}
	}

	var out []Candidate
	var parents []*sitter.Node

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if isElement(node) {
			if tag := ElementName(t, node); tag != "" {
				if _, ok := accept[tag]; ok {
					c := buildCandidate(t, node, tag, parents)
					if pred == nil || pred(c) {
						out = append(out, c)
					}
				}
			}
		}

		parents = append(parents, node)
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
		parents = parents[:len(parents)-1]
	}

	walk(t.Root())
	return out
}

func isElement(node *sitter.Node) bool {
	switch node.Type() {
	case "jsx_element", "jsx_self_closing_element":
		return true
	}
	return false
}

// ElementName resolves the tag/component name of an element node.
func ElementName(t *parser.Tree, node *sitter.Node) string {
	open := OpeningElement(node)
	if open == nil {
		return ""
	}
	name := open.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return t.Text(name)
}

// OpeningElement returns the node carrying an element's name and
// attributes: the jsx_opening_element for paired elements, the element
// itself when self-closing.
func OpeningElement(node *sitter.Node) *sitter.Node {
	switch node.Type() {
	case "jsx_self_closing_element":
		return node
	case "jsx_element":
		for i := 0; i < int(node.ChildCount()); i++ {
			if child := node.Child(i); child.Type() == "jsx_opening_element" {
				return child
			}
		}
	}
	return nil
}

func buildCandidate(t *parser.Tree, node *sitter.Node, tag string, parents []*sitter.Node) Candidate {
	chain := make([]*sitter.Node, len(parents))
	copy(chain, parents)

	c := Candidate{
		Node:    node,
		Parents: chain,
		Tag:     tag,
	}
	c.Attributes = CollectAttributes(t, node)
	for _, attr := range c.Attributes {
		if attr.Name == "className" || attr.Name == "class" {
			c.ClassName = attr.Value
			break
		}
	}
	c.Text, c.HasDynamicChild = ExtractText(t, node)
	return c
}

// CollectAttributes gathers the attributes of an element's opening tag.
// Expression-valued attributes are kept with their raw expression text but
// flagged non-static.
func CollectAttributes(t *parser.Tree, node *sitter.Node) []Attribute {
	open := OpeningElement(node)
	if open == nil {
		return nil
	}

	var attrs []Attribute
	for i := 0; i < int(open.ChildCount()); i++ {
		child := open.Child(i)
		if child.Type() != "jsx_attribute" {
			continue
		}

		var attr Attribute
		for j := 0; j < int(child.ChildCount()); j++ {
			part := child.Child(j)
			switch part.Type() {
			case "property_identifier":
				attr.Name = t.Text(part)
			case "string":
				attr.Value = stringContent(t, part)
				attr.Static = true
			case "jsx_expression":
				if lit, ok := staticExpressionValue(t, part); ok {
					attr.Value = lit
					attr.Static = true
				} else {
					attr.Value = t.Text(part)
				}
			}
		}
		if attr.Name != "" {
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

// ExtractText concatenates the static text content of an element, marking
// non-literal expression children with DynamicMarker. The second return
// reports whether any dynamic child was seen.
func ExtractText(t *parser.Tree, node *sitter.Node) (string, bool) {
	var parts []string
	dynamic := false

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			switch child.Type() {
			case "jsx_text":
				if s := strings.TrimSpace(t.Text(child)); s != "" {
					parts = append(parts, s)
				}
			case "jsx_expression":
				if lit, ok := staticExpressionValue(t, child); ok {
					parts = append(parts, lit)
				} else {
					parts = append(parts, DynamicMarker)
					dynamic = true
				}
			case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
				walk(child)
			}
		}
	}
	walk(node)

	return strings.Join(parts, " "), dynamic
}

// staticExpressionValue statically evaluates a jsx_expression child when it
// wraps a plain string or number literal.
func staticExpressionValue(t *parser.Tree, expr *sitter.Node) (string, bool) {
	var inner *sitter.Node
	for i := 0; i < int(expr.NamedChildCount()); i++ {
		child := expr.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		if inner != nil {
			return "", false
		}
		inner = child
	}
	if inner == nil {
		return "", false
	}

	switch inner.Type() {
	case "string":
		return stringContent(t, inner), true
	case "number":
		return t.Text(inner), true
	case "template_string":
		// Static only when there are no interpolations.
		text := t.Text(inner)
		if !strings.Contains(text, "${") {
			return strings.Trim(text, "`"), true
		}
	}
	return "", false
}

// stringContent returns a string literal's value without the quotes.
func stringContent(t *parser.Tree, str *sitter.Node) string {
	text := t.Text(str)
	if len(text) >= 2 {
		switch text[0] {
		case '"', '\'', '`':
			return text[1 : len(text)-1]
		}
	}
	return text
}

// ContainsText reports whether a candidate's extracted text contains the
// normalized target text.
func (c Candidate) ContainsText(target string) bool {
	target = core.Normalize(target)
	if target == "" {
		return false
	}
	return strings.Contains(core.Normalize(c.Text), target)
}
