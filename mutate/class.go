package mutate

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/pinpoint/match"
)

// TokenPredicate identifies the primary class token an edit replaces, e.g.
// "is a text color token". At most one token per class list is primary.
type TokenPredicate func(token string) bool

// ReplaceClassToken edits the matched element's class attribute as a
// whitespace-separated token list: the first token satisfying pred is
// replaced by newToken and later duplicates are collapsed; when no token
// satisfies pred, newToken is appended. A missing class attribute is
// synthesized. Template and conditional class values are edited at the
// level of their static string parts; a fully dynamic class expression is
// left untouched and reported via the note.
func ReplaceClassToken(ctx *Context, pred TokenPredicate, newToken string) (bool, string, error) {
	t := ctx.Tree
	attr := classAttribute(ctx)
	if attr == nil {
		return synthesizeClassAttribute(ctx, newToken)
	}

	if str := childOfType(attr, "string"); str != nil {
		inner := t.Text(str)
		if len(inner) < 2 {
			return false, "malformed class attribute", nil
		}
		rewritten, changed := rewriteTokenList(inner[1:len(inner)-1], pred, newToken, true)
		if !changed {
			return false, "", nil
		}
		if err := t.Splice(str.StartByte()+1, str.EndByte()-1, []byte(rewritten)); err != nil {
			return false, "", err
		}
		return true, "", nil
	}

	expr := childOfType(attr, "jsx_expression")
	if expr == nil {
		return false, "class attribute has no value", nil
	}

	if tmpl := findDescendant(expr, "template_string"); tmpl != nil {
		return editTemplateClass(ctx, tmpl, pred, newToken)
	}

	// Conditional/logical/call expressions: edit their static string parts.
	var literals []*sitter.Node
	collectDescendants(expr, "string", &literals)
	for _, lit := range literals {
		inner := t.Text(lit)
		if len(inner) < 2 {
			continue
		}
		rewritten, changed := rewriteTokenList(inner[1:len(inner)-1], pred, newToken, false)
		if !changed {
			continue
		}
		if err := t.Splice(lit.StartByte()+1, lit.EndByte()-1, []byte(rewritten)); err != nil {
			return false, "", err
		}
		return true, "", nil
	}

	return false, "class expression is fully dynamic; this style axis was not changed", nil
}

// editTemplateClass edits the static quasis of a template-literal class
// value. Interpolated segments are never touched.
func editTemplateClass(ctx *Context, tmpl *sitter.Node, pred TokenPredicate, newToken string) (bool, string, error) {
	t := ctx.Tree

	// Static quasis are the byte ranges of the template not covered by a
	// substitution, excluding the backticks.
	type span struct{ start, end uint32 }
	var quasis []span

	cursor := tmpl.StartByte() + 1
	for i := 0; i < int(tmpl.NamedChildCount()); i++ {
		child := tmpl.NamedChild(i)
		if child.Type() != "template_substitution" {
			continue
		}
		if child.StartByte() > cursor {
			quasis = append(quasis, span{cursor, child.StartByte()})
		}
		cursor = child.EndByte()
	}
	if tmpl.EndByte()-1 > cursor {
		quasis = append(quasis, span{cursor, tmpl.EndByte() - 1})
	}

	for _, q := range quasis {
		text := string(t.Source()[q.start:q.end])
		rewritten, changed := rewriteTokenList(text, pred, newToken, false)
		if !changed {
			continue
		}
		// Boundary whitespace separates tokens from the interpolations.
		lead := text[:len(text)-len(strings.TrimLeft(text, " \t"))]
		trail := text[len(strings.TrimRight(text, " \t")):]
		if err := t.Splice(q.start, q.end, []byte(lead+rewritten+trail)); err != nil {
			return false, "", err
		}
		return true, "", nil
	}

	// No quasi carried the primary token: append to the last quasi.
	if len(quasis) > 0 {
		last := quasis[len(quasis)-1]
		text := string(t.Source()[last.start:last.end])
		appended := strings.TrimRight(text, " ") + " " + newToken
		if err := t.Splice(last.start, last.end, []byte(appended)); err != nil {
			return false, "", err
		}
		return true, "", nil
	}

	return false, "class expression is fully dynamic; this style axis was not changed", nil
}

// synthesizeClassAttribute inserts className="token" into the opening tag
// of an element that has no class attribute.
func synthesizeClassAttribute(ctx *Context, newToken string) (bool, string, error) {
	t := ctx.Tree
	open := match.OpeningElement(ctx.Node)
	if open == nil {
		return false, "element has no opening tag", nil
	}

	var offset uint32
	if open.Type() == "jsx_self_closing_element" {
		offset = open.EndByte() - 2 // before "/>"
	} else {
		offset = open.EndByte() - 1 // before ">"
	}

	src := t.Source()
	for offset > open.StartByte() && (src[offset-1] == ' ' || src[offset-1] == '\t' || src[offset-1] == '\n') {
		offset--
	}

	insertion := ` className="` + newToken + `"`
	if err := t.Splice(offset, offset, []byte(insertion)); err != nil {
		return false, "", err
	}
	return true, "", nil
}

// rewriteTokenList applies the primary-token replacement rule to a
// whitespace-separated class list. appendIfMissing controls whether a list
// with no primary token gains the new one.
func rewriteTokenList(value string, pred TokenPredicate, newToken string, appendIfMissing bool) (string, bool) {
	tokens := strings.Fields(value)
	out := make([]string, 0, len(tokens)+1)
	replaced := false

	for _, tok := range tokens {
		if pred(tok) || tok == newToken {
			if !replaced {
				out = append(out, newToken)
				replaced = true
			}
			// Duplicates of the same class collapse to one canonical token.
			continue
		}
		out = append(out, tok)
	}
	if !replaced {
		if !appendIfMissing {
			return value, false
		}
		out = append(out, newToken)
	}

	rewritten := strings.Join(out, " ")
	return rewritten, rewritten != strings.Join(tokens, " ")
}

func classAttribute(ctx *Context) *sitter.Node {
	open := match.OpeningElement(ctx.Node)
	if open == nil {
		return nil
	}
	t := ctx.Tree
	for i := 0; i < int(open.ChildCount()); i++ {
		child := open.Child(i)
		if child.Type() != "jsx_attribute" {
			continue
		}
		name := childOfType(child, "property_identifier")
		if name == nil {
			continue
		}
		switch t.Text(name) {
		case "className", "class":
			return child
		}
	}
	return nil
}

func childOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == nodeType {
			return child
		}
	}
	return nil
}

func findDescendant(node *sitter.Node, nodeType string) *sitter.Node {
	if node.Type() == nodeType {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := findDescendant(node.Child(i), nodeType); found != nil {
			return found
		}
	}
	return nil
}

func collectDescendants(node *sitter.Node, nodeType string, out *[]*sitter.Node) {
	if node.Type() == nodeType {
		*out = append(*out, node)
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectDescendants(node.Child(i), nodeType, out)
	}
}
