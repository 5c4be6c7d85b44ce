package mutate

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/pinpoint/parser"
)

// DeleteNode removes the matched node from its parent's children, then
// walks upward pruning any ancestor element or fragment left with no
// significant content, so empty wrapper tags are not left behind.
func DeleteNode(ctx *Context) error {
	t := ctx.Tree
	start, end := expandRange(t.Source(), ctx.Node.StartByte(), ctx.Node.EndByte())
	if err := t.Splice(start, end, nil); err != nil {
		return err
	}
	return pruneEmptyAncestors(t, start)
}

// expandRange widens a deletion to swallow surrounding indentation and, if
// the deletion leaves a blank line, the line's newline as well.
func expandRange(src []byte, start, end uint32) (uint32, uint32) {
	for start > 0 && (src[start-1] == ' ' || src[start-1] == '\t') {
		start--
	}
	for int(end) < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	if int(end) < len(src) && src[end] == '\n' && (start == 0 || src[start-1] == '\n') {
		end++
	}
	return start, end
}

// pruneEmptyAncestors repeatedly deletes the innermost element around
// offset while it has no significant children left. Pruning only removes
// wrappers nested inside other markup; the element a component returns is
// kept even when emptied, since removing it would leave the return
// expression with nothing and the file unparseable.
func pruneEmptyAncestors(t *parser.Tree, offset uint32) error {
	for {
		el := innermostElementAt(t, offset)
		if el == nil || hasSignificantChildren(t, el) || !nestedInMarkup(el) {
			return nil
		}
		start, end := expandRange(t.Source(), el.StartByte(), el.EndByte())
		if err := t.Splice(start, end, nil); err != nil {
			return err
		}
		offset = start
	}
}

// nestedInMarkup reports whether an element sits inside another element or
// fragment, making it a removable wrapper rather than a template root.
func nestedInMarkup(el *sitter.Node) bool {
	for p := el.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "jsx_element", "jsx_fragment":
			return true
		case "jsx_expression", "parenthesized_expression":
			continue
		default:
			return false
		}
	}
	return false
}

// innermostElementAt returns the deepest element or fragment whose byte
// range contains offset.
func innermostElementAt(t *parser.Tree, offset uint32) *sitter.Node {
	src := t.Source()
	if len(src) == 0 {
		return nil
	}
	if int(offset) >= len(src) {
		offset = uint32(len(src) - 1)
	}

	var found *sitter.Node
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node.StartByte() > offset || node.EndByte() <= offset {
			return
		}
		switch node.Type() {
		case "jsx_element", "jsx_fragment":
			found = node
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(t.Root())

	return found
}

// hasSignificantChildren reports whether an element still holds anything
// worth keeping: non-whitespace text, a nested element, or any expression.
func hasSignificantChildren(t *parser.Tree, el *sitter.Node) bool {
	for i := 0; i < int(el.ChildCount()); i++ {
		child := el.Child(i)
		switch child.Type() {
		case "jsx_text":
			if strings.TrimSpace(t.Text(child)) != "" {
				return true
			}
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment", "jsx_expression":
			return true
		}
	}
	return false
}
