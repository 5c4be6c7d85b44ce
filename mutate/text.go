package mutate

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/pinpoint/core"
)

// ReplaceText finds the static text child of the matched node whose
// normalized value equals oldText and replaces it with newText, preserving
// the child's original leading and trailing whitespace bytes so
// indentation is untouched. When the match is a component usage site the
// same literal-equality rule applies to its string attributes and child
// literals. Returns false when no equal literal exists.
func ReplaceText(ctx *Context, oldText, newText string) (bool, error) {
	t := ctx.Tree
	target := core.Normalize(oldText)
	if target == "" {
		return false, nil
	}

	type hit struct {
		start, end  uint32
		replacement string
	}
	var found *hit

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if found != nil {
			return
		}
		switch node.Type() {
		case "jsx_text":
			raw := t.Text(node)
			if core.Normalize(raw) == target {
				lead := raw[:len(raw)-len(strings.TrimLeft(raw, " \t\r\n"))]
				trail := raw[len(strings.TrimRight(raw, " \t\r\n")):]
				found = &hit{node.StartByte(), node.EndByte(), lead + newText + trail}
				return
			}
		case "string":
			// Attribute values and expression literals: replace inside
			// the quotes only.
			inner := t.Text(node)
			if len(inner) >= 2 && core.Normalize(inner[1:len(inner)-1]) == target {
				found = &hit{node.StartByte() + 1, node.EndByte() - 1, newText}
				return
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(ctx.Node)

	if found == nil {
		return false, nil
	}
	if err := t.Splice(found.start, found.end, []byte(found.replacement)); err != nil {
		return false, err
	}
	return true, nil
}
