package match

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/pinpoint/parser"
)

// DeclaredProps extracts the prop names a file's components declare, from
// destructured function parameters and props.X member accesses.
func DeclaredProps(t *parser.Tree) []string {
	seen := make(map[string]struct{})
	var props []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		props = append(props, name)
	}

	var walk func(node *sitter.Node, inParams bool)
	walk = func(node *sitter.Node, inParams bool) {
		switch node.Type() {
		case "formal_parameters":
			inParams = true
		case "shorthand_property_identifier_pattern":
			if inParams {
				add(t.Text(node))
			}
		case "pair_pattern":
			if inParams {
				if key := node.ChildByFieldName("key"); key != nil {
					add(t.Text(key))
				}
			}
		case "member_expression":
			obj := node.ChildByFieldName("object")
			prop := node.ChildByFieldName("property")
			if obj != nil && prop != nil && t.Text(obj) == "props" {
				add(t.Text(prop))
			}
		case "statement_block", "jsx_element", "jsx_self_closing_element":
			inParams = false
		}

		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i), inParams)
		}
	}
	walk(t.Root(), false)

	return props
}

// PropDrivenCandidate finds the element among names whose attribute or
// child expressions read one of the declared props. Used by deletion when
// the clicked content only exists at render time. Returns nil when zero or
// several elements qualify; the system never guesses.
func PropDrivenCandidate(t *parser.Tree, names []string, props []string) *Candidate {
	if len(props) == 0 {
		return nil
	}
	propSet := make(map[string]struct{}, len(props))
	for _, p := range props {
		propSet[p] = struct{}{}
	}

	candidates := Collect(t, names, nil)
	var matched []*Candidate
	for i := range candidates {
		if referencesProp(t, candidates[i].Node, propSet) {
			matched = append(matched, &candidates[i])
		}
	}
	if len(matched) == 1 {
		return matched[0]
	}
	return nil
}

// referencesProp reports whether any expression inside the element reads
// one of the given prop names.
func referencesProp(t *parser.Tree, node *sitter.Node, props map[string]struct{}) bool {
	found := false

	var walk func(n *sitter.Node, inExpr bool)
	walk = func(n *sitter.Node, inExpr bool) {
		if found {
			return
		}
		if n.Type() == "jsx_expression" {
			inExpr = true
		}
		if inExpr && n.Type() == "identifier" {
			if _, ok := props[t.Text(n)]; ok {
				found = true
				return
			}
		}
		if inExpr && n.Type() == "member_expression" {
			obj := n.ChildByFieldName("object")
			prop := n.ChildByFieldName("property")
			if obj != nil && prop != nil && t.Text(obj) == "props" {
				if _, ok := props[t.Text(prop)]; ok {
					found = true
					return
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), inExpr)
		}
	}
	walk(node, false)

	return found
}
