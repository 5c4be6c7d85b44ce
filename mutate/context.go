// Package mutate applies the requested change to a matched node: text
// replacement, class-token edits, attribute synthesis, or deletion with
// ancestor pruning. All mutations are byte splices on the owning tree;
// callers validate the serialized result before trusting it.
package mutate

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/pinpoint/core"
	"github.com/termfx/pinpoint/parser"
)

// Context bundles a matched node with everything mutation needs: the
// owning tree, the file it came from, the resolved element name, and the
// usage-site facts gathered during matching.
type Context struct {
	FilePath               string
	Tree                   *parser.Tree
	Node                   *sitter.Node
	ElementName            string
	HasInlineClassOverride bool
	PropNames              []string
	Kind                   core.MatchKind
}

// RelocateElement finds the element node starting at startByte after a
// splice has re-parsed the tree. Splices inside an element do not move its
// start, so sequential edits to one element re-anchor through this.
func RelocateElement(t *parser.Tree, startByte uint32) *sitter.Node {
	var found *sitter.Node

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if found != nil || node.StartByte() > startByte || node.EndByte() <= startByte {
			return
		}
		switch node.Type() {
		case "jsx_element", "jsx_self_closing_element":
			if node.StartByte() == startByte {
				found = node
				return
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(t.Root())

	return found
}
