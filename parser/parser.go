// Package parser wraps tree-sitter's TSX grammar behind the small surface
// the rest of the system needs: parse a page file into a tree, splice byte
// ranges while keeping the tree in sync, and validate serialized output
// before it is trusted.
package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"

	"github.com/termfx/pinpoint/core"
)

// Tree is an owned, mutable in-memory parse of one file's source. It is
// owned exclusively by the resolve-and-mutate call that parsed it and must
// not be shared across concurrent requests.
type Tree struct {
	path   string
	src    []byte
	parser *sitter.Parser
	tree   *sitter.Tree
}

// Parse parses source into a Tree. Malformed input yields a core.ParseError;
// callers treat the file as unmatchable, not fatal.
func Parse(path string, source []byte) (*Tree, error) {
	p := sitter.NewParser()
	p.SetLanguage(tsx.GetLanguage())

	st, err := p.ParseCtx(context.Background(), nil, source)
	if err != nil || st == nil {
		return nil, &core.ParseError{Path: path, Err: err}
	}
	// tree-sitter is error-tolerant; a tree with ERROR or missing nodes
	// means malformed source and the file must not be matched against.
	if hasErrors(st.RootNode()) {
		st.Close()
		return nil, &core.ParseError{Path: path, Err: errors.New("source contains syntax errors")}
	}

	return &Tree{path: path, src: source, parser: p, tree: st}, nil
}

// Path returns the file path this tree was parsed from.
func (t *Tree) Path() string { return t.path }

// Root returns the root syntax node. The node is invalidated by Splice.
func (t *Tree) Root() *sitter.Node { return t.tree.RootNode() }

// Source serializes the tree back to source bytes. With byte-splice
// mutation the source is the canonical representation, so serialization is
// a copy of the current bytes.
func (t *Tree) Source() []byte {
	out := make([]byte, len(t.src))
	copy(out, t.src)
	return out
}

// Text returns the source text covered by a node.
func (t *Tree) Text(n *sitter.Node) string {
	return n.Content(t.src)
}

// Splice replaces the byte range [start, end) with replacement and
// re-parses. All previously obtained nodes are invalid afterwards.
func (t *Tree) Splice(start, end uint32, replacement []byte) error {
	if start > end || int(end) > len(t.src) {
		return fmt.Errorf("splice range [%d, %d) out of bounds for %d bytes", start, end, len(t.src))
	}

	next := make([]byte, 0, len(t.src)-int(end-start)+len(replacement))
	next = append(next, t.src[:start]...)
	next = append(next, replacement...)
	next = append(next, t.src[end:]...)

	st, err := t.parser.ParseCtx(context.Background(), nil, next)
	if err != nil || st == nil {
		return &core.ParseError{Path: t.path, Err: err}
	}

	t.tree.Close()
	t.src = next
	t.tree = st
	return nil
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Validate re-parses candidate source and reports whether it is free of
// syntax errors. Mutated output must pass this before being written;
// invalid source is never written to disk.
func Validate(source []byte) bool {
	p := sitter.NewParser()
	p.SetLanguage(tsx.GetLanguage())

	st, err := p.ParseCtx(context.Background(), nil, source)
	if err != nil || st == nil {
		return false
	}
	defer st.Close()

	return !hasErrors(st.RootNode())
}

// hasErrors walks the tree looking for ERROR or missing nodes.
func hasErrors(node *sitter.Node) bool {
	if node.Type() == "ERROR" || node.IsMissing() {
		return true
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if hasErrors(node.Child(i)) {
			return true
		}
	}
	return false
}
