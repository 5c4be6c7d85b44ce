package resolve

import (
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/pinpoint/parser"
)

// pageExtensions are tried, in order, when a module specifier omits one.
var pageExtensions = []string{".tsx", ".jsx", ".ts", ".js"}

// aliasBases are the directories a non-relative specifier is resolved
// against, relative to the project root, in preference order.
var aliasBases = []string{"", "src", "app", "components"}

// importBinding is one local name introduced by an import statement.
type importBinding struct {
	local     string
	specifier string
}

// collectImports extracts every import binding from a parsed file.
func collectImports(t *parser.Tree) []importBinding {
	var bindings []importBinding

	root := t.Root()
	for i := 0; i < int(root.ChildCount()); i++ {
		stmt := root.Child(i)
		if stmt.Type() != "import_statement" {
			continue
		}

		source := stmt.ChildByFieldName("source")
		if source == nil {
			continue
		}
		specifier := strings.Trim(t.Text(source), "\"'`")

		for j := 0; j < int(stmt.ChildCount()); j++ {
			clause := stmt.Child(j)
			if clause.Type() != "import_clause" {
				continue
			}
			for _, local := range clauseBindings(t, clause) {
				bindings = append(bindings, importBinding{local: local, specifier: specifier})
			}
		}
	}

	return bindings
}

// clauseBindings lists the local names bound by one import clause: the
// default import, named imports (aliased or not), and namespace imports.
func clauseBindings(t *parser.Tree, clause *sitter.Node) []string {
	var locals []string

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			switch child.Type() {
			case "identifier":
				locals = append(locals, t.Text(child))
			case "import_specifier":
				if alias := child.ChildByFieldName("alias"); alias != nil {
					locals = append(locals, t.Text(alias))
				} else if name := child.ChildByFieldName("name"); name != nil {
					locals = append(locals, t.Text(name))
				}
			case "named_imports", "namespace_import":
				walk(child)
			}
		}
	}
	walk(clause)

	return locals
}

// resolveSpecifier maps a module specifier to a file on disk. Relative
// specifiers resolve against the importing file's directory; `@/`, `~/`,
// and bare specifiers are tried against the project root, src, app, and
// components, in that order.
func resolveSpecifier(specifier, fromFile, root string) string {
	var bases []string

	switch {
	case strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../"):
		bases = []string{filepath.Join(filepath.Dir(fromFile), specifier)}
	case strings.HasPrefix(specifier, "@/"):
		bases = aliasCandidates(root, strings.TrimPrefix(specifier, "@/"))
	case strings.HasPrefix(specifier, "~/"):
		bases = aliasCandidates(root, strings.TrimPrefix(specifier, "~/"))
	default:
		bases = aliasCandidates(root, specifier)
	}

	for _, base := range bases {
		if path := resolveModulePath(base); path != "" {
			return path
		}
	}
	return ""
}

func aliasCandidates(root, rest string) []string {
	out := make([]string, 0, len(aliasBases))
	for _, base := range aliasBases {
		out = append(out, filepath.Join(root, base, rest))
	}
	return out
}

// resolveModulePath tries a candidate path verbatim, with each known
// extension, and as a directory holding an index file.
func resolveModulePath(base string) string {
	if info, err := os.Stat(base); err == nil && !info.IsDir() {
		return base
	}
	for _, ext := range pageExtensions {
		if path := base + ext; fileExists(path) {
			return path
		}
	}
	for _, ext := range pageExtensions {
		if path := filepath.Join(base, "index"+ext); fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
