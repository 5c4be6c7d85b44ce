// Package resolve locates the file whose markup produced a clicked
// element. The same visual text can come from markup local to the viewed
// page, a shared component instantiated with that text, or a data entry
// rendered through a template, so resolution is an ordered fallback chain
// that always prefers strict (static text) matches over weak
// (dynamic-content-tolerant) ones.
package resolve

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/termfx/pinpoint/core"
	"github.com/termfx/pinpoint/match"
	"github.com/termfx/pinpoint/parser"
)

// Via explains which strategy in the chain produced a resolution.
type Via string

const (
	ViaOwnerPath     Via = "owner-path"
	ViaImport        Via = "import-binding"
	ViaStrictSearch  Via = "strict-text-search"
	ViaWeakSearch    Via = "weak-text-search"
	ViaComponentName Via = "component-name"
)

// Resolver implements the file/component resolution chain. It is safe for
// concurrent use; its caches are invalidated by file modification time.
type Resolver struct {
	root        string
	sourceDirs  []string
	skipDirs    []string
	importCache *mtimeCache[string]
	log         *slog.Logger
}

// New builds a resolver rooted at the project root. sourceDirs and
// skipDirs come from configuration, not from the core.
func New(root string, sourceDirs, skipDirs []string, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		root:        root,
		sourceDirs:  sourceDirs,
		skipDirs:    skipDirs,
		importCache: newMtimeCache[string](),
		log:         log,
	}
}

// ResolveFile runs the fallback chain and returns the first file that can
// contain the descriptor's element, or "" when the chain is exhausted.
func (r *Resolver) ResolveFile(ctx context.Context, desc core.Descriptor) (string, Via) {
	// 1. Explicit owner file hint.
	if desc.OwnerFilePath != "" {
		if path := r.absPath(desc.OwnerFilePath); fileExists(path) {
			return path, ViaOwnerPath
		}
	}

	// 2. Owner component hint, via the viewed file's import bindings.
	if desc.OwnerComponentName != "" {
		if path := r.ResolveComponent(desc.SourceFile, desc.OwnerComponentName); path != "" {
			return path, ViaImport
		}
	}

	// 3. Literal text search: strict everywhere before weak anywhere.
	tag := desc.EffectiveTag()
	text := desc.IdentifierText()
	if tag != "" && text != "" {
		viewed := r.absPath(desc.SourceFile)
		if viewed != "" && r.fileContainsText(viewed, tag, text, false) {
			return viewed, ViaStrictSearch
		}
		if path := r.searchProject(ctx, viewed, tag, text, false); path != "" {
			return path, ViaStrictSearch
		}
		if viewed != "" && r.fileContainsText(viewed, tag, text, true) {
			return viewed, ViaWeakSearch
		}
		if path := r.searchProject(ctx, viewed, tag, text, true); path != "" {
			return path, ViaWeakSearch
		}
	}

	// 4. Component hint again, by name alone, independent of imports.
	if desc.OwnerComponentName != "" {
		if path := r.ResolveComponentByName(ctx, desc.OwnerComponentName); path != "" {
			return path, ViaComponentName
		}
	}

	return "", ""
}

// ResolveComponent follows the import binding for componentName from
// sourceFile to a file on disk. Results are cached per (sourceFile,
// componentName) and invalidated when sourceFile changes.
func (r *Resolver) ResolveComponent(sourceFile, componentName string) string {
	from := r.absPath(sourceFile)
	if from == "" || !fileExists(from) {
		return ""
	}

	key := from + "\x00" + componentName
	if cached, ok := r.importCache.get(key, from); ok {
		return cached
	}

	data, err := os.ReadFile(from)
	if err != nil {
		return ""
	}
	tree, err := parser.Parse(from, data)
	if err != nil {
		r.log.Debug("skipping unparseable file", "path", from, "error", err)
		return ""
	}
	defer tree.Close()

	resolved := ""
	for _, binding := range collectImports(tree) {
		if binding.local != componentName {
			continue
		}
		if path := resolveSpecifier(binding.specifier, from, r.root); path != "" {
			resolved = path
			break
		}
	}

	if resolved != "" {
		r.importCache.put(key, from, resolved)
	}
	return resolved
}

// ResolveComponentByName finds a component's file purely by name: a source
// file whose base name is the component name, or a same-named directory
// holding an index file.
func (r *Resolver) ResolveComponentByName(ctx context.Context, componentName string) string {
	var (
		mu    sync.Mutex
		found []string
	)

	walker := NewWalker(r.root, r.sourceDirs, r.skipDirs)
	walker.Each(ctx, func(path string) bool {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		dir := filepath.Base(filepath.Dir(path))

		if base == componentName || (strings.HasPrefix(base, "index") && dir == componentName) {
			mu.Lock()
			found = append(found, path)
			mu.Unlock()
		}
		return true
	})

	return r.pickDeterministic(found)
}

// searchProject walks the configured source directories looking for files
// containing the text in an acceptable element, skipping the viewed file.
// All matches are gathered before one is chosen so the winner does not
// depend on worker scheduling.
func (r *Resolver) searchProject(ctx context.Context, viewed, tag, text string, weak bool) string {
	var (
		mu    sync.Mutex
		found []string
	)

	walker := NewWalker(r.root, r.sourceDirs, r.skipDirs)
	walker.Each(ctx, func(path string) bool {
		if path == viewed {
			return true
		}
		if r.fileContainsText(path, tag, text, weak) {
			mu.Lock()
			found = append(found, path)
			mu.Unlock()
		}
		return true
	})

	return r.pickDeterministic(found)
}

// pickDeterministic orders candidate paths by the position of their source
// directory in the configured list, then lexicographically, and returns the
// first. The same descriptor always resolves to the same file.
func (r *Resolver) pickDeterministic(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	sort.Slice(paths, func(i, j int) bool {
		ri, rj := r.dirRank(paths[i]), r.dirRank(paths[j])
		if ri != rj {
			return ri < rj
		}
		return paths[i] < paths[j]
	})
	return paths[0]
}

func (r *Resolver) dirRank(path string) int {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return len(r.sourceDirs)
	}
	for i, dir := range r.sourceDirs {
		if rel == dir || strings.HasPrefix(rel, dir+string(filepath.Separator)) {
			return i
		}
	}
	return len(r.sourceDirs)
}

// fileContainsText reports whether a file has an element with an
// acceptable tag containing the text. The strict rule requires the literal
// to appear as static content; the weak rule accepts any element with
// dynamic content, since the literal may only exist at render time.
func (r *Resolver) fileContainsText(path, tag, text string, weak bool) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	// Cheap rejection before parsing: a strict match needs the raw text.
	if !weak && !strings.Contains(strings.ToLower(string(data)), strings.ToLower(strings.TrimSpace(text))) {
		return false
	}

	tree, err := parser.Parse(path, data)
	if err != nil {
		r.log.Debug("skipping unparseable file", "path", path, "error", err)
		return false
	}
	defer tree.Close()

	candidates := match.Collect(tree, match.AcceptableNames(tag), nil)
	for _, c := range candidates {
		if weak {
			if c.HasDynamicChild {
				return true
			}
			continue
		}
		if c.ContainsText(text) {
			return true
		}
	}
	return false
}

func (r *Resolver) absPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.root, path)
}
