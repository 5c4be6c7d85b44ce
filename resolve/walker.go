package resolve

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// pagePattern matches the file types that can contain renderable markup.
const pagePattern = "**/*.{tsx,jsx,ts,js}"

// Walker traverses the project's source directories in parallel, skipping
// build/VCS noise and anything the project's .gitignore excludes, and
// streams page files to a worker pool.
type Walker struct {
	root       string
	sourceDirs []string
	skipDirs   map[string]struct{}
	ignore     *gitignore.GitIgnore
	workers    int
}

// NewWalker builds a walker rooted at root, restricted to sourceDirs and
// excluding skipDirs. A .gitignore at the root is honored when present.
func NewWalker(root string, sourceDirs, skipDirs []string) *Walker {
	skip := make(map[string]struct{}, len(skipDirs))
	for _, d := range skipDirs {
		skip[d] = struct{}{}
	}

	w := &Walker{
		root:       root,
		sourceDirs: sourceDirs,
		skipDirs:   skip,
		workers:    runtime.NumCPU(),
	}
	if ign, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		w.ignore = ign
	}
	return w
}

// Each invokes fn for every page file under the configured source
// directories until fn returns false or ctx is cancelled. fn may be called
// from multiple goroutines.
func (w *Walker) Each(ctx context.Context, fn func(path string) bool) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	paths := make(chan string, 256)

	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case path, ok := <-paths:
					if !ok {
						return
					}
					if !fn(path) {
						cancel()
						return
					}
				}
			}
		}()
	}

	w.scan(ctx, paths)
	close(paths)
	wg.Wait()
}

func (w *Walker) scan(ctx context.Context, paths chan<- string) {
	for _, dir := range w.sourceDirs {
		base := filepath.Join(w.root, dir)
		if info, err := os.Stat(base); err != nil || !info.IsDir() {
			continue
		}
		w.scanDir(ctx, base, paths)
	}
}

func (w *Walker) scanDir(ctx context.Context, dir string, paths chan<- string) {
	if ctx.Err() != nil {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			rel = entry.Name()
		}

		if entry.IsDir() {
			if _, skip := w.skipDirs[entry.Name()]; skip {
				continue
			}
			if w.ignore != nil && w.ignore.MatchesPath(rel+"/") {
				continue
			}
			w.scanDir(ctx, path, paths)
			continue
		}

		if ok, err := doublestar.Match(pagePattern, filepath.ToSlash(rel)); err != nil || !ok {
			continue
		}
		if w.ignore != nil && w.ignore.MatchesPath(rel) {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case paths <- path:
		}
	}
}
