package editor

import (
	"context"
	"fmt"
	"os"

	"github.com/termfx/pinpoint/core"
	"github.com/termfx/pinpoint/history"
	"github.com/termfx/pinpoint/match"
	"github.com/termfx/pinpoint/mutate"
	"github.com/termfx/pinpoint/parser"
)

// DeleteElement removes the clicked element from its source, pruning any
// wrapper elements left empty. When no element is uniquely locatable it
// falls back, in order, to fuzzy matching, prop-reference matching inside
// the owning component, and removal of a matching entry from a data-array
// literal.
func (e *Editor) DeleteElement(ctx context.Context, desc core.Descriptor) core.Result {
	act, err := e.ledger.Begin("delete", fmt.Sprintf("Delete <%s> %q", desc.EffectiveTag(), desc.IdentifierText()))
	if err != nil {
		return core.Result{Success: false, Error: err.Error()}
	}
	return e.finish(act, e.deleteElement(ctx, act, desc))
}

func (e *Editor) deleteElement(ctx context.Context, act *history.Action, desc core.Descriptor) core.Result {
	path, _ := e.resolver.ResolveFile(ctx, desc)
	if path == "" {
		// Without a resolved file the data-array fallback can still try
		// the viewed page.
		return e.deleteDataEntry(act, desc, e.absPath(desc.SourceFile))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return core.Result{Success: false, Error: fmt.Sprintf("failed to read %s: %v", path, err)}
	}
	tree, err := parser.Parse(path, data)
	if err != nil {
		return core.Result{Success: false, Error: err.Error()}
	}
	defer tree.Close()

	// Any resolution landing outside the viewed file is a shared component
	// edit regardless of how the chain found it, so the risk gate applies
	// even without owner hints.
	kind := core.MatchLocal
	if path != e.absPath(desc.SourceFile) {
		kind = core.MatchComponent
	}

	names := match.AcceptableNames(desc.EffectiveTag())
	candidates := match.Collect(tree, names, nil)
	text := desc.IdentifierText()

	// Exact match first, then fuzzy, then by prop reference. A winner whose
	// only content is dynamic is not trusted for deletion: the clicked text
	// likely lives in a data collection, not in this markup template.
	var target *match.Candidate
	if result, _ := match.BestMatch(candidates, desc.ClassName, text); result != nil {
		c := result.Candidate
		if text == "" || c.ContainsText(text) || !c.HasDynamicChild {
			target = &c
		}
	}
	if target == nil {
		target = match.FuzzyMatch(candidates, text, desc.ClassName)
	}
	if target == nil && kind == core.MatchComponent {
		props := match.DeclaredProps(tree)
		target = match.PropDrivenCandidate(tree, names, props)
	}

	if target != nil {
		loc := &located{path: path, tree: tree, before: data, kind: kind, componentName: desc.OwnerComponentName}
		if gate := e.riskGate(desc, loc); gate != nil {
			return *gate
		}

		mctx := &mutate.Context{FilePath: path, Tree: tree, Node: target.Node, ElementName: target.Tag, Kind: kind}
		if err := mutate.DeleteNode(mctx); err != nil {
			return core.Result{Success: false, Error: err.Error()}
		}
		diff, err := e.writeTree(act, path, data, tree)
		if err != nil {
			return core.Result{Success: false, Error: err.Error()}
		}
		return core.Result{
			Success:     true,
			Message:     fmt.Sprintf("Deleted <%s>", target.Tag),
			FilePath:    path,
			UpdatedFile: e.relPath(path),
			MatchKind:   kind,
			Diff:        diff,
		}
	}

	// Last resort: the text may be an entry in a rendered data collection.
	if result := e.deleteDataEntryFromTree(act, desc, path, data, tree); result != nil {
		return *result
	}
	if viewed := e.absPath(desc.SourceFile); viewed != "" && viewed != path {
		return e.deleteDataEntry(act, desc, viewed)
	}

	return core.Result{Success: false, Error: (&core.NoMatchError{Tag: desc.EffectiveTag(), Text: text}).Error()}
}

// deleteDataEntry parses a file and attempts the array-literal fallback.
func (e *Editor) deleteDataEntry(act *history.Action, desc core.Descriptor, path string) core.Result {
	noMatch := core.Result{Success: false, Error: (&core.NoMatchError{Tag: desc.EffectiveTag(), Text: desc.IdentifierText()}).Error()}
	if !e.cfg.AllowDataDeletion || path == "" {
		return noMatch
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return noMatch
	}
	tree, err := parser.Parse(path, data)
	if err != nil {
		return noMatch
	}
	defer tree.Close()

	if result := e.deleteDataEntryFromTree(act, desc, path, data, tree); result != nil {
		return *result
	}
	return noMatch
}

func (e *Editor) deleteDataEntryFromTree(act *history.Action, desc core.Descriptor, path string, before []byte, tree *parser.Tree) *core.Result {
	if !e.cfg.AllowDataDeletion {
		return nil
	}

	removed, err := mutate.DeleteArrayEntry(tree, desc.IdentifierText(), true)
	if err != nil {
		return &core.Result{Success: false, Error: err.Error()}
	}
	if !removed {
		return nil
	}

	diff, err := e.writeTree(act, path, before, tree)
	if err != nil {
		return &core.Result{Success: false, Error: err.Error()}
	}
	return &core.Result{
		Success:     true,
		Message:     fmt.Sprintf("Removed %q from a data collection", desc.IdentifierText()),
		Details:     "the entry was deleted from an array literal, not from markup",
		FilePath:    path,
		UpdatedFile: e.relPath(path),
		MatchKind:   core.MatchData,
		Diff:        diff,
	}
}
