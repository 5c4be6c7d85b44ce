package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/termfx/pinpoint/core"
	"github.com/termfx/pinpoint/history"
	"github.com/termfx/pinpoint/mutate"
)

// ColorUpdate carries one old/new pair per style axis; nil axes are
// untouched.
type ColorUpdate struct {
	Text       *core.ColorChange
	Background *core.ColorChange
	Border     *core.ColorChange
}

type styleAxis struct {
	name     string
	pred     mutate.TokenPredicate
	newToken string
}

// UpdateColors rewrites the clicked element's color tokens, one class
// token per axis.
func (e *Editor) UpdateColors(ctx context.Context, desc core.Descriptor, update ColorUpdate) core.Result {
	var axes []styleAxis
	if update.Text != nil {
		axes = append(axes, styleAxis{"text color", mutate.TextColorPredicate(update.Text.Old), update.Text.New})
	}
	if update.Background != nil {
		axes = append(axes, styleAxis{"background color", mutate.BackgroundColorPredicate(update.Background.Old), update.Background.New})
	}
	if update.Border != nil {
		axes = append(axes, styleAxis{"border color", mutate.BorderColorPredicate(update.Border.Old), update.Border.New})
	}
	if len(axes) == 0 {
		return core.Result{Success: false, Error: "no color changes requested"}
	}

	act, err := e.ledger.Begin("color", "Change element colors")
	if err != nil {
		return core.Result{Success: false, Error: err.Error()}
	}
	return e.finish(act, e.updateStyle(ctx, act, desc, axes))
}

// UpdateFontSize swaps the element's font-size token.
func (e *Editor) UpdateFontSize(ctx context.Context, desc core.Descriptor, oldSize, newSize string) core.Result {
	act, err := e.ledger.Begin("font-size", fmt.Sprintf("Change font size to %s", newSize))
	if err != nil {
		return core.Result{Success: false, Error: err.Error()}
	}
	axes := []styleAxis{{"font size", mutate.FontSizePredicate(oldSize), newSize}}
	return e.finish(act, e.updateStyle(ctx, act, desc, axes))
}

// UpdateFontFamily swaps the element's font-family token.
func (e *Editor) UpdateFontFamily(ctx context.Context, desc core.Descriptor, oldFont, newFont string) core.Result {
	act, err := e.ledger.Begin("font", fmt.Sprintf("Change font to %s", newFont))
	if err != nil {
		return core.Result{Success: false, Error: err.Error()}
	}
	axes := []styleAxis{{"font family", mutate.FontFamilyPredicate(oldFont), newFont}}
	return e.finish(act, e.updateStyle(ctx, act, desc, axes))
}

// updateStyle is the shared class-token path. An instantiation that sets
// its own inline class override is edited at the usage site, keeping the
// change scoped to the clicked instance; otherwise editing a shared
// component's own class attribute is gated on risk.
func (e *Editor) updateStyle(ctx context.Context, act *history.Action, desc core.Descriptor, axes []styleAxis) core.Result {
	loc, stop := e.locate(ctx, desc)
	if stop != nil {
		return *stop
	}
	defer loc.close()

	var (
		target     *mutate.Context
		targetPath string
		before     []byte
		kind       core.MatchKind
	)

	switch {
	case loc.kind == core.MatchComponent && loc.usage != nil && loc.usage.HasInlineClassOverride:
		target = &mutate.Context{
			FilePath:               loc.usagePath,
			Tree:                   loc.usageTree,
			Node:                   loc.usage.Node,
			ElementName:            loc.usage.ComponentName,
			HasInlineClassOverride: true,
			PropNames:              loc.usage.PropNames,
			Kind:                   core.MatchUsage,
		}
		targetPath, before, kind = loc.usagePath, loc.usageBefore, core.MatchUsage
	case loc.result != nil:
		if gate := e.riskGate(desc, loc); gate != nil {
			return *gate
		}
		target = loc.mutationContext()
		targetPath, before, kind = loc.path, loc.before, loc.kind
	case loc.usage != nil:
		// No node matched inside the component; style the instantiation.
		target = &mutate.Context{
			FilePath:    loc.usagePath,
			Tree:        loc.usageTree,
			Node:        loc.usage.Node,
			ElementName: loc.usage.ComponentName,
			PropNames:   loc.usage.PropNames,
			Kind:        core.MatchUsage,
		}
		targetPath, before, kind = loc.usagePath, loc.usageBefore, core.MatchUsage
	default:
		return core.Result{Success: false, Error: (&core.NoMatchError{Tag: desc.EffectiveTag(), Text: desc.IdentifierText()}).Error()}
	}

	var notes []string
	changedAny := false
	anchor := target.Node.StartByte()
	for _, axis := range axes {
		changed, note, err := mutate.ReplaceClassToken(target, axis.pred, axis.newToken)
		if err != nil {
			return core.Result{Success: false, Error: err.Error()}
		}
		if changed {
			changedAny = true
			// The splice re-parsed the tree; re-anchor before the next axis.
			if target.Node = mutate.RelocateElement(target.Tree, anchor); target.Node == nil {
				return core.Result{Success: false, Error: "lost track of the edited element after rewrite"}
			}
		}
		if note != "" {
			notes = append(notes, axis.name+": "+note)
		}
	}

	if !changedAny {
		return core.Result{
			Success: false,
			Error:   "no class token was changed",
			Details: strings.Join(notes, "; "),
		}
	}

	diff, err := e.writeTree(act, targetPath, before, target.Tree)
	if err != nil {
		return core.Result{Success: false, Error: err.Error()}
	}
	return core.Result{
		Success:       true,
		Message:       fmt.Sprintf("Updated %s", axisNames(axes)),
		Details:       strings.Join(notes, "; "),
		FilePath:      targetPath,
		UpdatedFile:   e.relPath(targetPath),
		ComponentName: loc.componentName,
		MatchKind:     kind,
		Diff:          diff,
	}
}

func axisNames(axes []styleAxis) string {
	names := make([]string, 0, len(axes))
	for _, a := range axes {
		names = append(names, a.name)
	}
	return strings.Join(names, ", ")
}
