package editor

import (
	"context"
	"fmt"

	"github.com/termfx/pinpoint/core"
	"github.com/termfx/pinpoint/history"
	"github.com/termfx/pinpoint/mutate"
)

// UpdateText replaces a static text literal on the clicked element. The
// literal may live directly in the viewed page, on a component
// instantiation (prop or child literal), or inside a shared component's
// markup; the last case is gated on edit risk.
func (e *Editor) UpdateText(ctx context.Context, desc core.Descriptor, oldText, newText string) core.Result {
	act, err := e.ledger.Begin("text", fmt.Sprintf("Change text %q to %q", oldText, newText))
	if err != nil {
		return core.Result{Success: false, Error: err.Error()}
	}
	return e.finish(act, e.updateText(ctx, act, desc, oldText, newText))
}

func (e *Editor) updateText(ctx context.Context, act *history.Action, desc core.Descriptor, oldText, newText string) core.Result {
	if desc.ElementIdentifier == "" {
		desc.ElementIdentifier = oldText
	}

	loc, stop := e.locate(ctx, desc)
	if stop != nil {
		return *stop
	}
	defer loc.close()

	// The instantiation site is tried first: replacing a prop or child
	// literal there touches only the clicked instance, so no risk gate.
	if loc.usage != nil && loc.usageTree != nil {
		uctx := &mutate.Context{
			FilePath:    loc.usagePath,
			Tree:        loc.usageTree,
			Node:        loc.usage.Node,
			ElementName: loc.usage.ComponentName,
			Kind:        core.MatchUsage,
		}
		changed, err := mutate.ReplaceText(uctx, oldText, newText)
		if err != nil {
			return core.Result{Success: false, Error: err.Error()}
		}
		if changed {
			diff, err := e.writeTree(act, loc.usagePath, loc.usageBefore, loc.usageTree)
			if err != nil {
				return core.Result{Success: false, Error: err.Error()}
			}
			return core.Result{
				Success:       true,
				Message:       fmt.Sprintf("Updated text on <%s /> usage", loc.usage.ComponentName),
				FilePath:      loc.usagePath,
				UpdatedFile:   e.relPath(loc.usagePath),
				ComponentName: loc.usage.ComponentName,
				MatchKind:     core.MatchUsage,
				Diff:          diff,
			}
		}
	}

	if loc.result == nil {
		return core.Result{
			Success: false,
			Error:   (&core.NoMatchError{Tag: desc.EffectiveTag(), Text: oldText}).Error(),
		}
	}

	if gate := e.riskGate(desc, loc); gate != nil {
		return *gate
	}

	mctx := loc.mutationContext()
	changed, err := mutate.ReplaceText(mctx, oldText, newText)
	if err != nil {
		return core.Result{Success: false, Error: err.Error()}
	}
	if !changed {
		return core.Result{
			Success: false,
			Error:   (&core.NoMatchError{Tag: desc.EffectiveTag(), Text: oldText}).Error(),
			Details: "matched element has no static text equal to the old text",
		}
	}

	diff, err := e.writeTree(act, loc.path, loc.before, loc.tree)
	if err != nil {
		return core.Result{Success: false, Error: err.Error()}
	}
	return core.Result{
		Success:       true,
		Message:       fmt.Sprintf("Updated text in <%s>", loc.result.Tag),
		FilePath:      loc.path,
		UpdatedFile:   e.relPath(loc.path),
		ComponentName: loc.componentName,
		MatchKind:     loc.kind,
		Diff:          diff,
	}
}
