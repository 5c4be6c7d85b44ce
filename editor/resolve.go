package editor

import (
	"context"
	"fmt"

	"github.com/termfx/pinpoint/core"
)

// Resolve runs the resolution chain without mutating anything and reports
// where an edit would land. Useful for overlay tooltips and for debugging
// mis-resolved clicks.
func (e *Editor) Resolve(ctx context.Context, desc core.Descriptor) core.Result {
	loc, stop := e.locate(ctx, desc)
	if stop != nil {
		return *stop
	}
	defer loc.close()

	result := core.Result{
		Success:       true,
		FilePath:      loc.path,
		UpdatedFile:   e.relPath(loc.path),
		ComponentName: loc.componentName,
		MatchKind:     loc.kind,
		Details:       string(loc.via),
	}
	switch {
	case loc.result != nil:
		result.Message = fmt.Sprintf("<%s> resolves to %s (score %.2f)", loc.result.Tag, e.relPath(loc.path), loc.result.Score)
	case loc.usage != nil:
		result.Message = fmt.Sprintf("<%s> resolves to its usage in %s", loc.usage.ComponentName, e.relPath(loc.usagePath))
		result.MatchKind = core.MatchUsage
		result.FilePath = loc.usagePath
		result.UpdatedFile = e.relPath(loc.usagePath)
	}
	return result
}
