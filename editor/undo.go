package editor

import "github.com/termfx/pinpoint/core"

// Undo reverts the most recent committed action. The entry is consumed
// regardless of outcome; a failed restore reports which files were
// recovered before the failure.
func (e *Editor) Undo() core.UndoResult {
	res := e.ledger.Undo()
	if res.Action != nil {
		e.auditUndo(res.Action.ID)
	}
	return res
}

// LastAction reports the action currently available for undo, or nil.
func (e *Editor) LastAction() *core.ActionSummary {
	return e.ledger.LastAction()
}
