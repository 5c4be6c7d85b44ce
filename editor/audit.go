package editor

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/termfx/pinpoint/core"
	"github.com/termfx/pinpoint/models"
)

// auditCommit mirrors a committed action into the audit trail. Audit
// failures are logged, never surfaced: the JSON ledger is the source of
// truth for undo.
func (e *Editor) auditCommit(entry *core.ActionEntry) {
	if e.gdb == nil {
		return
	}

	files := make([]string, 0, len(entry.Files))
	for _, fc := range entry.Files {
		files = append(files, fc.RelativePath)
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		filesJSON = []byte("[]")
	}

	record := models.ActionRecord{
		ID:        entry.ID,
		SessionID: e.session,
		Type:      entry.Type,
		Label:     entry.Label,
		Details:   entry.Details,
		Files:     filesJSON,
		FileCount: len(entry.Files),
	}
	if err := e.gdb.Create(&record).Error; err != nil {
		e.log.Warn("failed to write audit record", "action", entry.ID, "error", err)
		return
	}

	e.gdb.Model(&models.EditSession{}).
		Where("id = ?", e.session).
		Update("actions_count", gorm.Expr("actions_count + ?", 1))
}

// auditUndo marks an action's audit record as undone.
func (e *Editor) auditUndo(actionID string) {
	if e.gdb == nil || actionID == "" {
		return
	}
	now := time.Now()
	err := e.gdb.Model(&models.ActionRecord{}).
		Where("id = ?", actionID).
		Updates(map[string]any{"undone": true, "undone_at": &now}).Error
	if err != nil {
		e.log.Warn("failed to mark audit record undone", "action", actionID, "error", err)
	}
}

func newRecordID(prefix string) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s_%d", prefix, time.Now().UTC().UnixNano())
	}
	return prefix + "_" + hex.EncodeToString(buf)
}
