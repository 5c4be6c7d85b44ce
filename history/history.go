// Package history is the transactional action ledger: it groups every file
// write belonging to one logical user action into a single undoable entry,
// persists the entry so a restart does not lose it, and restores all
// affected files when the action is undone. Only the single most recent
// action is retained.
package history

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/termfx/pinpoint/core"
	"github.com/termfx/pinpoint/writer"
)

// DefaultFileName is the well-known ledger file in the project root.
const DefaultFileName = ".pinpoint-history.json"

// Ledger holds at most one committed action and at most one in-flight
// recording context. The in-flight limit serializes logical actions; the
// recording context is an explicit object threaded through mutation code,
// never ambient global state.
type Ledger struct {
	mu       sync.Mutex
	root     string
	path     string
	writer   *writer.Writer
	log      *slog.Logger
	active   *Action
	last     *core.ActionEntry
}

// Open creates a ledger rooted at the project root, reloading any
// persisted entry so the last action stays undoable across restarts.
func Open(root, fileName string, w *writer.Writer, log *slog.Logger) (*Ledger, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}
	if log == nil {
		log = slog.Default()
	}
	if w == nil {
		w = writer.New(writer.DefaultConfig())
	}

	l := &Ledger{
		root:   root,
		path:   filepath.Join(root, fileName),
		writer: w,
		log:    log,
	}

	data, err := os.ReadFile(l.path)
	if err == nil {
		var entry core.ActionEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			log.Warn("discarding unreadable history file", "path", l.path, "error", err)
		} else {
			l.last = &entry
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	return l, nil
}

// Action is one in-flight recording context. The first baseline seen for a
// path is preserved even if the path is touched multiple times; the latest
// after-state always wins.
type Action struct {
	ledger  *Ledger
	actType string
	label   string
	details string
	files   map[string]*core.FileChange
	order   []string
	closed  bool
}

// Begin opens a recording context. Only one may be in flight at a time.
func (l *Ledger) Begin(actType, label string) (*Action, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active != nil {
		return nil, fmt.Errorf("an action is already being recorded: %s", l.active.label)
	}

	a := &Action{
		ledger:  l,
		actType: actType,
		label:   label,
		files:   make(map[string]*core.FileChange),
	}
	l.active = a
	return a, nil
}

// SetDetails attaches a human-readable description to the entry.
func (a *Action) SetDetails(details string) {
	a.details = details
}

// RecordBefore captures a file's baseline. Idempotent per path: only the
// first call stores the baseline.
func (a *Action) RecordBefore(absPath string) {
	if a.closed {
		return
	}
	if _, ok := a.files[absPath]; ok {
		return
	}

	fc := &core.FileChange{AbsolutePath: absPath}
	if rel, err := filepath.Rel(a.ledger.root, absPath); err == nil {
		fc.RelativePath = rel
	} else {
		fc.RelativePath = absPath
	}

	if data, err := os.ReadFile(absPath); err == nil {
		content := string(data)
		fc.BeforeContent = &content
		fc.ExistedBefore = true
	} else if !os.IsNotExist(err) {
		// The file exists but could not be read: a missing baseline makes
		// this change unsafe to undo, so commit will drop it.
		fc.ExistedBefore = true
	}

	a.files[absPath] = fc
	a.order = append(a.order, absPath)
}

// RecordAfter captures a file's state after a write. The latest call wins.
func (a *Action) RecordAfter(absPath string) {
	if a.closed {
		return
	}
	fc, ok := a.files[absPath]
	if !ok {
		a.RecordBefore(absPath)
		fc = a.files[absPath]
	}

	fc.AfterContent = nil
	fc.ExistedAfter = false
	if data, err := os.ReadFile(absPath); err == nil {
		content := string(data)
		fc.AfterContent = &content
		fc.ExistedAfter = true
	}
}

// Commit closes the context and retains an entry when at least one
// meaningful change was recorded. Files whose baseline was never captured
// are dropped with a warning rather than silently accepted; a no-op action
// produces no entry. The entry replaces any previous one and is persisted
// immediately.
func (a *Action) Commit() (*core.ActionEntry, error) {
	l := a.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if a.closed {
		return nil, fmt.Errorf("action already closed")
	}
	a.closed = true
	l.active = nil

	var retained []core.FileChange
	for _, path := range a.order {
		fc := a.files[path]
		if fc.ExistedBefore && fc.BeforeContent == nil {
			l.log.Warn("dropping file change without baseline, unsafe to undo", "path", path)
			continue
		}
		if !fc.Meaningful() {
			continue
		}
		retained = append(retained, *fc)
	}

	if len(retained) == 0 {
		return nil, nil
	}

	entry := &core.ActionEntry{
		ID:        newActionID(),
		Timestamp: time.Now(),
		Type:      a.actType,
		Label:     a.label,
		Details:   a.details,
		Files:     retained,
	}

	if err := l.persist(entry); err != nil {
		return nil, fmt.Errorf("failed to persist action entry: %w", err)
	}
	l.last = entry
	return entry, nil
}

// Discard closes the context without retaining anything.
func (a *Action) Discard() {
	l := a.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	a.closed = true
	if l.active == a {
		l.active = nil
	}
}

// LastAction summarizes the current undoable entry, or nil.
func (l *Ledger) LastAction() *core.ActionSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.last == nil {
		return nil
	}
	return summarize(l.last)
}

// Undo restores every file in the current entry to its pre-action state,
// deleting files that did not exist before, then discards the entry. A
// failure partway leaves already-restored files restored and is surfaced;
// undo is not itself undoable.
func (l *Ledger) Undo() core.UndoResult {
	l.mu.Lock()
	entry := l.last
	l.last = nil
	l.mu.Unlock()

	if entry == nil {
		return core.UndoResult{Success: false, Error: "nothing to undo"}
	}

	summary := summarize(entry)
	var restored []string

	for _, fc := range entry.Files {
		var err error
		if !fc.ExistedBefore {
			err = l.writer.Remove(fc.AbsolutePath)
		} else if fc.BeforeContent != nil {
			err = l.writer.WriteFile(fc.AbsolutePath, *fc.BeforeContent)
		} else {
			err = fmt.Errorf("no baseline content recorded")
		}

		if err != nil {
			undoErr := &core.UndoError{Restored: restored, Failed: fc.AbsolutePath, Err: err}
			l.log.Error("undo failed partway", "failed", fc.AbsolutePath, "restored", len(restored))
			l.clearPersisted()
			return core.UndoResult{
				Success:       false,
				RestoredFiles: restored,
				Action:        summary,
				Error:         undoErr.Error(),
			}
		}
		restored = append(restored, fc.RelativePath)
	}

	l.clearPersisted()
	return core.UndoResult{Success: true, RestoredFiles: restored, Action: summary}
}

func (l *Ledger) persist(entry *core.ActionEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	return l.writer.WriteFile(l.path, string(data))
}

func (l *Ledger) clearPersisted() {
	if err := l.writer.Remove(l.path); err != nil {
		l.log.Warn("failed to remove history file", "path", l.path, "error", err)
	}
}

func summarize(entry *core.ActionEntry) *core.ActionSummary {
	files := make([]string, 0, len(entry.Files))
	for _, fc := range entry.Files {
		files = append(files, fc.RelativePath)
	}
	return &core.ActionSummary{
		ID:        entry.ID,
		Type:      entry.Type,
		Label:     entry.Label,
		Timestamp: entry.Timestamp,
		FileCount: len(entry.Files),
		Files:     files,
	}
}

func newActionID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("act_%d", time.Now().UTC().UnixNano())
	}
	return "act_" + hex.EncodeToString(buf)
}
