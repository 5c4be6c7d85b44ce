// Package editor orchestrates one logical edit: resolve the file behind a
// clicked element, pick the node, gate on edit risk, mutate, validate,
// write, and record the whole thing as a single undoable action.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"gorm.io/gorm"

	"github.com/termfx/pinpoint/config"
	"github.com/termfx/pinpoint/core"
	"github.com/termfx/pinpoint/history"
	"github.com/termfx/pinpoint/match"
	"github.com/termfx/pinpoint/models"
	"github.com/termfx/pinpoint/mutate"
	"github.com/termfx/pinpoint/parser"
	"github.com/termfx/pinpoint/resolve"
	"github.com/termfx/pinpoint/risk"
	"github.com/termfx/pinpoint/writer"
)

// stylishUsageProps mirrors the risk analyzer's style-ish prop set; a
// usage site passing any of these is styling the component per-instance.
var stylishUsageProps = map[string]struct{}{
	"variant": {}, "type": {}, "color": {}, "mode": {},
	"theme": {}, "intent": {}, "size": {},
}

// Editor applies visual edits to page source. One Editor serves one
// project root; operations are safe to call sequentially, and the ledger
// rejects overlapping logical actions.
type Editor struct {
	cfg      config.Config
	resolver *resolve.Resolver
	risk     *risk.Analyzer
	ledger   *history.Ledger
	writer   *writer.Writer
	gdb      *gorm.DB
	session  string
	log      *slog.Logger
}

// New wires an editor for the configured project. gdb may be nil to
// disable the audit trail.
func New(cfg config.Config, gdb *gorm.DB, log *slog.Logger) (*Editor, error) {
	if log == nil {
		log = slog.Default()
	}

	w := writer.New(writer.Config{UseFsync: cfg.UseFsync})
	ledger, err := history.Open(cfg.ProjectRoot, cfg.HistoryFile, w, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open action ledger: %w", err)
	}

	e := &Editor{
		cfg:      cfg,
		resolver: resolve.New(cfg.ProjectRoot, cfg.SourceDirs, cfg.SkipDirs, log),
		risk:     risk.NewAnalyzer(log),
		ledger:   ledger,
		writer:   w,
		gdb:      gdb,
		log:      log,
	}
	if gdb != nil {
		e.session = newRecordID("ses")
		if err := gdb.Create(&models.EditSession{ID: e.session}).Error; err != nil {
			log.Warn("failed to create audit session", "error", err)
			e.gdb = nil
		}
	}
	return e, nil
}

// located is everything the pipeline learned about the clicked element:
// the file and node to mutate, how they were found, and the usage-site
// facts needed for risk gating.
type located struct {
	path   string
	tree   *parser.Tree
	before []byte
	result *match.Result
	kind   core.MatchKind
	via    resolve.Via

	componentName string
	usage         *match.Usage
	usageTree     *parser.Tree
	usagePath     string
	usageBefore   []byte
}

func (l *located) close() {
	if l == nil {
		return
	}
	if l.tree != nil {
		l.tree.Close()
	}
	if l.usageTree != nil && l.usageTree != l.tree {
		l.usageTree.Close()
	}
}

// mutationContext builds the unit handed to the mutation engine.
func (l *located) mutationContext() *mutate.Context {
	ctx := &mutate.Context{
		FilePath: l.path,
		Tree:     l.tree,
		Kind:     l.kind,
	}
	if l.result != nil {
		ctx.Node = l.result.Node
		ctx.ElementName = l.result.Tag
	}
	if l.usage != nil {
		ctx.HasInlineClassOverride = l.usage.HasInlineClassOverride
		ctx.PropNames = l.usage.PropNames
	}
	return ctx
}

// locate runs the resolution chain and the matcher. A nil located with a
// non-nil Result means the pipeline stopped with that outbound result.
func (e *Editor) locate(ctx context.Context, desc core.Descriptor) (*located, *core.Result) {
	path, via := e.resolver.ResolveFile(ctx, desc)
	if path == "" {
		err := &core.NoMatchError{Tag: desc.EffectiveTag(), Text: desc.IdentifierText()}
		return nil, &core.Result{Success: false, Error: err.Error()}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.Result{Success: false, Error: fmt.Sprintf("failed to read %s: %v", path, err)}
	}
	tree, err := parser.Parse(path, data)
	if err != nil {
		return nil, &core.Result{Success: false, Error: err.Error()}
	}

	loc := &located{
		path:          path,
		tree:          tree,
		before:        data,
		via:           via,
		componentName: desc.OwnerComponentName,
	}

	viewed := e.absPath(desc.SourceFile)
	if path == viewed {
		loc.kind = core.MatchLocal
	} else {
		loc.kind = core.MatchComponent
	}

	names := match.AcceptableNames(desc.EffectiveTag())
	candidates := match.Collect(tree, names, nil)
	result, matchErr := match.BestMatch(candidates, desc.ClassName, desc.IdentifierText())
	if result != nil {
		loc.result = result
	} else if matchErr != nil {
		e.log.Debug("ambiguous match", "path", path, "error", matchErr)
	}

	// Usage-site facts from the viewed file, for risk gating and for edits
	// that belong on the instantiation rather than the definition.
	if loc.kind == core.MatchComponent && desc.OwnerComponentName != "" && viewed != "" && viewed != path {
		if usageData, err := os.ReadFile(viewed); err == nil {
			if usageTree, err := parser.Parse(viewed, usageData); err == nil {
				usages := match.FindUsages(usageTree, desc.OwnerComponentName)
				if usage := match.BestUsage(usageTree, usages, desc.IdentifierText()); usage != nil {
					loc.usage = usage
					loc.usageTree = usageTree
					loc.usagePath = viewed
					loc.usageBefore = usageData
				} else {
					usageTree.Close()
				}
			}
		}
	}

	if loc.result == nil && loc.usage == nil {
		loc.close()
		if matchErr != nil {
			return nil, &core.Result{Success: false, Error: matchErr.Error()}
		}
		err := &core.NoMatchError{Tag: desc.EffectiveTag(), Text: desc.IdentifierText()}
		return nil, &core.Result{Success: false, Error: err.Error()}
	}

	return loc, nil
}

// riskGate decides whether mutating a shared component file should stop
// with a warning. The analysis is advisory; it is combined with what this
// particular instantiation does. forceGlobal skips the gate entirely.
func (e *Editor) riskGate(desc core.Descriptor, loc *located) *core.Result {
	if desc.ForceGlobal || loc.kind != core.MatchComponent {
		return nil
	}

	analysis, err := e.risk.Analyze(loc.path)
	if err != nil {
		e.log.Debug("risk analysis unavailable", "path", loc.path, "error", err)
		return nil
	}

	usagePassesStyle := false
	if loc.usage != nil {
		for _, prop := range loc.usage.PropNames {
			if _, ok := stylishUsageProps[prop]; ok {
				usagePassesStyle = true
				break
			}
		}
	}

	if !analysis.Risky && !usagePassesStyle {
		return nil
	}

	reason := analysis.Reason
	if reason == "" {
		reason = "this instantiation styles the component through props"
	}
	return &core.Result{
		Success:       false,
		Warning:       true,
		Message:       fmt.Sprintf("editing %s would affect every usage of %s; retry with forceGlobal to change it everywhere", filepath.Base(loc.path), loc.componentName),
		Details:       reason,
		Signals:       analysis.Signals,
		FilePath:      loc.path,
		ComponentName: loc.componentName,
		MatchKind:     loc.kind,
	}
}

// writeTree validates, formats, writes, and records one mutated tree.
func (e *Editor) writeTree(act *history.Action, path string, before []byte, tree *parser.Tree) (string, error) {
	out := tree.Source()
	if !parser.Validate(out) {
		return "", &core.ValidationError{Path: path}
	}
	if e.cfg.AutoFormat {
		out = parser.Format(out)
	}

	act.RecordBefore(path)
	if err := e.writer.WriteFile(path, string(out)); err != nil {
		return "", err
	}
	act.RecordAfter(path)

	return unifiedDiff(path, before, out), nil
}

// finish commits or discards the action and mirrors committed entries into
// the audit trail.
func (e *Editor) finish(act *history.Action, result core.Result) core.Result {
	if !result.Success {
		act.Discard()
		return result
	}

	entry, err := act.Commit()
	if err != nil {
		result.Success = false
		result.Error = err.Error()
		return result
	}
	if entry == nil {
		// Nothing meaningful changed; report honestly.
		result.Message = strings.TrimSpace(result.Message + " (no file content changed)")
		return result
	}
	e.auditCommit(entry)
	return result
}

func (e *Editor) absPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.cfg.ProjectRoot, path)
}

func (e *Editor) relPath(path string) string {
	if rel, err := filepath.Rel(e.cfg.ProjectRoot, path); err == nil {
		return rel
	}
	return path
}

func unifiedDiff(path string, before, after []byte) string {
	if string(before) == string(after) {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("--- %s\n+++ %s\n@@ changes @@\n%d bytes -> %d bytes", path, path, len(before), len(after))
	}
	return text
}
