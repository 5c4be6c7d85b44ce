package core

import "time"

// Descriptor is the visual fingerprint of a clicked element as produced by
// the browser overlay. It is immutable input to a single resolution attempt.
type Descriptor struct {
	SourceFile         string `json:"sourceFile"`
	Tag                string `json:"tag"`
	ElementTag         string `json:"elementTag,omitempty"`
	ElementIdentifier  string `json:"elementIdentifier"`
	ClassName          string `json:"className,omitempty"`
	TextContent        string `json:"textContent,omitempty"`
	OwnerComponentName string `json:"ownerComponentName,omitempty"`
	OwnerFilePath      string `json:"ownerFilePath,omitempty"`
	ForceGlobal        bool   `json:"forceGlobal,omitempty"`
}

// EffectiveTag returns the tag name the resolver should search for,
// preferring the explicit element tag over the component/tag field.
func (d Descriptor) EffectiveTag() string {
	if d.ElementTag != "" {
		return d.ElementTag
	}
	return d.Tag
}

// IdentifierText returns the text the resolver should use to locate the
// element: the identifier sent by the overlay, falling back to text content.
func (d Descriptor) IdentifierText() string {
	if d.ElementIdentifier != "" {
		return d.ElementIdentifier
	}
	return d.TextContent
}

// ColorChange is one old/new pair on a single style axis.
type ColorChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// MatchKind classifies where the winning node was found.
type MatchKind string

const (
	MatchLocal     MatchKind = "local"     // markup in the viewed file itself
	MatchComponent MatchKind = "component" // inside a shared component's definition
	MatchUsage     MatchKind = "usage"     // a component instantiation site
	MatchData      MatchKind = "data"      // an entry in a rendered data collection
)

// Result is the outbound contract shared by every edit operation.
type Result struct {
	Success       bool      `json:"success"`
	Message       string    `json:"message,omitempty"`
	Error         string    `json:"error,omitempty"`
	Warning       bool      `json:"warning,omitempty"`
	Details       string    `json:"details,omitempty"`
	FilePath      string    `json:"filePath,omitempty"`
	ComponentName string    `json:"componentName,omitempty"`
	Signals       []string  `json:"signals,omitempty"`
	MatchKind     MatchKind `json:"matchKind,omitempty"`
	UpdatedFile   string    `json:"updatedFile,omitempty"`
	Diff          string    `json:"diff,omitempty"`
}

// UsageMatch describes where a component (as opposed to a raw tag) is
// instantiated with content matching the target text. FilePath is set only
// for project-wide matches.
type UsageMatch struct {
	ComponentName          string   `json:"componentName"`
	HasInlineClassOverride bool     `json:"hasInlineClassOverride"`
	PropNames              []string `json:"propNames"`
	FilePath               string   `json:"filePath,omitempty"`
}

// RiskMetadata holds the individual facts behind a risk verdict.
type RiskMetadata struct {
	HasClassOverride bool `json:"hasClassOverride"`
	UsesVariantProps bool `json:"usesVariantProps"`
	UsesDynamicClass bool `json:"usesDynamicClass"`
	SpreadsProps     bool `json:"spreadsProps"`
}

// RiskAnalysis is the advisory verdict on whether editing a file's component
// in place would affect more than the clicked instance.
type RiskAnalysis struct {
	Risky    bool         `json:"risky"`
	Reason   string       `json:"reason,omitempty"`
	Signals  []string     `json:"signals"`
	Metadata RiskMetadata `json:"metadata"`
}

// FileChange records one file's before/after state within an action.
// A nil BeforeContent together with ExistedBefore==true means the baseline
// was never captured; such a change is unsafe to undo and must not commit.
type FileChange struct {
	AbsolutePath  string  `json:"absolute_path"`
	RelativePath  string  `json:"relative_path"`
	BeforeContent *string `json:"before_content"`
	AfterContent  *string `json:"after_content"`
	ExistedBefore bool    `json:"existed_before"`
	ExistedAfter  bool    `json:"existed_after"`
}

// Meaningful reports whether the change actually altered the file's content
// or existence. Changes that are not meaningful are dropped on commit.
func (fc FileChange) Meaningful() bool {
	if fc.ExistedBefore != fc.ExistedAfter {
		return true
	}
	if fc.BeforeContent == nil || fc.AfterContent == nil {
		return fc.BeforeContent != fc.AfterContent
	}
	return *fc.BeforeContent != *fc.AfterContent
}

// ActionEntry is the atomic, undoable unit: one logical user action and
// every file it touched. At most one entry is retained at a time.
type ActionEntry struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Type      string       `json:"type"`
	Label     string       `json:"label"`
	Details   string       `json:"details,omitempty"`
	Files     []FileChange `json:"files"`
}

// ActionSummary is the undo surface's view of the current entry.
type ActionSummary struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
	FileCount int       `json:"fileCount"`
	Files     []string  `json:"files"`
}

// UndoResult reports the outcome of undoing the last action.
type UndoResult struct {
	Success       bool           `json:"success"`
	RestoredFiles []string       `json:"restoredFiles,omitempty"`
	Action        *ActionSummary `json:"action,omitempty"`
	Error         string         `json:"error,omitempty"`
}
