package core

import "fmt"

// ParseError means a source file could not be parsed. Callers treat the file
// as unmatchable and fall through to the next strategy; it is never fatal to
// the overall request.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to parse %s", e.Path)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NoMatchError means the entire resolution chain was exhausted without a
// confident candidate.
type NoMatchError struct {
	Tag  string
	Text string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no matching element found for <%s> with text %q", e.Tag, e.Text)
}

// AmbiguousMatchError means candidates exist but none is confidently best.
// The system never guesses; callers fall through to the next strategy or
// surface this identically to NoMatchError.
type AmbiguousMatchError struct {
	Tag        string
	Candidates int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%d candidates for <%s> but none is confidently best", e.Candidates, e.Tag)
}

// ValidationError means a mutated file failed re-parse validation. The
// original file content is left untouched.
type ValidationError struct {
	Path string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("mutated source for %s failed validation, file left unchanged", e.Path)
}

// UndoError means an undo write failed partway. Already-restored files stay
// restored; there is no further automatic remediation.
type UndoError struct {
	Restored []string
	Failed   string
	Err      error
}

func (e *UndoError) Error() string {
	return fmt.Sprintf("undo failed at %s after restoring %d file(s): %v", e.Failed, len(e.Restored), e.Err)
}

func (e *UndoError) Unwrap() error { return e.Err }
