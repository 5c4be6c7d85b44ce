package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/termfx/pinpoint/core"
)

// Scoring policy. These are tuned thresholds, not derived values; keep them
// named so they stay testable in isolation from the algorithm.
const (
	// AutoAcceptScore is assigned when only one candidate exists.
	AutoAcceptScore = 1.0
	// TextMatchBonus rewards a candidate whose text contains the target.
	TextMatchBonus = 0.1
	// AttributeMatchBonus rewards a string attribute matching the target
	// text. It also breaks near-ties between top candidates.
	AttributeMatchBonus = 0.3
	// AmbiguityMargin is the minimum lead over the runner-up required to
	// accept the best candidate outright.
	AmbiguityMargin = 0.1
)

// Result is the winning candidate plus its score and a human-readable
// rationale.
type Result struct {
	Candidate
	Score  float64
	Reason string
}

type scored struct {
	Candidate
	score     float64
	classSim  float64
	textBonus float64
	attrBonus float64
}

// BestMatch scores candidates against the descriptor's class and text and
// returns a confident winner, or nil when there is none. An
// AmbiguousMatchError is returned when candidates exist but no winner can
// be picked; the caller falls through to the next strategy rather than
// guess.
func BestMatch(candidates []Candidate, targetClassName, targetText string) (*Result, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) == 1 {
		return &Result{
			Candidate: candidates[0],
			Score:     AutoAcceptScore,
			Reason:    "single candidate, no ambiguity to resolve",
		}, nil
	}

	scoredList := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		s := scored{Candidate: c}
		s.classSim = Jaccard(core.ClassTokens(c.ClassName), core.ClassTokens(targetClassName))
		if c.ContainsText(targetText) {
			s.textBonus = TextMatchBonus
		}
		if attributeMatches(c, targetText) {
			s.attrBonus = AttributeMatchBonus
		}
		s.score = s.classSim + s.textBonus + s.attrBonus
		scoredList = append(scoredList, s)
	}

	sort.SliceStable(scoredList, func(i, j int) bool {
		if scoredList[i].score != scoredList[j].score {
			return scoredList[i].score > scoredList[j].score
		}
		// Deterministic order for equal scores.
		return scoredList[i].Node.StartByte() < scoredList[j].Node.StartByte()
	})

	best, second := scoredList[0], scoredList[1]
	if best.score <= 0 {
		return nil, nil
	}

	reason := fmt.Sprintf(
		"class similarity %.2f, text bonus %.2f, attribute bonus %.2f",
		best.classSim, best.textBonus, best.attrBonus,
	)

	if best.score-second.score > AmbiguityMargin {
		return &Result{Candidate: best.Candidate, Score: best.score, Reason: reason}, nil
	}
	if best.attrBonus > second.attrBonus {
		return &Result{
			Candidate: best.Candidate,
			Score:     best.score,
			Reason:    reason + "; attribute match broke near-tie",
		}, nil
	}

	return nil, &core.AmbiguousMatchError{Tag: best.Tag, Candidates: len(candidates)}
}

// attributeMatches reports whether any static string attribute value
// equals, contains, or is contained by the normalized target text.
func attributeMatches(c Candidate, targetText string) bool {
	target := core.Normalize(targetText)
	if target == "" {
		return false
	}
	for _, attr := range c.Attributes {
		if !attr.Static {
			continue
		}
		value := core.Normalize(attr.Value)
		if value == "" {
			continue
		}
		if value == target || strings.Contains(value, target) || strings.Contains(target, value) {
			return true
		}
	}
	return false
}

// Jaccard computes the Jaccard similarity of two token sets. Two empty sets
// are identical (1.0); one empty and one non-empty share nothing (0.0).
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	setA := make(map[string]struct{}, len(a))
	for _, tok := range a {
		setA[tok] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, tok := range b {
		setB[tok] = struct{}{}
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}
