package match

import (
	"sort"
	"strings"

	"github.com/termfx/pinpoint/core"
)

// MaxFuzzyDistance is the largest edit distance a fuzzy text match may
// have before it is rejected.
const MaxFuzzyDistance = 3

// minClassOverlap is the Jaccard floor for accepting a fuzzy class match.
const minClassOverlap = 0.5

// FuzzyMatch finds a candidate by substring or bounded edit distance on
// text, or by class-token overlap, when exact matching has failed. Results
// are deterministic: ties break on source position.
func FuzzyMatch(candidates []Candidate, targetText, targetClassName string) *Candidate {
	target := core.Normalize(targetText)
	targetTokens := core.ClassTokens(targetClassName)

	type scored struct {
		idx   int
		score float64
	}
	var scores []scored

	for i, c := range candidates {
		text := core.Normalize(c.Text)
		best := 0.0

		if target != "" && text != "" {
			if strings.Contains(text, target) || strings.Contains(target, text) {
				best = 0.9
			} else if d := levenshtein(text, target); d <= MaxFuzzyDistance {
				best = 0.9 - float64(d)*0.1
			}
		}
		if len(targetTokens) > 0 {
			if overlap := Jaccard(core.ClassTokens(c.ClassName), targetTokens); overlap >= minClassOverlap && overlap > best {
				best = overlap
			}
		}

		if best > 0 {
			scores = append(scores, scored{idx: i, score: best})
		}
	}

	if len(scores) == 0 {
		return nil
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return candidates[scores[i].idx].Node.StartByte() < candidates[scores[j].idx].Node.StartByte()
	})

	return &candidates[scores[0].idx]
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
