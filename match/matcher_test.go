package match

import (
	"errors"
	"math"
	"testing"

	"github.com/termfx/pinpoint/core"
)

func TestBestMatchSingleCandidate(t *testing.T) {
	tree := parseFixture(t, `const X = () => <h1 className="title">Welcome</h1>;`)
	candidates := Collect(tree, []string{"h1"}, nil)

	result, err := BestMatch(candidates, "something-else", "unrelated")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("single candidate must be accepted")
	}
	if result.Score != AutoAcceptScore {
		t.Errorf("Score = %v, want %v", result.Score, AutoAcceptScore)
	}
}

func TestBestMatchNoCandidates(t *testing.T) {
	result, err := BestMatch(nil, "x", "y")
	if result != nil || err != nil {
		t.Errorf("empty input: result=%v err=%v, want nil/nil", result, err)
	}
}

func TestBestMatchPicksWinner(t *testing.T) {
	tree := parseFixture(t, `
const X = () => (
  <div>
    <p className="intro large">First text</p>
    <p className="footer small">Second text</p>
  </div>
);
`)
	candidates := Collect(tree, []string{"p"}, nil)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	result, err := BestMatch(candidates, "intro large", "First text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected a winner")
	}
	if result.Text != "First text" {
		t.Errorf("wrong winner: %q", result.Text)
	}
	// Full class overlap plus the text bonus.
	if want := 1.0 + TextMatchBonus; math.Abs(result.Score-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", result.Score, want)
	}
}

func TestBestMatchAmbiguousIdenticalPair(t *testing.T) {
	tree := parseFixture(t, `
const X = () => (
  <div>
    <p className="note">Copy</p>
    <p className="note">Copy</p>
  </div>
);
`)
	candidates := Collect(tree, []string{"p"}, nil)

	result, err := BestMatch(candidates, "note", "Copy")
	if result != nil {
		t.Fatalf("identical pair must not produce a winner, got %+v", result)
	}
	var ambiguous *core.AmbiguousMatchError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("want AmbiguousMatchError, got %v", err)
	}
	if ambiguous.Candidates != 2 {
		t.Errorf("Candidates = %d, want 2", ambiguous.Candidates)
	}
}

func TestBestMatchZeroScore(t *testing.T) {
	tree := parseFixture(t, `
const X = () => (
  <div>
    <p className="aaa">one</p>
    <p className="bbb">two</p>
  </div>
);
`)
	candidates := Collect(tree, []string{"p"}, nil)

	result, err := BestMatch(candidates, "zzz", "")
	if result != nil || err != nil {
		t.Errorf("zero-scored field: result=%v err=%v, want nil/nil", result, err)
	}
}

func TestBestMatchAttributeBreaksNearTie(t *testing.T) {
	tree := parseFixture(t, `
const X = () => (
  <div>
    <img className="pic" src="/a.png" alt="Company logo" />
    <img className="pic" src="/b.png" alt="Hero banner" />
  </div>
);
`)
	candidates := Collect(tree, []string{"img"}, nil)

	result, err := BestMatch(candidates, "pic", "Company logo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("attribute match should break the tie")
	}
	var alt string
	for _, attr := range result.Attributes {
		if attr.Name == "alt" {
			alt = attr.Value
		}
	}
	if alt != "Company logo" {
		t.Errorf("wrong winner, alt = %q", alt)
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"both empty", nil, nil, 1.0},
		{"one empty", []string{"a"}, nil, 0.0},
		{"identical", []string{"a", "b"}, []string{"b", "a"}, 1.0},
		{"disjoint", []string{"a"}, []string{"b"}, 0.0},
		{"half", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
		{"duplicates collapse", []string{"a", "a"}, []string{"a"}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Jaccard(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Jaccard(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}

	// Symmetry and bounds hold for arbitrary token sets.
	a := []string{"x", "y", "z"}
	b := []string{"y", "q"}
	if Jaccard(a, b) != Jaccard(b, a) {
		t.Error("Jaccard must be symmetric")
	}
	if s := Jaccard(a, b); s < 0 || s > 1 {
		t.Errorf("Jaccard out of range: %v", s)
	}
}
