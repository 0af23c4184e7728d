// Package fuzzy ranks candidate spellings by normalized edit-distance
// similarity.
package fuzzy

import (
	"cmp"
	"slices"

	"github.com/agext/levenshtein"
	"golang.org/x/text/cases"
)

// Similarity returns 1 minus the Levenshtein distance between a and b divided
// by the length of the longer one, ignoring case. Identical strings score 1.
func Similarity(a, b string) float64 {
	fold := cases.Fold()
	return levenshtein.Similarity(fold.String(a), fold.String(b), nil)
}

// Target is one rankable item known under one or more spellings.
type Target struct {
	ID    string
	Names []string
}

// Match is a scored Target. Name is the spelling that scored best.
type Match struct {
	ID    string
	Name  string
	Score float64
}

// Rank scores every target against query by its best spelling and returns
// the matches by descending score. Ties keep the order of targets.
func Rank(query string, targets []Target) []Match {
	out := make([]Match, 0, len(targets))
	for _, t := range targets {
		m := Match{ID: t.ID}
		for _, name := range t.Names {
			if s := Similarity(query, name); s > m.Score || m.Name == "" {
				m.Name, m.Score = name, s
			}
		}
		out = append(out, m)
	}
	slices.SortStableFunc(out, func(a, b Match) int { return cmp.Compare(b.Score, a.Score) })
	return out
}

// Best returns the top match when it scores at least threshold and no other
// match comes within margin of it.
func Best(ranked []Match, threshold, margin float64) (Match, bool) {
	if len(ranked) == 0 || ranked[0].Score < threshold {
		return Match{}, false
	}
	if len(ranked) > 1 && ranked[0].Score-ranked[1].Score < margin {
		return Match{}, false
	}
	return ranked[0], true
}

// Suggest returns up to limit matches scoring at least minScore.
func Suggest(ranked []Match, minScore float64, limit int) []Match {
	var out []Match
	for _, m := range ranked {
		if m.Score < minScore || len(out) == limit {
			break
		}
		out = append(out, m)
	}
	return out
}
