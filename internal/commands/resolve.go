package commands

import (
	"strings"

	"github.com/go-ports/kontacto/internal/fuzzy"
)

const (
	// FuzzyThreshold is the lowest similarity accepted as a fuzzy match.
	FuzzyThreshold = 0.6
	// AmbiguityMargin is how far ahead of the runner-up a fuzzy match must be.
	AmbiguityMargin = 0.05
	// SuggestThreshold is the lowest similarity offered as a suggestion.
	SuggestThreshold = 0.4
	// MaxSuggestions bounds the suggestions of an UnknownCommandError.
	MaxSuggestions = 3
)

// Method is how a command word was matched.
type Method int

const (
	MethodExact Method = iota
	MethodAlias
	MethodFuzzy
)

func (m Method) String() string {
	switch m {
	case MethodExact:
		return "exact"
	case MethodAlias:
		return "alias"
	case MethodFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// Resolution is a command line matched to a command.
type Resolution struct {
	Spec *Spec
	Args []string
	// Input is the command word as typed, lowercased.
	Input string
	// Matched is the name or alias that Input matched.
	Matched string
	Method  Method
	// Score is 1 for exact and alias matches and the similarity otherwise.
	Score float64
}

// Resolve tokenizes line and matches its first word by canonical name, then
// alias, then fuzzy similarity. A blank line resolves to nil without error.
// An unresolvable word yields an *UnknownCommandError.
func (r *Registry) Resolve(line string) (*Resolution, error) {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return nil, nil
	}
	word := strings.ToLower(tokens[0])
	res := &Resolution{Args: tokens[1:], Input: word, Matched: word, Score: 1}

	if spec, ok := r.byName[word]; ok {
		res.Spec = spec
		if spec.Name != word {
			res.Method = MethodAlias
		}
		return res, nil
	}

	ranked := fuzzy.Rank(word, r.targets)
	if m, ok := fuzzy.Best(ranked, FuzzyThreshold, AmbiguityMargin); ok {
		res.Spec = r.byName[m.ID]
		res.Matched = m.Name
		res.Method = MethodFuzzy
		res.Score = m.Score
		return res, nil
	}

	uerr := &UnknownCommandError{Input: tokens[0]}
	for _, m := range fuzzy.Suggest(ranked, SuggestThreshold, MaxSuggestions) {
		uerr.Suggestions = append(uerr.Suggestions, m.ID)
	}
	return nil, uerr
}
