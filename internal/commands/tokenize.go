package commands

import (
	"strings"
	"unicode"
)

// Tokenize splits line into words. Single and double quotes group words and
// are removed; a backslash escapes the next character outside single quotes.
// When a quote is left open the line is split on whitespace alone.
func Tokenize(line string) []string {
	tokens, ok := splitQuoted(line)
	if !ok {
		return strings.Fields(line)
	}
	return tokens
}

func splitQuoted(line string) ([]string, bool) {
	var (
		tokens  []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\\':
			escaped, inWord = true, true
		case quote == '"':
			if r == '"' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inWord = r, true
		case unicode.IsSpace(r):
			if inWord {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 || escaped {
		return nil, false
	}
	if inWord {
		tokens = append(tokens, cur.String())
	}
	return tokens, true
}
