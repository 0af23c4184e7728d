package models

import (
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// shortIDLen is the number of ID characters shown in listings.
const shortIDLen = 8

// Note is a free-text note with a set of tags. ID is the repository key;
// users usually locate notes by content or tag instead.
type Note struct {
	ID        string    `yaml:"id" json:"id"`
	Content   string    `yaml:"content" json:"content"`
	Tags      []string  `yaml:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at" json:"updated_at"`
}

// NewNote returns a note with a new ID. Tags are normalized; invalid ones
// fail the whole call.
func NewNote(content string, tags ...string) (*Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationf("note content cannot be empty")
	}
	ts := Now()
	n := &Note{ID: uuid.NewString(), Content: content, CreatedAt: ts, UpdatedAt: ts}
	for _, t := range tags {
		if _, err := n.AddTag(t); err != nil {
			return nil, err
		}
	}
	n.UpdatedAt = ts
	return n, nil
}

// NormalizeTag lowercases tag, turns spaces into hyphens and drops every
// character other than letters, digits, '-' and '_'.
func NormalizeTag(tag string) string {
	tag = cases.Lower(language.Und).String(strings.TrimSpace(tag))
	tag = strings.ReplaceAll(tag, " ", "-")
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return -1
	}, tag)
}

// Key returns the repository key of n.
func (n *Note) Key() string { return n.ID }

// ShortID returns the ID prefix shown to users.
func (n *Note) ShortID() string {
	if len(n.ID) <= shortIDLen {
		return n.ID
	}
	return n.ID[:shortIDLen]
}

func (n *Note) touch() { n.UpdatedAt = Now() }

// SetContent replaces the note text.
func (n *Note) SetContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return validationf("note content cannot be empty")
	}
	n.Content = content
	n.touch()
	return nil
}

// AddTag adds the normalized form of tag and returns it. Adding a tag the
// note already carries is a no-op.
func (n *Note) AddTag(tag string) (string, error) {
	t := NormalizeTag(tag)
	if t == "" {
		return "", validationf("tag %q is empty after normalization", tag)
	}
	i, found := slices.BinarySearch(n.Tags, t)
	if !found {
		n.Tags = slices.Insert(n.Tags, i, t)
		n.touch()
	}
	return t, nil
}

// RemoveTag removes tag (compared after normalization).
func (n *Note) RemoveTag(tag string) error {
	t := NormalizeTag(tag)
	tags, ok := removeValue(n.Tags, t)
	if !ok {
		return validationf("tag %q not found", t)
	}
	n.Tags = tags
	n.touch()
	return nil
}

// HasTag reports whether the note carries tag.
func (n *Note) HasTag(tag string) bool {
	_, found := slices.BinarySearch(n.Tags, NormalizeTag(tag))
	return found
}

// ClearTags drops every tag and reports whether there were any.
func (n *Note) ClearTags() bool {
	if len(n.Tags) == 0 {
		return false
	}
	n.Tags = nil
	n.touch()
	return true
}

// Matches reports whether query occurs in the content or any tag, ignoring case.
func (n *Note) Matches(query string) bool {
	if containsFold(n.Content, query) {
		return true
	}
	for _, t := range n.Tags {
		if containsFold(t, query) {
			return true
		}
	}
	return false
}

// Preview returns the content cut to at most maxRunes runes.
func (n *Note) Preview(maxRunes int) string {
	r := []rune(n.Content)
	if len(r) <= maxRunes {
		return n.Content
	}
	return string(r[:maxRunes]) + "..."
}

// Validate checks a note loaded from storage.
func (n *Note) Validate() error {
	if n.ID == "" {
		return validationf("note has no id")
	}
	if strings.TrimSpace(n.Content) == "" {
		return validationf("note %s has empty content", n.ShortID())
	}
	for _, t := range n.Tags {
		if t == "" || t != NormalizeTag(t) {
			return validationf("note %s has malformed tag %q", n.ShortID(), t)
		}
	}
	return nil
}
