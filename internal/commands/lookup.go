package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-ports/kontacto/internal/models"
	"github.com/go-ports/kontacto/internal/render"
	"github.com/go-ports/kontacto/internal/repository"
)

const (
	// minIDPrefix is the shortest note ID prefix treated as an ID.
	minIDPrefix = 4
	// maxCandidates bounds the records listed in an ambiguity error.
	maxCandidates = 5
)

// findNote returns the one note that query names: a unique ID prefix, else
// the only note whose content equals query ignoring case, else the only note
// containing query in its content or tags.
func (s *Session) findNote(query string) (*models.Note, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, invalidArgs("note query cannot be empty")
	}
	all := s.Notes.All()

	var byID []*models.Note
	if len(q) >= minIDPrefix {
		prefix := strings.ToLower(q)
		for _, n := range all {
			if strings.HasPrefix(n.ID, prefix) {
				byID = append(byID, n)
			}
		}
		if len(byID) == 1 {
			return byID[0], nil
		}
	}

	folded := models.Fold(q)
	var exact []*models.Note
	for _, n := range all {
		if models.Fold(n.Content) == folded {
			exact = append(exact, n)
		}
	}
	switch len(exact) {
	case 0:
	case 1:
		return exact[0], nil
	default:
		return nil, ambiguousNotes(q, exact)
	}

	matches := slices.Collect(s.Notes.Find(func(n *models.Note) bool { return n.Matches(q) }))
	switch len(matches) {
	case 0:
		if len(byID) > 1 {
			return nil, ambiguousNotes(q, byID)
		}
		return nil, fmt.Errorf("no note matches %q: %w", q, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, ambiguousNotes(q, matches)
	}
}

func ambiguousNotes(query string, notes []*models.Note) error {
	shown := notes[:min(len(notes), maxCandidates)]
	return fmt.Errorf("%w: %q matches %d notes; use an ID prefix or the full content:\n%s",
		ErrAmbiguous, query, len(notes), strings.TrimRight(render.NoteChoices(shown), "\n"))
}

// findContact returns the contact named name, or else the only contact whose
// fields contain it.
func (s *Session) findContact(name string) (*models.Contact, error) {
	if c, ok := s.Contacts.Get(models.ContactKey(name)); ok {
		return c, nil
	}
	q := strings.TrimSpace(name)
	matches := slices.Collect(s.Contacts.Find(func(c *models.Contact) bool { return c.Matches(q) }))
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("contact %q: %w", q, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, 0, maxCandidates)
		for _, c := range matches[:min(len(matches), maxCandidates)] {
			names = append(names, c.Name)
		}
		return nil, fmt.Errorf("%w: %q matches %d contacts: %s",
			ErrAmbiguous, q, len(matches), strings.Join(names, ", "))
	}
}
