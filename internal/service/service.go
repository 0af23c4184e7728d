// Package service wires configuration, storage and the two repositories
// into the state every front end (shell, exec, MCP) works on.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-ports/kontacto/internal/commands"
	"github.com/go-ports/kontacto/internal/config"
	"github.com/go-ports/kontacto/internal/db"
	"github.com/go-ports/kontacto/internal/models"
	"github.com/go-ports/kontacto/internal/render"
	"github.com/go-ports/kontacto/internal/repository"
	"github.com/go-ports/kontacto/internal/storage"
)

// Collection names, used as SQLite collection keys and in log messages.
const (
	contactsCollection = "contacts"
	notesCollection    = "notes"
)

// Service owns the loaded collections of one data home.
type Service struct {
	Home   string
	Config *config.Config

	Contacts *repository.Repository[*models.Contact]
	Notes    *repository.Repository[*models.Note]

	database *db.DB
}

// New initialises a Service rooted at home and loads both collections.
// If home is empty it is resolved via config.ResolveHome.
func New(ctx context.Context, home string) (*Service, error) {
	if home == "" {
		home, _ = config.ResolveHome("")
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create home: %w", err)
	}

	cfg, err := config.Load(filepath.Join(home, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}

	s := &Service{Home: home, Config: cfg}
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.DatabasePath(home))
		if err != nil {
			return nil, fmt.Errorf("service.New: open db: %w", err)
		}
		s.database = database
		s.Contacts = repository.New[*models.Contact](contactsCollection, storage.NewSQLite[*models.Contact](database, contactsCollection))
		s.Notes = repository.New[*models.Note](notesCollection, storage.NewSQLite[*models.Note](database, notesCollection))
	default:
		s.Contacts = repository.New[*models.Contact](contactsCollection, storage.NewFile[*models.Contact](cfg.ContactsPath(home)))
		s.Notes = repository.New[*models.Note](notesCollection, storage.NewFile[*models.Note](cfg.NotesPath(home)))
	}

	s.Contacts.Load(ctx)
	s.Notes.Load(ctx)
	return s, nil
}

// Session returns a command session over the service's collections.
// confirm may be nil for non-interactive callers.
func (s *Service) Session(out io.Writer, confirm func(question string) (bool, error)) *commands.Session {
	return &commands.Session{
		Contacts:     s.Contacts,
		Notes:        s.Notes,
		Out:          out,
		Confirm:      confirm,
		BirthdayDays: s.Config.Birthdays.DefaultDays,
	}
}

// SaveDirty writes every collection changed since it was last loaded or
// saved. Both collections are attempted even when the first one fails.
func (s *Service) SaveDirty(ctx context.Context) error {
	return errors.Join(
		s.Contacts.SaveIfDirty(ctx),
		s.Notes.SaveIfDirty(ctx),
	)
}

// Close flushes pending changes and releases the database, if any.
func (s *Service) Close(ctx context.Context) error {
	err := s.SaveDirty(ctx)
	if s.database != nil {
		err = errors.Join(err, s.database.Close())
	}
	return err
}

// HistoryPath returns the shell history file, or "" when history is off.
func (s *Service) HistoryPath() string { return s.Config.HistoryPath(s.Home) }

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// SearchContacts returns the contacts matching query in insertion order.
// A blank query returns every contact.
func (s *Service) SearchContacts(query string) []*models.Contact {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Contacts.All()
	}
	return slices.Collect(s.Contacts.Find(func(c *models.Contact) bool { return c.Matches(query) }))
}

// SearchNotes returns the notes matching query and, when tag is set,
// carrying that tag. Blank filters match everything.
func (s *Service) SearchNotes(query, tag string) []*models.Note {
	query = strings.TrimSpace(query)
	tag = models.NormalizeTag(tag)
	return slices.Collect(s.Notes.Find(func(n *models.Note) bool {
		if query != "" && !n.Matches(query) {
			return false
		}
		return tag == "" || n.HasTag(tag)
	}))
}

// TagCounts returns every tag in use with the number of notes carrying it,
// sorted by tag.
func (s *Service) TagCounts() []render.TagCount {
	counts := map[string]int{}
	for _, n := range s.Notes.All() {
		for _, t := range n.Tags {
			counts[t]++
		}
	}
	out := make([]render.TagCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, render.TagCount{Tag: t, Count: n})
	}
	slices.SortFunc(out, func(a, b render.TagCount) int { return strings.Compare(a.Tag, b.Tag) })
	return out
}
