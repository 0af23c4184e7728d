package repository_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/kontacto/internal/models"
	"github.com/go-ports/kontacto/internal/repository"
	"github.com/go-ports/kontacto/internal/storage"
)

// memBackend is an in-memory storage.Backend that records saves.
type memBackend[T any] struct {
	records []T
	loadErr error
	saveErr error
	saves   int
}

func (m *memBackend[T]) Load(context.Context) ([]T, error) { return m.records, m.loadErr }

func (m *memBackend[T]) Save(_ context.Context, records []T) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.records = slices.Clone(records)
	return nil
}

func (m *memBackend[T]) Location() string { return "memory" }

func contact(c *qt.C, name string) *models.Contact {
	ct, err := models.NewContact(name)
	c.Assert(err, qt.IsNil)
	return ct
}

func names(cs []*models.Contact) []string {
	out := make([]string, len(cs))
	for i, ct := range cs {
		out[i] = ct.Name
	}
	return out
}

func TestRepository_AddGetRemove(t *testing.T) {
	c := qt.New(t)
	repo := repository.New[*models.Contact]("contacts", &memBackend[*models.Contact]{})

	jane := contact(c, "Jane Doe")
	c.Assert(repo.Add(jane), qt.IsNil)
	c.Assert(repo.Add(contact(c, "Bob")), qt.IsNil)
	c.Assert(repo.Add(contact(c, "Alice")), qt.IsNil)
	c.Assert(repo.Len(), qt.Equals, 3)
	c.Assert(names(repo.All()), qt.DeepEquals, []string{"Jane Doe", "Bob", "Alice"})

	got, ok := repo.Get("jane doe")
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, jane)

	removed, err := repo.Remove("bob")
	c.Assert(err, qt.IsNil)
	c.Assert(removed.Name, qt.Equals, "Bob")
	c.Assert(names(repo.All()), qt.DeepEquals, []string{"Jane Doe", "Alice"})
}

func TestRepository_DuplicateKey(t *testing.T) {
	c := qt.New(t)
	repo := repository.New[*models.Contact]("contacts", &memBackend[*models.Contact]{})

	jane := contact(c, "Jane Doe")
	c.Assert(jane.AddEmail("jane@x.com"), qt.IsNil)
	c.Assert(repo.Add(jane), qt.IsNil)

	err := repo.Add(contact(c, "JANE DOE"))
	c.Assert(err, qt.ErrorIs, repository.ErrDuplicateKey)
	got, _ := repo.Get("jane doe")
	c.Assert(got, qt.Equals, jane)
	c.Assert(got.Emails, qt.DeepEquals, []string{"jane@x.com"})
	c.Assert(repo.Len(), qt.Equals, 1)
}

func TestRepository_RemoveMissing(t *testing.T) {
	c := qt.New(t)
	backend := &memBackend[*models.Note]{}
	repo := repository.New[*models.Note]("notes", backend)
	n, err := models.NewNote("buy milk")
	c.Assert(err, qt.IsNil)
	c.Assert(repo.Add(n), qt.IsNil)
	c.Assert(repo.Save(context.Background()), qt.IsNil)

	_, err = repo.Remove("no-such-id")
	c.Assert(err, qt.ErrorIs, repository.ErrNotFound)
	c.Assert(repo.Len(), qt.Equals, 1)
	c.Assert(repo.Dirty(), qt.IsFalse)
}

func TestRepository_Rekey(t *testing.T) {
	c := qt.New(t)
	repo := repository.New[*models.Contact]("contacts", &memBackend[*models.Contact]{})
	jane := contact(c, "Jane")
	c.Assert(repo.Add(jane), qt.IsNil)
	c.Assert(repo.Add(contact(c, "Bob")), qt.IsNil)
	c.Assert(repo.Add(contact(c, "Carl")), qt.IsNil)

	c.Run("rename keeps position", func(c *qt.C) {
		c.Assert(jane.SetName("Janet"), qt.IsNil)
		c.Assert(repo.Rekey("jane"), qt.IsNil)
		_, ok := repo.Get("jane")
		c.Assert(ok, qt.IsFalse)
		got, ok := repo.Get("janet")
		c.Assert(ok, qt.IsTrue)
		c.Assert(got, qt.Equals, jane)
		c.Assert(names(repo.All()), qt.DeepEquals, []string{"Janet", "Bob", "Carl"})
	})

	c.Run("rename onto a taken key", func(c *qt.C) {
		c.Assert(jane.SetName("bob"), qt.IsNil)
		c.Assert(repo.Rekey("janet"), qt.ErrorIs, repository.ErrDuplicateKey)
	})

	c.Run("missing old key", func(c *qt.C) {
		c.Assert(repo.Rekey("nobody"), qt.ErrorIs, repository.ErrNotFound)
	})
}

func TestRepository_Find(t *testing.T) {
	c := qt.New(t)
	repo := repository.New[*models.Contact]("contacts", &memBackend[*models.Contact]{})
	for _, n := range []string{"Jane Doe", "John Smith", "Janet Roe"} {
		c.Assert(repo.Add(contact(c, n)), qt.IsNil)
	}

	got := slices.Collect(repo.Find(func(ct *models.Contact) bool { return ct.Matches("jan") }))
	c.Assert(names(got), qt.DeepEquals, []string{"Jane Doe", "Janet Roe"})

	// Early break stops iteration.
	var seen int
	for range repo.Find(func(*models.Contact) bool { return true }) {
		seen++
		break
	}
	c.Assert(seen, qt.Equals, 1)
}

func TestRepository_DirtyTracking(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	backend := &memBackend[*models.Contact]{}
	repo := repository.New[*models.Contact]("contacts", backend)

	c.Assert(repo.Dirty(), qt.IsFalse)
	c.Assert(repo.SaveIfDirty(ctx), qt.IsNil)
	c.Assert(backend.saves, qt.Equals, 0)

	c.Assert(repo.Add(contact(c, "Jane")), qt.IsNil)
	c.Assert(repo.Dirty(), qt.IsTrue)
	c.Assert(repo.SaveIfDirty(ctx), qt.IsNil)
	c.Assert(backend.saves, qt.Equals, 1)
	c.Assert(repo.Dirty(), qt.IsFalse)

	repo.Touch()
	c.Assert(repo.Dirty(), qt.IsTrue)

	backend.saveErr = storage.ErrIO
	c.Assert(repo.Save(ctx), qt.ErrorIs, storage.ErrIO)
	c.Assert(repo.Dirty(), qt.IsTrue)

	backend.saveErr = nil
	c.Assert(repo.Clear(), qt.Equals, 1)
	c.Assert(repo.Clear(), qt.Equals, 0)
	c.Assert(repo.Save(ctx), qt.IsNil)
	c.Assert(backend.records, qt.HasLen, 0)
}

func TestRepository_Load(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	c.Run("backend error starts empty", func(c *qt.C) {
		backend := &memBackend[*models.Contact]{loadErr: errors.New("boom")}
		repo := repository.New[*models.Contact]("contacts", backend)
		c.Assert(repo.Load(ctx), qt.Equals, 0)
		c.Assert(repo.Len(), qt.Equals, 0)
	})

	c.Run("unreadable store is not overwritten", func(c *qt.C) {
		stored := []*models.Contact{contact(c, "Alice"), contact(c, "Bob")}
		backend := &memBackend[*models.Contact]{records: stored, loadErr: fmt.Errorf("%w: disk", storage.ErrIO)}
		repo := repository.New[*models.Contact]("contacts", backend)
		repo.Load(ctx)

		c.Assert(repo.Add(contact(c, "Dave")), qt.IsNil)
		err := repo.Save(ctx)
		c.Assert(err, qt.ErrorIs, storage.ErrIO)
		c.Assert(err, qt.ErrorMatches, `save contacts: storage I/O error: memory could not be read at load, not overwriting it`)
		c.Assert(backend.saves, qt.Equals, 0)
		c.Assert(repo.Dirty(), qt.IsTrue)

		backend.loadErr = nil
		repo.Load(ctx)
		c.Assert(repo.Add(contact(c, "Dave")), qt.IsNil)
		c.Assert(repo.Save(ctx), qt.IsNil)
		c.Assert(names(backend.records), qt.DeepEquals, []string{"Alice", "Bob", "Dave"})
	})

	c.Run("quarantined corruption does not block saving", func(c *qt.C) {
		backend := &memBackend[*models.Contact]{loadErr: fmt.Errorf("%w: moved aside", storage.ErrCorrupt)}
		repo := repository.New[*models.Contact]("contacts", backend)
		repo.Load(ctx)
		c.Assert(repo.Add(contact(c, "Dave")), qt.IsNil)
		c.Assert(repo.Save(ctx), qt.IsNil)
		c.Assert(backend.saves, qt.Equals, 1)
	})

	c.Run("invalid and duplicate records are skipped", func(c *qt.C) {
		backend := &memBackend[*models.Contact]{records: []*models.Contact{
			{Name: "Jane"},
			{Name: ""},
			nil,
			{Name: "jane"},
			{Name: "Bob", Emails: []string{"not-an-email"}},
			{Name: "Carl"},
		}}
		repo := repository.New[*models.Contact]("contacts", backend)
		c.Assert(repo.Load(ctx), qt.Equals, 4)
		c.Assert(names(repo.All()), qt.DeepEquals, []string{"Jane", "Carl"})
		c.Assert(repo.Dirty(), qt.IsFalse)
	})
}

func TestRepository_FileRoundTrip(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	c.Patch(&models.Now, func() time.Time { return time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC) })

	repo := repository.New[*models.Contact]("contacts", storage.NewFile[*models.Contact](path))
	jane := contact(c, "Jane Doe")
	c.Assert(jane.AddEmail("jane@x.com"), qt.IsNil)
	c.Assert(jane.AddPhone("5551234567"), qt.IsNil)
	c.Assert(jane.SetBirthday(&models.Date{Year: 1990, Month: time.May, Day: 4}), qt.IsNil)
	jane.SetAddress("12 Baker Street")
	c.Assert(repo.Add(jane), qt.IsNil)
	c.Assert(repo.Add(contact(c, "Bob")), qt.IsNil)
	c.Assert(repo.Save(ctx), qt.IsNil)

	reloaded := repository.New[*models.Contact]("contacts", storage.NewFile[*models.Contact](path))
	c.Assert(reloaded.Load(ctx), qt.Equals, 0)
	c.Assert(reloaded.All(), qt.DeepEquals, repo.All())
}
