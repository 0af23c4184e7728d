package render_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/kontacto/internal/models"
	"github.com/go-ports/kontacto/internal/render"
)

func TestStatusLines(t *testing.T) {
	c := qt.New(t)

	c.Assert(render.Error(errors.New("boom")), qt.Equals, "Error: boom")
	c.Assert(render.Success("ok"), qt.Equals, "ok")

	render.EnableColor(true)
	c.Cleanup(func() { render.EnableColor(false) })
	c.Assert(render.Info("hello"), qt.Contains, "hello")
}

func TestContacts(t *testing.T) {
	c := qt.New(t)
	cs := []*models.Contact{
		{Name: "Jane Doe", Phones: []string{"5551234567", "5559876543"}, Emails: []string{"jane@x.com"}, Birthday: &models.Date{Year: 1990, Month: time.May, Day: 4}},
		{Name: "Bob", Address: "1 Main St\nApt 2"},
	}

	lines := strings.Split(strings.TrimRight(render.Contacts(cs), "\n"), "\n")
	c.Assert(lines, qt.HasLen, 4)
	c.Assert(lines[0], qt.Matches, `Name\s+Phones\s+Emails\s+Birthday\s+Address`)
	c.Assert(lines[2], qt.Matches, `Jane Doe\s+5551234567, 5559876543\s+jane@x.com\s+1990-05-04\s+-`)
	c.Assert(lines[3], qt.Matches, `Bob\s+-\s+-\s+-\s+1 Main St Apt 2`)

	card := render.ContactCard(cs[0])
	c.Assert(card, qt.Contains, "Birthday: 1990-05-04")
	c.Assert(card, qt.Contains, "Address:  -")
}

func TestNotesAndTags(t *testing.T) {
	c := qt.New(t)
	n := &models.Note{
		ID:        "0123456789abcdef",
		Content:   strings.Repeat("x", 70),
		Tags:      []string{"a", "b"},
		CreatedAt: time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC),
	}

	got := render.Notes([]*models.Note{n})
	c.Assert(got, qt.Contains, "01234567")
	c.Assert(got, qt.Contains, strings.Repeat("x", 60)+"...")
	c.Assert(got, qt.Contains, "a, b")

	c.Assert(strings.HasPrefix(render.NoteChoices([]*models.Note{n}), "  [01234567] "), qt.IsTrue)

	grouped := render.NotesByTag([]render.TagGroup{{Tag: "a", Notes: []*models.Note{n}}, {Tag: "b", Notes: []*models.Note{n}}})
	c.Assert(grouped, qt.Contains, "Tag: a (1 notes)\n  - [01234567]")
	c.Assert(grouped, qt.Contains, "\n\nTag: b (1 notes)")

	c.Assert(render.Tags([]render.TagCount{{Tag: "work", Count: 3}}), qt.Matches, `(?s).*work\s+3\n`)
}

func TestBirthdays(t *testing.T) {
	c := qt.New(t)
	ann := &models.Contact{Name: "Ann", Birthday: &models.Date{Year: 1990, Month: time.October, Day: 19}}
	got := render.Birthdays([]render.Birthday{{Contact: ann, Days: 0}, {Contact: ann, Days: 1}, {Contact: ann, Days: 5}})
	c.Assert(got, qt.Contains, "today")
	c.Assert(got, qt.Contains, "tomorrow")
	c.Assert(got, qt.Contains, "in 5 days")
}
