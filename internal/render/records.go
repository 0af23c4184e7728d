package render

import (
	"fmt"
	"strings"

	"github.com/go-ports/kontacto/internal/models"
)

const (
	notePreviewRunes  = 60
	groupPreviewRunes = 80
	timestampLayout   = "2006-01-02 15:04"
)

// ContactCard renders every field of one contact.
func ContactCard(c *models.Contact) string {
	var sb strings.Builder
	sb.WriteString(Header(c.Name))
	sb.WriteString("\n  Address:  ")
	sb.WriteString(orDash(c.Address))
	sb.WriteString("\n  Phones:   ")
	sb.WriteString(orDash(strings.Join(c.Phones, ", ")))
	sb.WriteString("\n  Emails:   ")
	sb.WriteString(orDash(strings.Join(c.Emails, ", ")))
	sb.WriteString("\n  Birthday: ")
	if c.Birthday != nil {
		sb.WriteString(c.Birthday.String())
	} else {
		sb.WriteString("-")
	}
	sb.WriteString("\n")
	return sb.String()
}

// Contacts renders contacts as a table.
func Contacts(cs []*models.Contact) string {
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		bd := "-"
		if c.Birthday != nil {
			bd = c.Birthday.String()
		}
		rows = append(rows, []string{
			c.Name,
			orDash(strings.Join(c.Phones, ", ")),
			orDash(strings.Join(c.Emails, ", ")),
			bd,
			orDash(c.Address),
		})
	}
	return table([]string{"Name", "Phones", "Emails", "Birthday", "Address"}, rows)
}

// Notes renders notes as a table with their short IDs.
func Notes(ns []*models.Note) string {
	rows := make([][]string, 0, len(ns))
	for _, n := range ns {
		rows = append(rows, []string{
			n.ShortID(),
			n.Preview(notePreviewRunes),
			orDash(strings.Join(n.Tags, ", ")),
			n.CreatedAt.Local().Format(timestampLayout),
		})
	}
	return table([]string{"ID", "Content", "Tags", "Created"}, rows)
}

// NoteChoices renders candidate notes as "[short-id] preview" lines.
func NoteChoices(ns []*models.Note) string {
	var sb strings.Builder
	for _, n := range ns {
		fmt.Fprintf(&sb, "  [%s] %s\n", n.ShortID(), n.Preview(notePreviewRunes))
	}
	return sb.String()
}

// TagCount is the number of notes carrying Tag.
type TagCount struct {
	Tag   string
	Count int
}

// Tags renders tag usage counts.
func Tags(counts []TagCount) string {
	rows := make([][]string, 0, len(counts))
	for _, tc := range counts {
		rows = append(rows, []string{tc.Tag, fmt.Sprint(tc.Count)})
	}
	return table([]string{"Tag", "Notes"}, rows)
}

// TagGroup is the set of notes carrying Tag.
type TagGroup struct {
	Tag   string
	Notes []*models.Note
}

// NotesByTag renders notes grouped under their tags.
func NotesByTag(groups []TagGroup) string {
	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(Header(fmt.Sprintf("Tag: %s (%d notes)", g.Tag, len(g.Notes))))
		sb.WriteString("\n")
		for _, n := range g.Notes {
			fmt.Fprintf(&sb, "  - [%s] %s\n", n.ShortID(), cellText(n.Preview(groupPreviewRunes)))
		}
	}
	return sb.String()
}

// Birthday is a contact with the days left until their next birthday.
type Birthday struct {
	Contact *models.Contact
	Days    int
}

// Birthdays renders upcoming birthdays.
func Birthdays(bs []Birthday) string {
	rows := make([][]string, 0, len(bs))
	for _, b := range bs {
		when := fmt.Sprintf("in %d days", b.Days)
		switch b.Days {
		case 0:
			when = "today"
		case 1:
			when = "tomorrow"
		}
		rows = append(rows, []string{b.Contact.Name, b.Contact.Birthday.String(), when})
	}
	return table([]string{"Name", "Birthday", "When"}, rows)
}
