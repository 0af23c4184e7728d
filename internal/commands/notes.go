package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-ports/kontacto/internal/models"
	"github.com/go-ports/kontacto/internal/render"
)

func addNote(s *Session, args []string) error {
	n, err := models.NewNote(args[0], args[1:]...)
	if err != nil {
		return err
	}
	if err := s.Notes.Add(n); err != nil {
		return err
	}
	s.println(render.Success(fmt.Sprintf("Note [%s] added with %d tag(s).", n.ShortID(), len(n.Tags))))
	return nil
}

func listNotes(s *Session, _ []string) error {
	all := s.Notes.All()
	if len(all) == 0 {
		s.println(render.Info("No notes found."))
		return nil
	}
	s.println(render.Info(fmt.Sprintf("Total notes: %d", len(all))))
	s.print(render.Notes(all))
	return nil
}

func searchNotes(s *Session, args []string) error {
	query := strings.Join(args, " ")
	found := slices.Collect(s.Notes.Find(func(n *models.Note) bool { return n.Matches(query) }))
	if len(found) == 0 {
		s.println(render.Info(fmt.Sprintf("No notes found matching %q.", query)))
		return nil
	}
	s.println(render.Info(fmt.Sprintf("Found %d note(s) matching %q:", len(found), query)))
	s.print(render.Notes(found))
	return nil
}

func searchTag(s *Session, args []string) error {
	tag := models.NormalizeTag(args[0])
	if tag == "" {
		return invalidArgs("tag %q is empty after normalization", args[0])
	}
	found := slices.Collect(s.Notes.Find(func(n *models.Note) bool { return n.HasTag(tag) }))
	if len(found) == 0 {
		s.println(render.Info(fmt.Sprintf("No notes found with tag %q.", tag)))
		return nil
	}
	s.println(render.Info(fmt.Sprintf("Found %d note(s) with tag %q:", len(found), tag)))
	s.print(render.Notes(found))
	return nil
}

func editNote(s *Session, args []string) error {
	n, err := s.findNote(args[0])
	if err != nil {
		return err
	}
	if err := n.SetContent(strings.Join(args[1:], " ")); err != nil {
		return err
	}
	s.Notes.Touch()
	s.println(render.Success(fmt.Sprintf("Note [%s] updated.", n.ShortID())))
	return nil
}

func deleteNote(s *Session, args []string) error {
	n, err := s.findNote(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if _, err := s.Notes.Remove(n.Key()); err != nil {
		return err
	}
	s.println(render.Success(fmt.Sprintf("Note [%s] deleted: %s", n.ShortID(), n.Preview(40))))
	return nil
}

func cleanNotes(s *Session, args []string) error {
	yes, err := parseYes("clean-notes", args)
	if err != nil {
		return err
	}
	if s.Notes.Len() == 0 {
		s.println(render.Info("No notes to delete."))
		return nil
	}
	ok, err := s.confirm(yes, fmt.Sprintf("Delete ALL %d notes? This cannot be undone.", s.Notes.Len()))
	if err != nil {
		return err
	}
	if !ok {
		s.println(render.Info("Operation cancelled."))
		return nil
	}
	n := s.Notes.Clear()
	s.println(render.Success(fmt.Sprintf("Deleted %d notes.", n)))
	return nil
}
