package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-ports/kontacto/internal/models"
	"github.com/go-ports/kontacto/internal/render"
	"github.com/go-ports/kontacto/internal/repository"
)

// normalizeTags normalizes every tag and fails before any note is touched
// when one of them is empty after normalization.
func normalizeTags(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		t := models.NormalizeTag(r)
		if t == "" {
			return nil, invalidArgs("tag %q is empty after normalization", r)
		}
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func addTag(s *Session, args []string) error {
	n, err := s.findNote(args[0])
	if err != nil {
		return err
	}
	tags, err := normalizeTags(args[1:])
	if err != nil {
		return err
	}
	for _, t := range tags {
		if _, err := n.AddTag(t); err != nil {
			return err
		}
	}
	s.Notes.Touch()
	s.println(render.Success(fmt.Sprintf("Note [%s] tags: %s", n.ShortID(), strings.Join(n.Tags, ", "))))
	return nil
}

func removeTag(s *Session, args []string) error {
	n, err := s.findNote(args[0])
	if err != nil {
		return err
	}
	tags, err := normalizeTags(args[1:])
	if err != nil {
		return err
	}
	for _, t := range tags {
		if !n.HasTag(t) {
			return fmt.Errorf("note [%s] has no tag %q: %w", n.ShortID(), t, repository.ErrNotFound)
		}
	}
	for _, t := range tags {
		if err := n.RemoveTag(t); err != nil {
			return err
		}
	}
	s.Notes.Touch()
	s.println(render.Success(fmt.Sprintf("Removed %s from note [%s].", strings.Join(tags, ", "), n.ShortID())))
	return nil
}

// tagGroups returns every tag in use with its notes, sorted by tag.
func tagGroups(notes []*models.Note) []render.TagGroup {
	idx := map[string]int{}
	var groups []render.TagGroup
	for _, n := range notes {
		for _, t := range n.Tags {
			i, ok := idx[t]
			if !ok {
				i = len(groups)
				idx[t] = i
				groups = append(groups, render.TagGroup{Tag: t})
			}
			groups[i].Notes = append(groups[i].Notes, n)
		}
	}
	slices.SortFunc(groups, func(a, b render.TagGroup) int { return strings.Compare(a.Tag, b.Tag) })
	return groups
}

func listTags(s *Session, _ []string) error {
	groups := tagGroups(s.Notes.All())
	if len(groups) == 0 {
		s.println(render.Info("No tags found."))
		return nil
	}
	counts := make([]render.TagCount, len(groups))
	for i, g := range groups {
		counts[i] = render.TagCount{Tag: g.Tag, Count: len(g.Notes)}
	}
	s.println(render.Info(fmt.Sprintf("Total tags: %d", len(counts))))
	s.print(render.Tags(counts))
	return nil
}

func notesByTag(s *Session, _ []string) error {
	groups := tagGroups(s.Notes.All())
	if len(groups) == 0 {
		s.println(render.Info("No tagged notes found."))
		return nil
	}
	s.print(render.NotesByTag(groups))
	return nil
}

func cleanTags(s *Session, args []string) error {
	yes, err := parseYes("clean-tags", args)
	if err != nil {
		return err
	}
	tagged := slices.Collect(s.Notes.Find(func(n *models.Note) bool { return len(n.Tags) > 0 }))
	if len(tagged) == 0 {
		s.println(render.Info("No tags to remove."))
		return nil
	}
	ok, err := s.confirm(yes, fmt.Sprintf("Remove ALL tags from %d notes?", len(tagged)))
	if err != nil {
		return err
	}
	if !ok {
		s.println(render.Info("Operation cancelled."))
		return nil
	}
	for _, n := range tagged {
		n.ClearTags()
	}
	s.Notes.Touch()
	s.println(render.Success(fmt.Sprintf("Removed all tags from %d notes.", len(tagged))))
	return nil
}
