// Package commands resolves free-text command lines against a fixed command
// table and runs the matching handler over the contact and note
// repositories.
package commands

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-ports/kontacto/internal/fuzzy"
)

// Kind identifies one command of the fixed command set.
type Kind int

const (
	AddContact Kind = iota
	ListContacts
	SearchContacts
	EditContact
	DeleteContact
	Birthdays
	GenerateContacts
	CleanContacts
	AddNote
	ListNotes
	SearchNotes
	SearchTag
	EditNote
	DeleteNote
	GenerateNotes
	CleanNotes
	AddTag
	RemoveTag
	ListTags
	NotesByTag
	CleanTags
	Help
	Clear
	Exit

	kindCount
)

// Group is the help section a command is listed under.
type Group string

const (
	GroupContacts Group = "contacts"
	GroupNotes    Group = "notes"
	GroupTags     Group = "tags"
	GroupGeneral  Group = "general"
)

var groupOrder = []Group{GroupContacts, GroupNotes, GroupTags, GroupGeneral}

// Unbounded as Spec.MaxArgs accepts any number of arguments.
const Unbounded = -1

// Spec describes one command.
type Spec struct {
	Kind        Kind
	Name        string
	Aliases     []string
	MinArgs     int
	MaxArgs     int
	Usage       string
	Description string
	Examples    []string
	Group       Group
}

// Names returns the canonical name followed by the aliases.
func (s *Spec) Names() []string {
	return append([]string{s.Name}, s.Aliases...)
}

// CheckArity reports whether n arguments suit the command.
func (s *Spec) CheckArity(n int) error {
	if n < s.MinArgs || (s.MaxArgs != Unbounded && n > s.MaxArgs) {
		return fmt.Errorf("%w: %s expects %s, got %d; usage: %s",
			ErrInvalidArguments, s.Name, s.arity(), n, s.Usage)
	}
	return nil
}

func (s *Spec) arity() string {
	switch {
	case s.MaxArgs == Unbounded:
		return fmt.Sprintf("at least %d argument(s)", s.MinArgs)
	case s.MinArgs == s.MaxArgs:
		return fmt.Sprintf("%d argument(s)", s.MinArgs)
	default:
		return fmt.Sprintf("%d to %d argument(s)", s.MinArgs, s.MaxArgs)
	}
}

// Handler runs one command against a session.
type Handler func(s *Session, args []string) error

// Registry is the read-only command table.
type Registry struct {
	specs    []*Spec
	byName   map[string]*Spec
	byKind   map[Kind]*Spec
	handlers map[Kind]Handler
	targets  []fuzzy.Target
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the process-wide command table. It is built on
// first use and never modified afterwards.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = mustNewRegistry(specTable, handlerTable())
	})
	return defaultRegistry
}

// mustNewRegistry indexes specs and panics when the table is inconsistent:
// a kind without exactly one spec and one handler, or a name used twice.
func mustNewRegistry(specs []Spec, handlers map[Kind]Handler) *Registry {
	r := &Registry{
		byName:   map[string]*Spec{},
		byKind:   map[Kind]*Spec{},
		handlers: handlers,
	}
	for i := range specs {
		s := &specs[i]
		if _, dup := r.byKind[s.Kind]; dup {
			panic(fmt.Sprintf("commands: kind %d registered twice", s.Kind))
		}
		r.byKind[s.Kind] = s
		for _, name := range s.Names() {
			if _, dup := r.byName[name]; dup {
				panic(fmt.Sprintf("commands: name %q registered twice", name))
			}
			r.byName[name] = s
		}
		r.specs = append(r.specs, s)
		r.targets = append(r.targets, fuzzy.Target{ID: s.Name, Names: s.Names()})
	}
	for k := Kind(0); k < kindCount; k++ {
		if _, ok := r.byKind[k]; !ok {
			panic(fmt.Sprintf("commands: kind %d has no spec", k))
		}
		if handlers[k] == nil {
			panic(fmt.Sprintf("commands: %s has no handler", r.byKind[k].Name))
		}
	}
	return r
}

// Specs returns every command in table order.
func (r *Registry) Specs() []*Spec { return slices.Clone(r.specs) }

// Lookup returns the command whose canonical name or alias is name.
func (r *Registry) Lookup(name string) (*Spec, bool) {
	s, ok := r.byName[strings.ToLower(name)]
	return s, ok
}

// Spec returns the command of kind k.
func (r *Registry) Spec(k Kind) *Spec { return r.byKind[k] }

func (r *Registry) handler(k Kind) Handler { return r.handlers[k] }

// Complete returns the canonical names and aliases starting with prefix,
// sorted.
func (r *Registry) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for name := range r.byName {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// ---------------------------------------------------------------------------
// command table
// ---------------------------------------------------------------------------

var specTable = []Spec{
	{
		Kind: AddContact, Name: "add-contact", Aliases: []string{"ac", "new-contact"},
		MinArgs: 1, MaxArgs: Unbounded, Group: GroupContacts,
		Usage:       "add-contact <name> [--address=<address>] [--phone=<phone>] [--email=<email>] [--birthday=<date>]",
		Description: "Add a new contact",
		Examples: []string{
			`add-contact "John Doe"`,
			`add-contact "Jane Doe" --email=jane@example.com --phone=555-123-4567`,
			`ac Bob --birthday 1990-05-04 --address "12 Baker Street"`,
		},
	},
	{
		Kind: ListContacts, Name: "list-contacts", Aliases: []string{"lc", "contacts"},
		MaxArgs: 0, Group: GroupContacts,
		Usage:       "list-contacts",
		Description: "List all contacts",
		Examples:    []string{"list-contacts", "lc"},
	},
	{
		Kind: SearchContacts, Name: "search-contacts", Aliases: []string{"sc", "find-contacts"},
		MinArgs: 1, MaxArgs: Unbounded, Group: GroupContacts,
		Usage:       "search-contacts <query>",
		Description: "Search contacts by any field",
		Examples:    []string{"search-contacts john", "sc 555-1234"},
	},
	{
		Kind: EditContact, Name: "edit-contact", Aliases: []string{"ec", "update-contact"},
		MinArgs: 2, MaxArgs: Unbounded, Group: GroupContacts,
		Usage:       "edit-contact <name> <field> [value...]",
		Description: "Edit a contact field (" + strings.Join(editFields, ", ") + ")",
		Examples: []string{
			`edit-contact "John Doe" add-phone 555-987-6543`,
			`ec Jane address "1 Main St"`,
			`ec Jane replace-email jane@old.com jane@new.com`,
		},
	},
	{
		Kind: DeleteContact, Name: "delete-contact", Aliases: []string{"dc", "remove-contact"},
		MinArgs: 1, MaxArgs: Unbounded, Group: GroupContacts,
		Usage:       "delete-contact <name>",
		Description: "Delete a contact",
		Examples:    []string{`delete-contact "John Doe"`, "dc Jane Smith"},
	},
	{
		Kind: Birthdays, Name: "birthdays", Aliases: []string{"bd", "upcoming-birthdays"},
		MaxArgs: 1, Group: GroupContacts,
		Usage:       "birthdays [days]",
		Description: "Show upcoming birthdays",
		Examples:    []string{"birthdays", "birthdays 30", "bd 7"},
	},
	{
		Kind: GenerateContacts, Name: "generate-contacts", Aliases: []string{"gc", "random-contacts"},
		MaxArgs: 1, Group: GroupContacts,
		Usage:       "generate-contacts [count]",
		Description: "Generate random test contacts",
		Examples:    []string{"generate-contacts", "gc 50"},
	},
	{
		Kind: CleanContacts, Name: "clean-contacts", Aliases: []string{"cc", "clear-contacts"},
		MaxArgs: 1, Group: GroupContacts,
		Usage:       "clean-contacts [--yes]",
		Description: "Delete all contacts",
		Examples:    []string{"clean-contacts", "cc --yes"},
	},
	{
		Kind: AddNote, Name: "add-note", Aliases: []string{"an", "new-note"},
		MinArgs: 1, MaxArgs: Unbounded, Group: GroupNotes,
		Usage:       "add-note <content> [tag...]",
		Description: "Add a new note",
		Examples:    []string{`add-note "buy milk" shopping`, `an "call mom" family urgent`},
	},
	{
		Kind: ListNotes, Name: "list-notes", Aliases: []string{"ln", "notes"},
		MaxArgs: 0, Group: GroupNotes,
		Usage:       "list-notes",
		Description: "List all notes",
		Examples:    []string{"list-notes", "ln"},
	},
	{
		Kind: SearchNotes, Name: "search-notes", Aliases: []string{"sn", "find-notes"},
		MinArgs: 1, MaxArgs: Unbounded, Group: GroupNotes,
		Usage:       "search-notes <query>",
		Description: "Search notes by content or tags",
		Examples:    []string{"search-notes shopping", "sn important"},
	},
	{
		Kind: SearchTag, Name: "search-tag", Aliases: []string{"st", "tag"},
		MinArgs: 1, MaxArgs: 1, Group: GroupNotes,
		Usage:       "search-tag <tag>",
		Description: "Show notes with a tag",
		Examples:    []string{"search-tag work", "st important"},
	},
	{
		Kind: EditNote, Name: "edit-note", Aliases: []string{"en", "update-note"},
		MinArgs: 2, MaxArgs: Unbounded, Group: GroupNotes,
		Usage:       "edit-note <query> <new content...>",
		Description: "Replace the content of a note",
		Examples:    []string{`edit-note "buy milk" buy oat milk`, "en 1a2b3c4d call mom at 5"},
	},
	{
		Kind: DeleteNote, Name: "delete-note", Aliases: []string{"dn", "remove-note"},
		MinArgs: 1, MaxArgs: Unbounded, Group: GroupNotes,
		Usage:       "delete-note <query>",
		Description: "Delete a note",
		Examples:    []string{`delete-note "old reminder"`, "dn 1a2b3c4d"},
	},
	{
		Kind: GenerateNotes, Name: "generate-notes", Aliases: []string{"gn", "random-notes"},
		MaxArgs: 1, Group: GroupNotes,
		Usage:       "generate-notes [count]",
		Description: "Generate random test notes",
		Examples:    []string{"generate-notes", "gn 50"},
	},
	{
		Kind: CleanNotes, Name: "clean-notes", Aliases: []string{"cn", "clear-notes"},
		MaxArgs: 1, Group: GroupNotes,
		Usage:       "clean-notes [--yes]",
		Description: "Delete all notes",
		Examples:    []string{"clean-notes", "cn --yes"},
	},
	{
		Kind: AddTag, Name: "add-tag", Aliases: []string{"at"},
		MinArgs: 2, MaxArgs: Unbounded, Group: GroupTags,
		Usage:       "add-tag <query> <tag...>",
		Description: "Add tags to a note",
		Examples:    []string{`add-tag "buy milk" urgent`, "at 1a2b3c4d work later"},
	},
	{
		Kind: RemoveTag, Name: "remove-tag", Aliases: []string{"rt"},
		MinArgs: 2, MaxArgs: Unbounded, Group: GroupTags,
		Usage:       "remove-tag <query> <tag...>",
		Description: "Remove tags from a note",
		Examples:    []string{`remove-tag "buy milk" urgent`, "rt 1a2b3c4d old"},
	},
	{
		Kind: ListTags, Name: "list-tags", Aliases: []string{"lt", "tags"},
		MaxArgs: 0, Group: GroupTags,
		Usage:       "list-tags",
		Description: "List all tags with their note counts",
		Examples:    []string{"list-tags", "lt"},
	},
	{
		Kind: NotesByTag, Name: "notes-by-tag", Aliases: []string{"nbt", "grouped"},
		MaxArgs: 0, Group: GroupTags,
		Usage:       "notes-by-tag",
		Description: "Show notes grouped by tag",
		Examples:    []string{"notes-by-tag", "nbt"},
	},
	{
		Kind: CleanTags, Name: "clean-tags", Aliases: []string{"ct", "clear-tags"},
		MaxArgs: 1, Group: GroupTags,
		Usage:       "clean-tags [--yes]",
		Description: "Remove every tag from every note",
		Examples:    []string{"clean-tags", "ct --yes"},
	},
	{
		Kind: Help, Name: "help", Aliases: []string{"h", "?"},
		MaxArgs: 1, Group: GroupGeneral,
		Usage:       "help [command]",
		Description: "Show available commands or help for one command",
		Examples:    []string{"help", "help add-contact", "? sn"},
	},
	{
		Kind: Clear, Name: "clear", Aliases: []string{"cls"},
		MaxArgs: 0, Group: GroupGeneral,
		Usage:       "clear",
		Description: "Clear the screen",
		Examples:    []string{"clear", "cls"},
	},
	{
		Kind: Exit, Name: "exit", Aliases: []string{"quit", "q", "bye"},
		MaxArgs: 0, Group: GroupGeneral,
		Usage:       "exit",
		Description: "Save and leave the shell",
		Examples:    []string{"exit", "q"},
	},
}

func handlerTable() map[Kind]Handler {
	return map[Kind]Handler{
		AddContact:       addContact,
		ListContacts:     listContacts,
		SearchContacts:   searchContacts,
		EditContact:      editContact,
		DeleteContact:    deleteContact,
		Birthdays:        upcomingBirthdays,
		GenerateContacts: generateContacts,
		CleanContacts:    cleanContacts,
		AddNote:          addNote,
		ListNotes:        listNotes,
		SearchNotes:      searchNotes,
		SearchTag:        searchTag,
		EditNote:         editNote,
		DeleteNote:       deleteNote,
		GenerateNotes:    generateNotes,
		CleanNotes:       cleanNotes,
		AddTag:           addTag,
		RemoveTag:        removeTag,
		ListTags:         listTags,
		NotesByTag:       notesByTag,
		CleanTags:        cleanTags,
		Help:             help,
		Clear:            clearScreen,
		Exit:             exit,
	}
}
