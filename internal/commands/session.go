package commands

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/go-ports/kontacto/internal/models"
	"github.com/go-ports/kontacto/internal/repository"
)

// DefaultBirthdayDays is the birthdays window used when a session sets none.
const DefaultBirthdayDays = 7

// Session is the state a handler works on. It is owned by one shell or
// request at a time.
type Session struct {
	Contacts *repository.Repository[*models.Contact]
	Notes    *repository.Repository[*models.Note]
	// Out receives all command output.
	Out io.Writer
	// Confirm asks a yes/no question. When nil, commands that need
	// confirmation fail unless run with --yes.
	Confirm func(question string) (bool, error)
	// Registry defaults to DefaultRegistry().
	Registry *Registry
	// BirthdayDays is the default window of the birthdays command.
	BirthdayDays int
	// Rand drives the generate-* commands; nil uses a random seed.
	Rand *rand.Rand
	// ClearScreen overrides how the clear command wipes the terminal.
	ClearScreen func() error
}

func (s *Session) registry() *Registry {
	if s.Registry == nil {
		return DefaultRegistry()
	}
	return s.Registry
}

func (s *Session) rand() *rand.Rand {
	if s.Rand == nil {
		s.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s.Rand
}

// Resolve matches line against the session's registry.
func (s *Session) Resolve(line string) (*Resolution, error) {
	return s.registry().Resolve(line)
}

// Execute checks the argument count of res and runs its handler.
func (s *Session) Execute(res *Resolution) error {
	if err := res.Spec.CheckArity(len(res.Args)); err != nil {
		return err
	}
	return asInvalid(s.registry().handler(res.Spec.Kind)(s, res.Args))
}

// Run resolves and executes line. The resolution is returned even when the
// command fails; both are nil for a blank line.
func (s *Session) Run(line string) (*Resolution, error) {
	res, err := s.Resolve(line)
	if err != nil || res == nil {
		return res, err
	}
	return res, s.Execute(res)
}

// FuzzyNotice describes a fuzzy resolution for the user, or returns "" for
// exact and alias matches.
func FuzzyNotice(res *Resolution) string {
	if res == nil || res.Method != MethodFuzzy {
		return ""
	}
	return fmt.Sprintf("Interpreting %q as %q (%.0f%% match)", res.Input, res.Spec.Name, res.Score*100)
}

func (s *Session) println(a ...any) {
	fmt.Fprintln(s.Out, a...)
}

func (s *Session) print(text string) {
	fmt.Fprint(s.Out, text)
}

// confirm asks question unless yes is set.
func (s *Session) confirm(yes bool, question string) (bool, error) {
	if yes {
		return true, nil
	}
	if s.Confirm == nil {
		return false, invalidArgs("confirmation required; run again with --yes")
	}
	return s.Confirm(question)
}
