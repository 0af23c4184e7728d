package commands

import (
	"fmt"
	"strings"

	"github.com/go-ports/kontacto/internal/render"
)

const clearSequence = "\x1b[H\x1b[2J"

func help(s *Session, args []string) error {
	reg := s.registry()
	if len(args) == 1 {
		if spec, ok := reg.Lookup(args[0]); ok {
			s.print(commandHelp(spec))
			return nil
		}
		res, err := reg.Resolve(args[0])
		if err != nil {
			return err
		}
		if res == nil {
			return invalidArgs("empty command name")
		}
		s.print(commandHelp(res.Spec))
		return nil
	}
	s.print(overview(reg))
	return nil
}

// commandHelp renders the full help of one command.
func commandHelp(spec *Spec) string {
	var sb strings.Builder
	sb.WriteString(render.Header(spec.Name))
	sb.WriteString(" - ")
	sb.WriteString(spec.Description)
	sb.WriteString("\n\nUsage: ")
	sb.WriteString(spec.Usage)
	sb.WriteString("\n")
	if len(spec.Aliases) > 0 {
		sb.WriteString("Aliases: ")
		sb.WriteString(strings.Join(spec.Aliases, ", "))
		sb.WriteString("\n")
	}
	if len(spec.Examples) > 0 {
		sb.WriteString("Examples:\n")
		for _, ex := range spec.Examples {
			sb.WriteString("  ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// overview lists every command by group.
func overview(reg *Registry) string {
	var sb strings.Builder
	sb.WriteString(render.Header("Kontacto - available commands"))
	sb.WriteString("\n")
	for _, g := range groupOrder {
		fmt.Fprintf(&sb, "\n%s%s commands:\n", strings.ToUpper(string(g[:1])), g[1:])
		for _, spec := range reg.specs {
			if spec.Group != g {
				continue
			}
			aliases := ""
			if len(spec.Aliases) > 0 {
				aliases = " (" + strings.Join(spec.Aliases, ", ") + ")"
			}
			fmt.Fprintf(&sb, "  %-20s %s%s\n", spec.Name, spec.Description, aliases)
		}
	}
	sb.WriteString("\nType 'help <command>' for details on one command.\n")
	return sb.String()
}

func clearScreen(s *Session, _ []string) error {
	if s.ClearScreen != nil {
		return s.ClearScreen()
	}
	s.print(clearSequence)
	return nil
}

func exit(s *Session, _ []string) error {
	s.println(render.Info("Goodbye!"))
	return ErrExit
}
