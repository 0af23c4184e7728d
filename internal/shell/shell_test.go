package shell_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/kontacto/internal/commands"
	"github.com/go-ports/kontacto/internal/service"
	"github.com/go-ports/kontacto/internal/shell"
	"github.com/go-ports/kontacto/internal/storage"
)

// runShell feeds input to a shell over a fresh service rooted at home and
// returns everything it printed.
func runShell(c *qt.C, home, input string) string {
	c.Helper()
	svc, err := service.New(c.Context(), home)
	c.Assert(err, qt.IsNil)
	defer func() { c.Assert(svc.Close(c.Context()), qt.IsNil) }()

	var out bytes.Buffer
	reader := shell.NewScannerReader(strings.NewReader(input), &out)
	hist := shell.LoadHistory(svc.HistoryPath(), 0)
	sh := shell.New(svc, reader, &out, hist)
	c.Assert(sh.Run(c.Context()), qt.IsNil)
	return out.String()
}

func TestShell_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	out := runShell(c, home, strings.Join([]string{
		"add-contact Jane Doe --phone=5551234567",
		"",
		"list-contacts",
	}, "\n"))

	c.Assert(out, qt.Contains, "Welcome to Kontacto!")
	c.Assert(out, qt.Contains, `Contact "Jane Doe" added.`)
	c.Assert(out, qt.Contains, "5551234567")
	c.Assert(out, qt.Contains, "Goodbye!")
	c.Assert(strings.Count(out, "kontacto> "), qt.Equals, 4)

	data, err := os.ReadFile(filepath.Join(home, "contacts.yaml"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, "Jane Doe")
}

func TestShell_SavesAfterEachCommand(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	svc, err := service.New(c.Context(), home)
	c.Assert(err, qt.IsNil)
	defer svc.Close(c.Context())

	var out bytes.Buffer
	sh := shell.New(svc, shell.NewScannerReader(strings.NewReader("add-note \"call mom\" family\n"), &out), &out, nil)
	c.Assert(sh.Run(c.Context()), qt.IsNil)

	c.Assert(svc.Notes.Dirty(), qt.IsFalse)
	data, err := os.ReadFile(filepath.Join(home, "notes.yaml"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, "call mom")
}

func TestShell_SaveFailureIsReported(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	c.Assert(os.MkdirAll(filepath.Join(home, "contacts.yaml", "keep"), 0o755), qt.IsNil)

	svc, err := service.New(c.Context(), home)
	c.Assert(err, qt.IsNil)

	var out bytes.Buffer
	input := "add-contact Zed\nadd-note \"still saved\"\n"
	sh := shell.New(svc, shell.NewScannerReader(strings.NewReader(input), &out), &out, nil)
	c.Assert(sh.Run(c.Context()), qt.IsNil)

	got := out.String()
	c.Assert(got, qt.Contains, `Contact "Zed" added.`)
	c.Assert(strings.Count(got, "Error: save contacts: storage I/O error"), qt.Equals, 2)
	c.Assert(got, qt.Contains, "Goodbye!")
	c.Assert(svc.Notes.Dirty(), qt.IsFalse)

	err = svc.Close(c.Context())
	c.Assert(err, qt.ErrorIs, storage.ErrIO)
}

func TestShell_FuzzyNotice(t *testing.T) {
	c := qt.New(t)

	out := runShell(c, t.TempDir(), "lst-contacts\n")
	c.Assert(out, qt.Contains, `Interpreting "lst-contacts" as "list-contacts"`)
}

func TestShell_ErrorsDoNotEndTheLoop(t *testing.T) {
	c := qt.New(t)

	out := runShell(c, t.TempDir(), strings.Join([]string{
		"xyzzyplugh",
		"delete-contact Nobody",
		"add-contact Jane --phone=12",
		"add-contact Jane",
	}, "\n"))

	c.Assert(out, qt.Contains, `Error: unknown command "xyzzyplugh"`)
	c.Assert(out, qt.Contains, "Type 'help' to see available commands.")
	c.Assert(out, qt.Contains, "Error: invalid arguments: invalid phone number")
	c.Assert(out, qt.Contains, `Contact "Jane" added.`)
}

func TestShell_ExitStopsReading(t *testing.T) {
	c := qt.New(t)

	out := runShell(c, t.TempDir(), "exit\nadd-contact Jane\n")
	c.Assert(out, qt.Contains, "Goodbye!")
	c.Assert(out, qt.Not(qt.Contains), "Jane")
}

func TestShell_Confirmation(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{"yes", "y", "Deleted 1 contacts."},
		{"spelled out", "YES", "Deleted 1 contacts."},
		{"no", "n", "Operation cancelled."},
		{"blank", "", "Operation cancelled."},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			out := runShell(c, c.TempDir(), "add-contact Jane\nclean-contacts\n"+tt.answer+"\n")
			c.Assert(out, qt.Contains, "[y/N]")
			c.Assert(out, qt.Contains, tt.want)
		})
	}

	c.Run("end of input declines", func(c *qt.C) {
		out := runShell(c, c.TempDir(), "add-contact Jane\nclean-contacts")
		c.Assert(out, qt.Contains, "Operation cancelled.")
	})
}

func TestShell_History(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	runShell(c, home, "help\n\nlist-notes\n")
	runShell(c, home, "list-tags\n")

	data, err := os.ReadFile(filepath.Join(home, "history"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "help\nlist-notes\nlist-tags\n")
}

func TestShell_ConfirmationAnswerIsNotRecalled(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	pr, pw, err := os.Pipe()
	c.Assert(err, qt.IsNil)
	defer pr.Close()
	_, err = pw.WriteString("add-contact Jane\nclean-contacts\ny\n")
	c.Assert(err, qt.IsNil)
	c.Assert(pw.Close(), qt.IsNil)

	svc, err := service.New(c.Context(), home)
	c.Assert(err, qt.IsNil)
	defer svc.Close(c.Context())

	var out bytes.Buffer
	hist := shell.LoadHistory(svc.HistoryPath(), 0)
	reader := shell.NewTerminalReader(pr, &out, commands.DefaultRegistry(), hist)
	c.Assert(shell.New(svc, reader, &out, hist).Run(c.Context()), qt.IsNil)

	c.Assert(out.String(), qt.Contains, "Deleted 1 contacts.")
	c.Assert(hist.Len(), qt.Equals, 2)
	c.Assert(hist.At(0), qt.Equals, "clean-contacts")
	c.Assert(hist.At(1), qt.Equals, "add-contact Jane")

	data, err := os.ReadFile(filepath.Join(home, "history"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "add-contact Jane\nclean-contacts\n")
}
