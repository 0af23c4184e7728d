package shell_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/kontacto/internal/shell"
)

func TestHistory_Recall(t *testing.T) {
	c := qt.New(t)
	h := shell.LoadHistory("", 3)

	for _, line := range []string{"a", " ", "b", "b", "c", "d"} {
		h.Add(line)
	}
	c.Assert(h.Len(), qt.Equals, 3)
	c.Assert(h.At(0), qt.Equals, "d")
	c.Assert(h.At(2), qt.Equals, "b")
	c.Assert(func() { h.At(3) }, qt.PanicMatches, `shell: history index 3 out of range.*`)
}

func TestHistory_LoadAndAppend(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "sub", "history")

	h := shell.LoadHistory(path, 0)
	c.Assert(h.Len(), qt.Equals, 0)
	c.Assert(h.Append("list-notes"), qt.IsNil)
	c.Assert(h.Append("   "), qt.IsNil)
	c.Assert(h.Append("add-note \"x\""), qt.IsNil)
	c.Assert(h.Len(), qt.Equals, 0)

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "list-notes\nadd-note \"x\"\n")

	h = shell.LoadHistory(path, 0)
	c.Assert(h.Len(), qt.Equals, 2)
	c.Assert(h.At(0), qt.Equals, `add-note "x"`)
}

func TestHistory_InMemoryAppendIsNoop(t *testing.T) {
	c := qt.New(t)
	c.Assert(shell.LoadHistory("", 0).Append("help"), qt.IsNil)
}
