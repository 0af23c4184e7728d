package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync/atomic"

	"golang.org/x/term"

	"github.com/go-ports/kontacto/internal/commands"
)

// ErrInterrupted is returned by a LineReader when the user pressed Ctrl-C
// at the prompt.
var ErrInterrupted = errors.New("interrupted")

// LineReader reads one line of input after showing prompt. io.EOF ends the
// session.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// answerReader is implemented by readers that keep entered lines for recall
// and can read a reply without keeping it.
type answerReader interface {
	ReadAnswer(prompt string) (string, error)
}

// ---------------------------------------------------------------------------
// Plain input
// ---------------------------------------------------------------------------

// ScannerReader reads newline-terminated lines from a non-terminal input.
type ScannerReader struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewScannerReader reads lines from in and writes prompts to out.
func NewScannerReader(in io.Reader, out io.Writer) *ScannerReader {
	return &ScannerReader{sc: bufio.NewScanner(in), out: out}
}

// ReadLine implements LineReader.
func (r *ScannerReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.sc.Scan() {
		fmt.Fprintln(r.out)
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(r.sc.Text(), "\r"), nil
}

// ---------------------------------------------------------------------------
// Terminal input
// ---------------------------------------------------------------------------

const keyCtrlC = 3

// interruptWatcher remembers whether the last read carried Ctrl-C, which
// term.Terminal reports as io.EOF.
type interruptWatcher struct {
	r   io.Reader
	hit atomic.Bool
}

func (w *interruptWatcher) Read(p []byte) (int, error) {
	n, err := w.r.Read(p)
	if slices.Contains(p[:n], keyCtrlC) {
		w.hit.Store(true)
	}
	return n, err
}

// TerminalReader edits lines on an interactive terminal with recall and
// Tab completion of command names. The terminal is in raw mode only while
// a line is being read, so command output can use the plain writer.
type TerminalReader struct {
	fd    int
	in    *interruptWatcher
	term  *term.Terminal
	names func(prefix string) []string
}

// NewTerminalReader returns a reader over the terminal in. reg supplies the
// completion candidates; hist, when non-nil, backs line recall.
func NewTerminalReader(in *os.File, out io.Writer, reg *commands.Registry, hist *History) *TerminalReader {
	w := &interruptWatcher{r: in}
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{w, out}, "")
	if hist != nil {
		t.History = hist
	}
	r := &TerminalReader{fd: int(in.Fd()), in: w, term: t, names: reg.Complete}
	t.AutoCompleteCallback = r.complete
	return r
}

// ReadLine implements LineReader.
func (r *TerminalReader) ReadLine(prompt string) (string, error) {
	if term.IsTerminal(r.fd) {
		state, err := term.MakeRaw(r.fd)
		if err != nil {
			return "", fmt.Errorf("shell: raw mode: %w", err)
		}
		defer term.Restore(r.fd, state) //nolint:errcheck

		if w, h, err := term.GetSize(r.fd); err == nil {
			_ = r.term.SetSize(w, h)
		}
	}
	r.in.hit.Store(false)
	r.term.SetPrompt(prompt)
	line, err := r.term.ReadLine()
	switch {
	case errors.Is(err, term.ErrPasteIndicator):
		err = nil
	case errors.Is(err, io.EOF) && r.in.hit.Load():
		err = ErrInterrupted
	}
	return line, err
}

// ReadAnswer reads the reply to a question. Unlike ReadLine the reply is
// not kept for recall.
func (r *TerminalReader) ReadAnswer(prompt string) (string, error) {
	saved := r.term.History
	r.term.History = LoadHistory("", 1)
	defer func() { r.term.History = saved }()
	return r.ReadLine(prompt)
}

// complete handles Tab on the command word: a unique match is completed
// with a trailing space, several matches are extended to their common
// prefix or listed.
func (r *TerminalReader) complete(line string, pos int, key rune) (string, int, bool) {
	if key != '\t' {
		return "", 0, false
	}
	word := line[:pos]
	if strings.ContainsAny(word, " \t") {
		return "", 0, false
	}
	matches := r.names(word)
	newWord, list := completion(word, matches)
	if list {
		fmt.Fprintln(r.term, strings.Join(matches, "  "))
	}
	if newWord == word {
		return line, pos, true
	}
	rest := line[pos:]
	if strings.HasPrefix(rest, " ") {
		newWord = strings.TrimSuffix(newWord, " ")
	}
	return newWord + rest, len(newWord), true
}

// completion returns the replacement for word given the matching names and
// whether the candidates should be listed.
func completion(word string, matches []string) (string, bool) {
	switch len(matches) {
	case 0:
		return word, false
	case 1:
		return matches[0] + " ", false
	}
	common := matches[0]
	for _, m := range matches[1:] {
		for !strings.HasPrefix(m, common) {
			common = common[:len(common)-1]
		}
	}
	if len(common) > len(word) {
		return common, false
	}
	return word, true
}
