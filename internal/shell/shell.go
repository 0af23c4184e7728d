// Package shell runs the interactive read, resolve and execute loop over a
// service's collections.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-ports/kontacto/internal/commands"
	"github.com/go-ports/kontacto/internal/render"
	"github.com/go-ports/kontacto/internal/service"
)

// Shell is one interactive session. It is not safe for concurrent use.
type Shell struct {
	svc     *service.Service
	sess    *commands.Session
	reader  LineReader
	out     io.Writer
	history *History
	prompt  string
}

// New returns a shell reading from reader and writing to out. Entered
// command lines are appended to hist, which may be nil.
func New(svc *service.Service, reader LineReader, out io.Writer, hist *History) *Shell {
	if hist == nil {
		hist = LoadHistory("", 0)
	}
	sh := &Shell{
		svc:     svc,
		reader:  reader,
		out:     out,
		history: hist,
		prompt:  svc.Config.Shell.Prompt,
	}
	sh.sess = svc.Session(out, sh.confirm)
	return sh
}

// Run loops until exit, end of input or ctx is cancelled. Command errors
// are printed and never end the loop. Dirty collections are saved after
// every command; the caller still owns the final flush.
func (sh *Shell) Run(ctx context.Context) error {
	sh.println(render.Header("Welcome to Kontacto!"))
	sh.println(render.Info("Type 'help' to see available commands. Tab completes command names."))

	for ctx.Err() == nil {
		line, err := sh.reader.ReadLine(sh.prompt)
		switch {
		case errors.Is(err, ErrInterrupted):
			sh.println(render.Warning("Use 'exit' command to quit."))
			continue
		case errors.Is(err, io.EOF):
			sh.println(render.Info("Goodbye!"))
			return nil
		case err != nil:
			return fmt.Errorf("shell: read input: %w", err)
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := sh.history.Append(line); err != nil {
			slog.Warn("cannot write history", "err", err)
		}
		if sh.step(ctx, line) {
			return nil
		}
	}
	return nil
}

// step runs one command line and reports whether the session should end.
func (sh *Shell) step(ctx context.Context, line string) (exit bool) {
	res, err := sh.sess.Resolve(line)
	if notice := commands.FuzzyNotice(res); notice != "" {
		sh.println(render.Info(notice))
	}
	if err == nil && res != nil {
		err = sh.sess.Execute(res)
	}
	if errors.Is(err, commands.ErrExit) {
		exit, err = true, nil
	}
	if err != nil {
		sh.println(render.Error(err))
		var unknown *commands.UnknownCommandError
		if errors.As(err, &unknown) && len(unknown.Suggestions) == 0 {
			sh.println(render.Info("Type 'help' to see available commands."))
		}
	}

	if err := sh.svc.SaveDirty(ctx); err != nil {
		sh.println(render.Error(err))
	}
	return exit
}

// confirm asks a yes/no question through the line reader. Anything but
// "y" or "yes" declines, including end of input. The answer is kept out of
// line recall.
func (sh *Shell) confirm(question string) (bool, error) {
	read := sh.reader.ReadLine
	if ar, ok := sh.reader.(answerReader); ok {
		read = ar.ReadAnswer
	}
	answer, err := read(render.Warning(question) + " [y/N] ")
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, ErrInterrupted):
		return false, nil
	case err != nil:
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (sh *Shell) println(msg string) {
	fmt.Fprintln(sh.out, msg)
}
