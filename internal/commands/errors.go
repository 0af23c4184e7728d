package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-ports/kontacto/internal/models"
)

var (
	// ErrInput is wrapped when a line names no known command.
	ErrInput = errors.New("input error")
	// ErrInvalidArguments is wrapped for wrong arity and bad flag or field values.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrAmbiguous is wrapped when a query names more than one record.
	ErrAmbiguous = errors.New("ambiguous")
	// ErrExit is returned by the exit command to end the session.
	ErrExit = errors.New("exit requested")
)

// UnknownCommandError reports a command word that could not be resolved.
type UnknownCommandError struct {
	Input       string
	Suggestions []string
}

func (e *UnknownCommandError) Error() string {
	msg := fmt.Sprintf("unknown command %q", e.Input)
	if len(e.Suggestions) > 0 {
		msg += "; did you mean: " + strings.Join(e.Suggestions, ", ") + "?"
	}
	return msg
}

// Unwrap returns ErrInput.
func (e *UnknownCommandError) Unwrap() error { return ErrInput }

func invalidArgs(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArguments, fmt.Sprintf(format, args...))
}

// asInvalid reports field validation failures as invalid arguments and
// passes every other error through unchanged.
func asInvalid(err error) error {
	if err != nil && errors.Is(err, models.ErrValidation) && !errors.Is(err, ErrInvalidArguments) {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	return err
}
