package commands

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// flagAliases maps the short option spellings to their canonical names.
var flagAliases = map[string]string{
	"addr": "address",
	"bday": "birthday",
	"bd":   "birthday",
}

// newFlagSet returns a silent flag set for the options of one command.
// Option names are case-insensitive and accept the aliases above.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetNormalizeFunc(normalizeFlag)
	return fs
}

func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	name = strings.ToLower(name)
	if canonical, ok := flagAliases[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}

// parseFlags parses args into fs, reporting failures as invalid arguments.
func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return invalidArgs("%s: %v", fs.Name(), err)
	}
	return nil
}

// parseYes accepts an optional --yes (or -y) confirmation override.
func parseYes(command string, args []string) (bool, error) {
	fs := newFlagSet(command)
	yes := fs.BoolP("yes", "y", false, "skip the confirmation prompt")
	if err := parseFlags(fs, args); err != nil {
		return false, err
	}
	if fs.NArg() > 0 {
		return false, invalidArgs("unexpected argument %q (only --yes is accepted)", fs.Arg(0))
	}
	return *yes, nil
}

// parseCount reads an optional positive count argument.
func parseCount(args []string, def, limit int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > limit {
		return 0, invalidArgs("count must be a number between 1 and %d, got %q", limit, args[0])
	}
	return n, nil
}
