// Package shared holds the context passed to all CLI commands.
package shared

import (
	"context"
	"fmt"

	"github.com/go-ports/kontacto/internal/config"
	"github.com/go-ports/kontacto/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// Home overrides the data directory.
	// When empty, resolution falls through to KONTACTO_HOME env var → persisted config → ~/.kontacto.
	Home string
	// Verbose lowers the log level to debug.
	Verbose bool
	// NoColor disables coloured output in the shell.
	NoColor bool
}

// ResolveHome returns the data directory and where it came from.
func (c *Context) ResolveHome() (path, source string) {
	return config.ResolveHome(c.Home)
}

// OpenService loads the collections of the resolved data directory.
func (c *Context) OpenService(ctx context.Context) (*service.Service, error) {
	home, _ := c.ResolveHome()
	svc, err := service.New(ctx, home)
	if err != nil {
		return nil, fmt.Errorf("open data directory %s: %w", home, err)
	}
	return svc, nil
}

// CloseService flushes svc after the command ran, even when ctx was
// cancelled. A flush failure replaces a nil err.
func CloseService(ctx context.Context, svc *service.Service, err *error) {
	if cerr := svc.Close(context.WithoutCancel(ctx)); cerr != nil && *err == nil {
		*err = fmt.Errorf("save changes: %w", cerr)
	}
}
