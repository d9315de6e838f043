package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aura-dev/jiractl/internal/debug"
	"github.com/aura-dev/jiractl/internal/telemetry"
	"github.com/aura-dev/jiractl/internal/ui"
)

var (
	// Version is the current version of jiractl (overridden by ldflags at build time)
	Version = "0.3.0"
	// Build can be set via ldflags at compile time
	Build = "dev"
)

// VersionString is the line printed by --version.
func VersionString(tool string) string {
	return fmt.Sprintf("%s version %s (%s)", tool, Version, Build)
}

// Session is the per-invocation context of a command.
type Session struct {
	Ctx    context.Context
	cancel context.CancelFunc
}

// Start applies verbosity, configures color and telemetry, and returns a
// session whose context is cancelled on SIGINT or SIGTERM. Callers must
// defer Close.
func Start(tool string, verbose, quiet bool) *Session {
	debug.SetVerbose(verbose)
	debug.SetQuiet(quiet)
	ui.InitColor()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if err := telemetry.Init(ctx, tool, Version); err != nil {
		WarnError("telemetry disabled: %v", err)
	}
	return &Session{Ctx: ctx, cancel: cancel}
}

// Close flushes telemetry and releases the signal handler.
func (s *Session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	telemetry.Shutdown(ctx)
	s.cancel()
}
