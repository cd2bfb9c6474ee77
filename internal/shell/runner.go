// Package shell executes command lines on the host in the platform's dialect
// and interprets the result as an outcome.Outcome.
package shell

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"git-setup/internal/logger"
	"git-setup/internal/outcome"
	"git-setup/internal/platform"
)

// Options tunes a single Run.
type Options struct {
	// RequireElevation runs the command with administrator privileges.
	RequireElevation bool
	// RequiredExecutable must be on PATH before the command is attempted.
	RequiredExecutable string
	// SkipPackageManagerPrecheck disables the check that the platform package
	// manager is on PATH.
	SkipPackageManagerPrecheck bool
}

// OptionsFor converts a platform command into run options.
func OptionsFor(cmd platform.Command) Options {
	return Options{
		RequireElevation:   cmd.Elevated,
		RequiredExecutable: cmd.RequiredExecutable,
	}
}

// Runner runs a command line and reports how it went. Implementations never
// return errors: every failure is described by the Outcome.
type Runner interface {
	Run(ctx context.Context, command string, opts Options) outcome.Outcome
}

// ExecRunner is the Runner backed by os/exec.
type ExecRunner struct {
	capability  platform.Capability
	lookPath    func(string) (string, error)
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// Option customizes an ExecRunner.
type Option func(*ExecRunner)

// WithLookPath replaces the PATH lookup used for executable prechecks.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(r *ExecRunner) {
		r.lookPath = fn
	}
}

// NewExecRunner builds a Runner speaking the shell dialect of capability.
func NewExecRunner(capability platform.Capability, opts ...Option) *ExecRunner {
	r := &ExecRunner{
		capability:  capability,
		lookPath:    exec.LookPath,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes command. Stdout becomes the message on success; stderr, or the
// exec error when stderr is empty, becomes the error on failure.
func (r *ExecRunner) Run(ctx context.Context, command string, opts Options) outcome.Outcome {
	if pm := r.capability.PackageManager(); pm != "" && !opts.SkipPackageManagerPrecheck {
		if _, err := r.lookPath(pm); err != nil {
			logger.Debug("[DEBUG] Package manager %s not found on PATH\n", pm)
			return outcome.Failuref("%s is not installed", pm)
		}
	}
	if opts.RequiredExecutable != "" {
		if _, err := r.lookPath(opts.RequiredExecutable); err != nil {
			logger.Debug("[DEBUG] Required executable %s not found on PATH\n", opts.RequiredExecutable)
			return outcome.Failuref("%s is not installed", opts.RequiredExecutable)
		}
	}

	line := command
	if opts.RequireElevation {
		line = r.capability.Elevate(command)
	}

	name, args := r.capability.Shell(line)
	cmd := r.execCommand(ctx, name, args...) //#nosec G204 -- command lines are built from quoted values
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("[DEBUG] Running command: %s\n", line)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return outcome.Failure(ctx.Err().Error())
		}
		errText := strings.TrimSpace(stderr.String())
		if errText == "" {
			errText = err.Error()
		}
		logger.Debug("[DEBUG] Command failed: %s\n", errText)
		return outcome.Failure(errText)
	}

	return outcome.Success(strings.TrimSpace(stdout.String()))
}
