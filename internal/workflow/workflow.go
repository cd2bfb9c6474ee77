// Package workflow sequences install, configure, key copy and presence check
// for the command line.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"git-setup/internal/installer"
	"git-setup/internal/logger"
	"git-setup/internal/notify"
	"git-setup/internal/outcome"
	"git-setup/internal/progress"
	"git-setup/internal/sshkey"
)

// ErrInstallFailed aborts the install workflow before configuration.
var ErrInstallFailed = errors.New("git installation failed")

// Progress weights of the workflow's own milestones. The installer reports
// the remaining 65.
const (
	startWeight     = 5
	configureWeight = 20
	doneWeight      = 10
)

// State of one workflow invocation.
type State int

const (
	Start State = iota
	CheckPresence
	AlreadyInstalled
	Installing
	Configuring
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Start:
		return "Start"
	case CheckPresence:
		return "CheckPresence"
	case AlreadyInstalled:
		return "AlreadyInstalled"
	case Installing:
		return "Installing"
	case Configuring:
		return "Configuring"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Run records the states an Install invocation went through.
type Run struct {
	States  []State
	Outcome outcome.Outcome
}

func (r *Run) visit(s State) {
	logger.Debug("[DEBUG] workflow state: %s\n", s)
	r.States = append(r.States, s)
}

// Last returns the final state.
func (r Run) Last() State {
	if len(r.States) == 0 {
		return Start
	}
	return r.States[len(r.States)-1]
}

func (r Run) String() string {
	names := make([]string, len(r.States))
	for i, s := range r.States {
		names[i] = s.String()
	}
	return strings.Join(names, " -> ")
}

// Installer installs git and reports on it.
type Installer interface {
	IsInstalled(ctx context.Context) bool
	Install(ctx context.Context, sink progress.Sink) outcome.Outcome
	Version(ctx context.Context) (*semver.Version, error)
	MeetsMinimum(v *semver.Version) (bool, error)
}

// Configurator configures the git identity.
type Configurator interface {
	Configure(ctx context.Context, force bool) error
}

// KeySource provides the public key to copy.
type KeySource interface {
	PublicKey() (sshkey.PublicKey, error)
}

// Clipboard receives the public key.
type Clipboard interface {
	Write(text string) error
}

// Workflow is the entry point of every command.
type Workflow struct {
	installer    Installer
	configurator Configurator
	keys         KeySource
	clipboard    Clipboard
	notifier     notify.Notifier
}

// New builds a Workflow.
func New(inst Installer, configurator Configurator, keys KeySource, clipboard Clipboard, notifier notify.Notifier) *Workflow {
	return &Workflow{
		installer:    inst,
		configurator: configurator,
		keys:         keys,
		clipboard:    clipboard,
		notifier:     notifier,
	}
}

// Install installs git when missing, then configures it without forcing the
// prompts. With copyKey the public key is copied afterwards; a copy failure is
// only logged.
func (w *Workflow) Install(ctx context.Context, sink progress.Sink, copyKey bool) (Run, error) {
	var run Run
	run.visit(Start)
	sink.Report("Start...", startWeight)

	run.visit(CheckPresence)
	result := w.installer.Install(ctx, sink)
	run.Outcome = result
	if result.Succeeded && result.Message == installer.AlreadyInstalled {
		run.visit(AlreadyInstalled)
	} else {
		run.visit(Installing)
	}
	if !result.Succeeded {
		run.visit(Failed)
		w.notifier.Error(result.Error)
		return run, fmt.Errorf("%w: %s", ErrInstallFailed, result.Error)
	}

	sink.Report("Configure...", configureWeight)
	run.visit(Configuring)
	if err := w.configurator.Configure(ctx, false); err != nil {
		return run, err
	}

	sink.Report("Success", doneWeight)
	run.visit(Done)
	w.notifier.Info("Git installed and configured.")

	if copyKey {
		if err := w.CopyKey(ctx); err != nil {
			logger.Warn("[WARN] Could not copy the public key: %v\n", err)
		}
	}
	return run, nil
}

// Configure re-prompts for the identity even when it is already set.
func (w *Workflow) Configure(ctx context.Context) error {
	return w.configurator.Configure(ctx, true)
}

// CopyKey puts the public key on the clipboard. When the clipboard cannot be
// used the key is shown so it can be copied by hand.
func (w *Workflow) CopyKey(_ context.Context) error {
	key, err := w.keys.PublicKey()
	if err != nil {
		return err
	}
	logger.Info("[INFO] Public key %s (%s)\n", key.Path, key.Fingerprint)

	if err := w.clipboard.Write(key.Text); err != nil {
		logger.Debug("[DEBUG] clipboard: %v\n", err)
		w.notifier.Warn("Could not access the clipboard, copy your public key:\n" + key.Text)
		return nil
	}
	w.notifier.Info("Public Key on your Clipboard\n" + key.Text)
	return nil
}

// Report is the result of Check.
type Report struct {
	Installed bool
	Version   *semver.Version
	// OutOfDate is set when the version is below the configured minimum.
	OutOfDate bool
}

// Check reports whether git is installed and which version.
func (w *Workflow) Check(ctx context.Context) (Report, error) {
	if !w.installer.IsInstalled(ctx) {
		w.notifier.Warn("Git is not installed")
		return Report{}, nil
	}
	report := Report{Installed: true}

	v, err := w.installer.Version(ctx)
	if err != nil {
		logger.Warn("[WARN] %v\n", err)
		w.notifier.Info("Git is installed on your system")
		return report, nil
	}
	report.Version = v

	ok, err := w.installer.MeetsMinimum(v)
	if err != nil {
		return report, err
	}
	report.OutOfDate = !ok
	if report.OutOfDate {
		w.notifier.Warn(fmt.Sprintf("Git %s is installed but older than the required version", v))
		return report, nil
	}
	w.notifier.Info(fmt.Sprintf("Git is installed on your system (%s)", v))
	return report, nil
}
