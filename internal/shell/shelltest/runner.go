// Package shelltest provides a scriptable shell.Runner for tests.
package shelltest

import (
	"context"
	"strings"
	"sync"

	"git-setup/internal/outcome"
	"git-setup/internal/shell"
)

// Call records one Run invocation.
type Call struct {
	Command string
	Options shell.Options
}

type rule struct {
	prefix string
	fn     func(command string) outcome.Outcome
}

// Runner answers commands by the first registered prefix that matches and
// fails any command nothing matches.
type Runner struct {
	mu       sync.Mutex
	rules    []rule
	calls    []Call
	lookPath func(string) bool
}

var _ shell.Runner = (*Runner)(nil)

// New returns an empty Runner.
func New() *Runner {
	return &Runner{}
}

// On answers commands starting with prefix with result.
func (r *Runner) On(prefix string, result outcome.Outcome) *Runner {
	return r.OnFunc(prefix, func(string) outcome.Outcome { return result })
}

// OnFunc answers commands starting with prefix by calling fn.
func (r *Runner) OnFunc(prefix string, fn func(command string) outcome.Outcome) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{prefix: prefix, fn: fn})
	return r
}

// WithLookPath makes Run fail like the real runner when the command's
// RequiredExecutable is not found by found.
func (r *Runner) WithLookPath(found func(executable string) bool) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookPath = found
	return r
}

// EmulateGitConfig answers "git config --global" reads and writes from values,
// which is updated in place. Written values are expected in POSIX quoting.
func (r *Runner) EmulateGitConfig(values map[string]string) *Runner {
	const prefix = "git config --global "
	return r.OnFunc(prefix, func(command string) outcome.Outcome {
		key, value, isWrite := strings.Cut(strings.TrimPrefix(command, prefix), " ")
		if isWrite {
			values[key] = Unquote(value)
			return outcome.Success("")
		}
		v, ok := values[key]
		if !ok || v == "" {
			return outcome.Failure("")
		}
		return outcome.Success(v)
	})
}

// Run implements shell.Runner.
func (r *Runner) Run(_ context.Context, command string, opts shell.Options) outcome.Outcome {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Command: command, Options: opts})
	rules := append([]rule(nil), r.rules...)
	lookPath := r.lookPath
	r.mu.Unlock()

	if lookPath != nil && opts.RequiredExecutable != "" && !lookPath(opts.RequiredExecutable) {
		return outcome.Failuref("%s is not installed", opts.RequiredExecutable)
	}

	for _, rl := range rules {
		if strings.HasPrefix(command, rl.prefix) {
			return rl.fn(command)
		}
	}
	return outcome.Failuref("unexpected command: %s", command)
}

// Calls returns every recorded invocation.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Commands returns the command lines run so far.
func (r *Runner) Commands() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Command
	}
	return out
}

// Count returns how many commands started with prefix.
func (r *Runner) Count(prefix string) int {
	n := 0
	for _, c := range r.Commands() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Unquote reverses POSIX single quoting.
func Unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `'\''`, "'")
}
