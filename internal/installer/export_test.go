package installer

import "git-setup/internal/shell"

// SetEnv replaces the process environment so tests do not touch PATH.
func (g *GitInstaller) SetEnv(env shell.Env) {
	g.env = env
}

// SetEnv replaces the process environment so tests do not touch PATH.
func (r *ReleaseInstaller) SetEnv(env shell.Env) {
	r.env = env
}
