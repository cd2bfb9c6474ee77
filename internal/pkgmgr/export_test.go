package pkgmgr

import "git-setup/internal/shell"

// SetEnv replaces the process environment so tests do not touch PATH.
func (m *Manager) SetEnv(env shell.Env) {
	m.env = env
}
