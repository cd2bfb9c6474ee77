// Package sshkey resolves the user's SSH key directory and generates a key
// pair when none exists.
package sshkey

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"

	"git-setup/internal/gitconfig"
	"git-setup/internal/logger"
	"git-setup/internal/outcome"
	"git-setup/internal/platform"
	"git-setup/internal/shell"
)

// AlreadyHadKeys is the message of the Outcome returned when Generate finds an
// existing key. Callers compare against it to avoid announcing a no-op.
const AlreadyHadKeys = "Already had SSH Keys"

// Options selects the key file convention.
type Options struct {
	KeyName string
	KeyType string
}

// Manager owns the key directory resolution for the process.
type Manager struct {
	capability platform.Capability
	runner     shell.Runner
	fs         afero.Fs
	getenv     func(string) string
	opts       Options

	dirOnce sync.Once
	dir     string
	dirErr  error
}

// NewManager builds a Manager. getenv supplies the environment used to locate
// the home directory.
func NewManager(capability platform.Capability, runner shell.Runner, fs afero.Fs, getenv func(string) string, opts Options) *Manager {
	return &Manager{
		capability: capability,
		runner:     runner,
		fs:         fs,
		getenv:     getenv,
		opts:       opts,
	}
}

// KeyDirectory returns the SSH key directory, resolving it on first use. On a
// platform without a known convention it fails with platform.ErrUnsupported.
func (m *Manager) KeyDirectory() (string, error) {
	m.dirOnce.Do(func() {
		m.dir, m.dirErr = m.capability.KeyDirectory(m.getenv)
		if m.dirErr == nil {
			logger.Debug("[DEBUG] SSH key directory: %s\n", m.dir)
		}
	})
	return m.dir, m.dirErr
}

// PrivateKeyPath returns the path of the private key file.
func (m *Manager) PrivateKeyPath() (string, error) {
	dir, err := m.KeyDirectory()
	if err != nil {
		return "", err
	}
	return m.capability.Join(dir, m.opts.KeyName), nil
}

// HasKeys reports whether the private key file exists. Any error while
// checking counts as "no key".
func (m *Manager) HasKeys() (bool, error) {
	keyPath, err := m.PrivateKeyPath()
	if err != nil {
		return false, err
	}
	exists, statErr := afero.Exists(m.fs, keyPath)
	if statErr != nil {
		logger.Debug("[DEBUG] Could not stat %s: %v\n", keyPath, statErr)
		return false, nil
	}
	return exists, nil
}

// Generate creates a key pair commented with id.Email unless one exists. The
// returned error is reserved for an unsupported platform; command failures are
// reported through the Outcome.
func (m *Manager) Generate(ctx context.Context, id gitconfig.Identity) (outcome.Outcome, error) {
	hasKeys, err := m.HasKeys()
	if err != nil {
		return outcome.Outcome{}, err
	}
	if hasKeys {
		return outcome.Success(AlreadyHadKeys), nil
	}

	dir, _ := m.KeyDirectory()
	if m.capability.CreatesKeyDirectory() {
		if exists, _ := afero.DirExists(m.fs, dir); !exists {
			logger.Info("[INFO] Creating %s\n", dir)
			if err := m.fs.MkdirAll(dir, 0o700); err != nil {
				return outcome.Failuref("Could not create %s: %v", dir, err), nil
			}
		}
	}

	keyPath, _ := m.PrivateKeyPath()
	if id.Email == "" {
		logger.Warn("[WARN] user.email is empty, the key will have no comment\n")
	}
	cmd := m.capability.KeygenCommand(m.opts.KeyType, keyPath, id.Email)
	opts := shell.OptionsFor(cmd)
	opts.SkipPackageManagerPrecheck = true

	result := m.runner.Run(ctx, cmd.Line, opts)
	if !result.Succeeded {
		return outcome.Failuref("Command failed: '%s'.\n%s", cmd.Line, result.Error), nil
	}
	return outcome.Successf("SSH Key Pairs generated in %s", dir), nil
}

// PublicKey is the parsed public half of the key pair.
type PublicKey struct {
	Path        string
	Text        string
	Fingerprint string
	Comment     string
}

// PublicKey reads and validates the public key file.
func (m *Manager) PublicKey() (PublicKey, error) {
	keyPath, err := m.PrivateKeyPath()
	if err != nil {
		return PublicKey{}, err
	}
	pubPath := keyPath + ".pub"

	data, err := afero.ReadFile(m.fs, pubPath)
	if err != nil {
		return PublicKey{}, fmt.Errorf("failed to read %s: %w", pubPath, err)
	}
	key, comment, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%s is not a valid public key: %w", pubPath, err)
	}

	return PublicKey{
		Path:        pubPath,
		Text:        strings.TrimSpace(string(data)),
		Fingerprint: ssh.FingerprintSHA256(key),
		Comment:     comment,
	}, nil
}
