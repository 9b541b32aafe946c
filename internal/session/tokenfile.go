package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	tokenFileName = "token"
	appDirName    = "eventhub"
)

// TokenFile stores the bearer token as a single line in
// ~/.local/state/eventhub/token (respecting XDG_STATE_HOME). It is the
// only durable client state.
type TokenFile struct {
	dir string
}

// NewTokenFile creates a store rooted at dir. Pass an empty string to use
// the default XDG state path.
func NewTokenFile(dir string) *TokenFile {
	if dir == "" {
		dir = defaultStateDir()
	}
	return &TokenFile{dir: dir}
}

// Path returns the full path to the token file.
func (f *TokenFile) Path() string {
	return filepath.Join(f.dir, tokenFileName)
}

// Load reads the persisted token. A missing file is not an error; it
// returns the empty string.
func (f *TokenFile) Load() (string, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token using an atomic temp-file-then-rename pattern.
// The directory is created if it does not already exist.
func (f *TokenFile) Save(token string) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, ".token-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.WriteString(token + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.Path()); err != nil {
		return fmt.Errorf("renaming token file: %w", err)
	}
	committed = true

	return nil
}

// Clear removes the token file. Removing an absent file is not an error.
func (f *TokenFile) Clear() error {
	if err := os.Remove(f.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token: %w", err)
	}
	return nil
}

// defaultStateDir returns ~/.local/state/eventhub, respecting
// XDG_STATE_HOME if set.
func defaultStateDir() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", appDirName)
}
