// Package paths provides sudo-aware path resolution for tastekeeper.
//
// Tautulli commonly runs its notification scripts through sudo or a service
// account; these helpers resolve paths against the invoking user's home
// (via SUDO_USER) instead of root's.
package paths

import (
	"os"
	"os/user"
	"path/filepath"
)

// UserHomeDir returns the home directory of the actual user.
// If running with sudo, returns the SUDO_USER's home directory, not root's.
func UserHomeDir() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		u, err := user.Lookup(sudoUser)
		if err == nil {
			return u.HomeDir, nil
		}
		// Fall through if lookup fails
	}

	return os.UserHomeDir()
}

// BaseDir returns the tastekeeper config directory,
// ~/.config/tastekeeper for the actual user.
func BaseDir() (string, error) {
	home, err := UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tastekeeper"), nil
}

// ConfigPath returns the path to the config file,
// ~/.config/tastekeeper/config.yaml for the actual user.
func ConfigPath() (string, error) {
	dir, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DataDir returns the directory holding collection state files and locks,
// ~/.config/tastekeeper/data for the actual user.
func DataDir() (string, error) {
	dir, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

// LogsDir returns the directory for log files,
// ~/.config/tastekeeper/logs for the actual user.
func LogsDir() (string, error) {
	dir, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}
