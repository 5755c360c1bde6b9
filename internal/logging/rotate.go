package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// rotateFiles shifts numbered backups up by one (log.1 -> log.2, ...) and
// moves the current log to log.1. Backups past maxBackups are dropped.
func rotateFiles(basePath string, maxBackups int) error {
	ext := filepath.Ext(basePath)
	stem := strings.TrimSuffix(basePath, ext)

	backupPath := func(n int) string {
		return fmt.Sprintf("%s.%d%s", stem, n, ext)
	}

	os.Remove(backupPath(maxBackups))

	for n := maxBackups - 1; n >= 1; n-- {
		src := backupPath(n)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, backupPath(n+1)); err != nil {
			return fmt.Errorf("failed to rotate %s: %w", src, err)
		}
	}

	if _, err := os.Stat(basePath); err == nil {
		if err := os.Rename(basePath, backupPath(1)); err != nil {
			return fmt.Errorf("failed to rotate current log: %w", err)
		}
	}

	return nil
}
