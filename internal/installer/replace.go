package installer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ReplaceDir moves newDir into place at currentDir. If currentDir already
// exists it is first renamed to a backup; on failure the backup is restored.
// The backup is removed once the swap succeeds.
func ReplaceDir(newDir, currentDir string) error {
	backupDir := currentDir + ".backup"

	hadCurrent := false
	if _, err := os.Lstat(currentDir); err == nil {
		hadCurrent = true
		os.RemoveAll(backupDir)
		if err := os.Rename(currentDir, backupDir); err != nil {
			return fmt.Errorf("creating backup: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", currentDir, err)
	}

	if err := os.Rename(newDir, currentDir); err != nil {
		if hadCurrent {
			if rbErr := RollbackDir(backupDir, currentDir); rbErr != nil {
				return fmt.Errorf("moving into place: %w (%v)", err, rbErr)
			}
		}
		return fmt.Errorf("moving into place: %w", err)
	}

	if hadCurrent {
		os.RemoveAll(backupDir)
	}
	return nil
}

// RollbackDir restores the backup to the current path.
func RollbackDir(backupDir, currentDir string) error {
	os.RemoveAll(currentDir)
	if err := os.Rename(backupDir, currentDir); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}
