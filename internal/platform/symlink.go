package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"
)

// sidecarSuffix marks the fallback file recording a link target on Windows.
const sidecarSuffix = ".target"

// CreateSymlink creates a symbolic link from link pointing to target.
// On Unix systems, this uses os.Symlink directly.
// On Windows, it attempts os.Symlink first (requires developer mode),
// then falls back to writing a .target sidecar that ReadSymlinkTarget
// understands. Directory contents are never copied.
func CreateSymlink(target, link string) error {
	if runtime.GOOS != "windows" {
		return os.Symlink(target, link)
	}

	if err := os.Symlink(target, link); err == nil {
		return nil
	}

	if err := os.WriteFile(link+sidecarSuffix, []byte(target), 0644); err != nil {
		return fmt.Errorf("symlink fallback (sidecar) failed: %w", err)
	}
	return nil
}

// ReplaceSymlink points link at target, removing any previous link or
// sidecar first. A real directory or file at link is left alone and
// reported as an error.
func ReplaceSymlink(target, link string) error {
	info, err := os.Lstat(link)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink == 0:
		return fmt.Errorf("%s exists and is not a link", link)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return err
	}
	if err := RemoveSymlink(link); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return CreateSymlink(target, link)
}

// RemoveSymlink removes a symlink (or its fallback sidecar).
func RemoveSymlink(path string) error {
	err := os.Remove(path)

	sidecar := path + sidecarSuffix
	if sErr := os.Remove(sidecar); sErr == nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

// ReadSymlinkTarget returns the target of a symlink.
// On Windows, if os.Readlink fails (because the sidecar fallback was used),
// it reads from the .target sidecar file.
func ReadSymlinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err == nil {
		return target, nil
	}

	if runtime.GOOS != "windows" {
		return "", err
	}

	data, readErr := os.ReadFile(path + sidecarSuffix)
	if readErr != nil {
		return "", fmt.Errorf("readlink failed and no .target sidecar found: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
