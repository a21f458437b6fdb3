package platform

import (
	"fmt"
	"os/user"
	"strconv"
)

// credentials are the process identity calls DropRoot needs. A nil setuid
// means the platform cannot change identity.
type credentials struct {
	geteuid    func() int
	setgroups  func([]int) error
	setgid     func(int) error
	setuid     func(int) error
	getenv     func(string) string
	setenv     func(string, string) error
	lookupHome func(uid string) (string, error)
}

// DropRoot switches a process started through sudo back to the user that
// invoked it and points HOME at that user's home directory, so the cache
// and config written afterwards stay owned by them. It reports whether
// privileges were dropped. Outside sudo, and on platforms without setuid,
// it does nothing.
func DropRoot() (bool, error) {
	return dropRoot(systemCredentials())
}

func dropRoot(c credentials) (bool, error) {
	if c.setuid == nil || c.geteuid() != 0 {
		return false, nil
	}
	uidStr, gidStr := c.getenv("SUDO_UID"), c.getenv("SUDO_GID")
	if uidStr == "" || gidStr == "" {
		return false, nil
	}
	uid, err := strconv.Atoi(uidStr)
	if err != nil {
		return false, fmt.Errorf("parsing SUDO_UID %q: %w", uidStr, err)
	}
	gid, err := strconv.Atoi(gidStr)
	if err != nil {
		return false, fmt.Errorf("parsing SUDO_GID %q: %w", gidStr, err)
	}
	if uid == 0 {
		return false, nil
	}

	if home, err := c.lookupHome(uidStr); err == nil && home != "" {
		if err := c.setenv("HOME", home); err != nil {
			return false, fmt.Errorf("setting HOME: %w", err)
		}
	}
	// Groups first: once the uid changes the process may no longer set them.
	if err := c.setgroups([]int{gid}); err != nil {
		return false, fmt.Errorf("dropping supplementary groups: %w", err)
	}
	if err := c.setgid(gid); err != nil {
		return false, fmt.Errorf("setting gid %d: %w", gid, err)
	}
	if err := c.setuid(uid); err != nil {
		return false, fmt.Errorf("setting uid %d: %w", uid, err)
	}
	return true, nil
}

func lookupHome(uid string) (string, error) {
	u, err := user.LookupId(uid)
	if err != nil {
		return "", err
	}
	return u.HomeDir, nil
}
