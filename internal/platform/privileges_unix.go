//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

func systemCredentials() credentials {
	return credentials{
		geteuid:    unix.Geteuid,
		setgroups:  unix.Setgroups,
		setgid:     unix.Setgid,
		setuid:     unix.Setuid,
		getenv:     os.Getenv,
		setenv:     os.Setenv,
		lookupHome: lookupHome,
	}
}
