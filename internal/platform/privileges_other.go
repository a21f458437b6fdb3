//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd)

package platform

func systemCredentials() credentials { return credentials{} }
