package platform

import "runtime"

// IsWindows returns true if the current OS is Windows.
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// WrapCommand returns the program and argument list used to spawn name with
// args. On Windows the command is routed through "cmd /c" so that .cmd and
// .bat shims (node, npm) resolve the way they do in an interactive shell.
// Elsewhere the command is returned unchanged.
func WrapCommand(name string, args []string) (string, []string) {
	return wrapCommand(runtime.GOOS, name, args)
}

func wrapCommand(goos, name string, args []string) (string, []string) {
	if goos != "windows" {
		out := make([]string, len(args))
		copy(out, args)
		return name, out
	}
	wrapped := make([]string, 0, len(args)+2)
	wrapped = append(wrapped, "/c", name)
	wrapped = append(wrapped, args...)
	return "cmd", wrapped
}
