package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hatch-cli/hatch/internal/branding"
	"github.com/hatch-cli/hatch/internal/platform"
)

// Runtime runs a resolved entry file.
type Runtime interface {
	// Name identifies the runtime in logs.
	Name() string
	// Run starts the entry and waits for it. The returned code is the
	// child's exit status; err is set only when the child could not be
	// started or waited on.
	Run(ctx context.Context, req Request) (int, error)
}

// Request is one execution of an entry file.
type Request struct {
	Entry   string
	Payload string   // JSON context handed to the entry, also exported as ContextEnv
	Env     []string // child environment; nil inherits the parent's
	Dir     string   // working directory; empty means the current one

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Supported runtime identifiers.
const (
	RuntimeNode   = "node"
	RuntimeNative = "native"
)

var nodeExtensions = map[string]bool{
	".js":  true,
	".cjs": true,
	".mjs": true,
}

// DispatchRuntime returns the runtime for an entry file based on its
// extension.
func DispatchRuntime(entry string) Runtime {
	if nodeExtensions[strings.ToLower(filepath.Ext(entry))] {
		return &NodeRuntime{}
	}
	return &NativeRuntime{}
}

// ContextEnv names the environment variable holding the JSON context in
// every child process.
func ContextEnv() string {
	return branding.EnvVar("CONTEXT")
}

// payloadArgs returns the payload as a trailing argument. On Windows the
// child is spawned through cmd.exe, which re-parses its command line and
// would run any & | > ^ found in user input, so there the payload is only
// passed through ContextEnv.
func payloadArgs(windows bool, payload string) []string {
	if windows {
		return nil
	}
	return []string{payload}
}

// childEnv returns the environment for req with ContextEnv set.
func childEnv(req Request) []string {
	env := slices.Clone(req.Env)
	if env == nil {
		env = os.Environ()
	}
	return SetEnv(env, ContextEnv(), req.Payload)
}

// execute spawns name with args, wrapping it for the platform shell where
// needed, and mirrors the child's exit status.
func execute(ctx context.Context, req Request, name string, args []string) (int, error) {
	bin, argv := platform.WrapCommand(name, args)
	cmd := exec.CommandContext(ctx, bin, argv...)
	cmd.Dir = req.Dir
	cmd.Env = childEnv(req)
	cmd.Stdin = orDefault(req.Stdin, os.Stdin)
	cmd.Stdout = orDefaultWriter(req.Stdout, os.Stdout)
	cmd.Stderr = orDefaultWriter(req.Stderr, os.Stderr)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal.
			code = 1
		}
		return code, nil
	}
	return 1, fmt.Errorf("starting %s: %w", name, err)
}

func orDefault(r, def io.Reader) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orDefaultWriter(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}

// SetEnv sets or replaces an environment variable in the env slice.
func SetEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
