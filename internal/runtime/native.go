package runtime

import (
	"context"
	"fmt"

	"github.com/hatch-cli/hatch/internal/platform"
)

// NativeRuntime executes an entry file directly. The JSON context is its
// only argument and is also exported in ContextEnv; on Windows the
// environment variable is the only copy.
type NativeRuntime struct{}

func (NativeRuntime) Name() string { return RuntimeNative }

func (NativeRuntime) Run(ctx context.Context, req Request) (int, error) {
	if err := platform.EnsureExecutable(req.Entry); err != nil {
		return 1, fmt.Errorf("preparing entry %s: %w", req.Entry, err)
	}
	return execute(ctx, req, req.Entry, payloadArgs(platform.IsWindows(), req.Payload))
}
