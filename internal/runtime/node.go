package runtime

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hatch-cli/hatch/internal/platform"
)

// nodeLoader is evaluated with `node -e`. It reads the entry path from argv
// and the JSON context from argv or, when absent, from ContextEnv; caller
// data is never spliced into it. It is a single line without double quotes
// so cmd.exe passes it through intact.
var nodeLoader = strings.Join([]string{
	"const entry = process.argv[1];",
	"const payload = process.argv.length > 2 ? process.argv[2] : process.env['" + ContextEnv() + "'];",
	"let mod = require(entry);",
	"if (mod && typeof mod !== 'function' && typeof mod.default === 'function') mod = mod.default;",
	"if (typeof mod !== 'function') { console.error('entry ' + entry + ' does not export a function'); process.exit(1); }",
	"Promise.resolve(mod.call(null, JSON.parse(payload))).catch((err) => { console.error(err && err.message ? err.message : err); process.exitCode = 1; });",
}, " ")

// NodeRuntime runs JavaScript entries with Node.js.
type NodeRuntime struct {
	// NodeBin overrides the node executable; empty looks it up on PATH.
	NodeBin string
}

func (n *NodeRuntime) Name() string { return RuntimeNode }

// Run invokes `node -e <loader> <entry> <payload>`, leaving the payload off
// the command line on Windows.
func (n *NodeRuntime) Run(ctx context.Context, req Request) (int, error) {
	nodeBin := n.NodeBin
	if nodeBin == "" {
		var err error
		nodeBin, err = exec.LookPath("node")
		if err != nil {
			return 1, fmt.Errorf("node runtime requires Node.js: %w", err)
		}
	}
	if _, err := os.Stat(req.Entry); err != nil {
		return 1, fmt.Errorf("entry point not found at %s: %w", req.Entry, err)
	}
	return execute(ctx, req, nodeBin, nodeArgs(platform.IsWindows(), req.Entry, req.Payload))
}

func nodeArgs(windows bool, entry, payload string) []string {
	return append([]string{"-e", nodeLoader, entry}, payloadArgs(windows, payload)...)
}
