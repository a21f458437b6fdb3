package runtime

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"
)

func TestDispatchRuntime(t *testing.T) {
	tests := []struct {
		entry string
		want  string
	}{
		{"/pkg/lib/index.js", RuntimeNode},
		{"/pkg/lib/index.cjs", RuntimeNode},
		{"/pkg/lib/index.mjs", RuntimeNode},
		{"/pkg/lib/INDEX.JS", RuntimeNode},
		{"/pkg/bin/tool", RuntimeNative},
		{"/pkg/bin/tool.sh", RuntimeNative},
		{`C:\pkg\bin\tool.exe`, RuntimeNative},
	}
	for _, tt := range tests {
		if got := DispatchRuntime(tt.entry).Name(); got != tt.want {
			t.Errorf("DispatchRuntime(%q) = %s, want %s", tt.entry, got, tt.want)
		}
	}
}

func TestNodeArgsKeepsPayloadOutOfCode(t *testing.T) {
	payload := `["x'); process.exit(9); ('", {"name":"init"}]`
	args := nodeArgs(false, "/tmp/entry.js", payload)
	if len(args) != 4 || args[0] != "-e" {
		t.Fatalf("nodeArgs() = %q", args)
	}
	if strings.Contains(args[1], "entry.js") || strings.Contains(args[1], "process.exit(9)") {
		t.Error("loader code contains caller data")
	}
	if args[2] != "/tmp/entry.js" || args[3] != payload {
		t.Errorf("nodeArgs() trailing args = %q", args[2:])
	}
}

func TestNodeLoaderSurvivesCmd(t *testing.T) {
	if strings.ContainsAny(nodeLoader, "\"\r\n") {
		t.Errorf("loader contains a double quote or line break: %q", nodeLoader)
	}
	if !strings.Contains(nodeLoader, "process.env['HATCH_CONTEXT']") {
		t.Errorf("loader does not fall back to HATCH_CONTEXT: %q", nodeLoader)
	}
}

func TestWindowsCommandLineOmitsPayload(t *testing.T) {
	payload := `["x & calc",{"name":"init"}]`
	tests := []struct {
		name string
		args []string
	}{
		{"node", nodeArgs(true, `C:\pkg\index.js`, payload)},
		{"native", payloadArgs(true, payload)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, a := range tt.args {
				if strings.Contains(a, "calc") {
					t.Errorf("args carry the payload: %q", tt.args)
				}
			}
		})
	}
	if got := payloadArgs(false, payload); len(got) != 1 || got[0] != payload {
		t.Errorf("payloadArgs(false) = %q", got)
	}
}

func TestChildEnvCarriesContext(t *testing.T) {
	base := []string{"A=1", "HATCH_CONTEXT=stale"}
	env := childEnv(Request{Payload: `["demo"]`, Env: base})
	want := []string{"A=1", `HATCH_CONTEXT=["demo"]`}
	if strings.Join(env, ",") != strings.Join(want, ",") {
		t.Errorf("childEnv() = %v, want %v", env, want)
	}
	if base[1] != "HATCH_CONTEXT=stale" {
		t.Error("childEnv() modified the request environment")
	}
}

func TestSetEnv(t *testing.T) {
	env := []string{"A=1", "B=2"}
	env = SetEnv(env, "B", "3")
	env = SetEnv(env, "C", "4")
	want := []string{"A=1", "B=3", "C=4"}
	if strings.Join(env, ",") != strings.Join(want, ",") {
		t.Errorf("SetEnv() = %v, want %v", env, want)
	}
}

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	if goruntime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on Windows")
	}
	path := filepath.Join(dir, "entry")
	// Written without exec bits; the runtime adds them.
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNativeRuntime_ExitCodeAndPayload(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	entry := writeScript(t, dir, `printf '%s' "$1" > "`+out+`"
printf '%s' "$HATCH_TEST_VAR"
exit 7
`)

	var stdout bytes.Buffer
	code, err := NativeRuntime{}.Run(context.Background(), Request{
		Entry:   entry,
		Payload: `["demo",{"name":"init"}]`,
		Env:     append(os.Environ(), "HATCH_TEST_VAR=hello"),
		Stdout:  &stdout,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if code != 7 {
		t.Errorf("exit code = %d, want 7", code)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `["demo",{"name":"init"}]` {
		t.Errorf("payload = %q", got)
	}
	if stdout.String() != "hello" {
		t.Errorf("stdout = %q, want hello", stdout.String())
	}
}

func TestNativeRuntime_Success(t *testing.T) {
	dir := t.TempDir()
	entry := writeScript(t, dir, "pwd\n")

	var stdout bytes.Buffer
	code, err := NativeRuntime{}.Run(context.Background(), Request{
		Entry:  entry,
		Dir:    dir,
		Stdout: &stdout,
	})
	if err != nil || code != 0 {
		t.Fatalf("Run() = %d, %v", code, err)
	}
	gotDir, _ := filepath.EvalSymlinks(strings.TrimSpace(stdout.String()))
	wantDir, _ := filepath.EvalSymlinks(dir)
	if gotDir != wantDir {
		t.Errorf("working dir = %q, want %q", gotDir, wantDir)
	}
}

func TestNativeRuntime_MissingEntry(t *testing.T) {
	_, err := NativeRuntime{}.Run(context.Background(), Request{Entry: filepath.Join(t.TempDir(), "missing")})
	if err == nil {
		t.Fatal("expected error for missing entry")
	}
}

func TestNodeRuntime_MissingEntryPoint(t *testing.T) {
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("Node.js not available, skipping")
	}
	_, err := (&NodeRuntime{}).Run(context.Background(), Request{Entry: filepath.Join(t.TempDir(), "index.js")})
	if err == nil {
		t.Fatal("expected error for missing entry point, got nil")
	}
}

func TestNodeRuntime_MissingNode(t *testing.T) {
	if goruntime.GOOS == "windows" {
		t.Skip("cmd /c reports a missing binary as an exit status")
	}
	rt := &NodeRuntime{NodeBin: filepath.Join(t.TempDir(), "no-such-node")}
	entry := filepath.Join(t.TempDir(), "index.js")
	if err := os.WriteFile(entry, []byte("module.exports = () => {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := rt.Run(context.Background(), Request{Entry: entry}); err == nil {
		t.Fatal("expected start failure")
	}
}

func TestNodeRuntime_CallsHandler(t *testing.T) {
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("Node.js not available, skipping")
	}

	dir := t.TempDir()
	entry := filepath.Join(dir, "index.js")
	script := `module.exports = function (argv) {
  const opts = argv[argv.length - 1];
  process.stdout.write(argv[0] + ':' + opts.name + ':' + opts.force);
  process.exitCode = 3;
};
`
	if err := os.WriteFile(entry, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	code, err := (&NodeRuntime{}).Run(context.Background(), Request{
		Entry:   entry,
		Payload: `["demo",{"name":"init","force":true}]`,
		Stdout:  &stdout,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if stdout.String() != "demo:init:true" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestNodeLoaderReadsContextEnv(t *testing.T) {
	nodeBin, err := exec.LookPath("node")
	if err != nil {
		t.Skip("Node.js not available, skipping")
	}

	entry := filepath.Join(t.TempDir(), "index.js")
	script := "module.exports = (argv) => { process.stdout.write(argv[0]); };\n"
	if err := os.WriteFile(entry, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	req := Request{Entry: entry, Payload: `["x & calc",{"name":"init"}]`, Stdout: &stdout}
	code, err := execute(context.Background(), req, nodeBin, nodeArgs(true, entry, req.Payload))
	if err != nil || code != 0 {
		t.Fatalf("execute() = %d, %v", code, err)
	}
	if stdout.String() != "x & calc" {
		t.Errorf("stdout = %q, want the first positional from %s", stdout.String(), ContextEnv())
	}
}
