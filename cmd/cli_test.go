package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/VoxDroid/sunprep/internal/config"
	"github.com/VoxDroid/sunprep/internal/devices"
	"github.com/VoxDroid/sunprep/internal/executor"
)

type offlineRunner struct{}

func (offlineRunner) Run(context.Context, string) ([]byte, error) {
	return nil, errors.New("helpers unavailable in tests")
}

// setupCLI isolates config and working directories and keeps helper
// programs from running. It returns the project root.
func setupCLI(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv(config.EnvHome, filepath.Join(root, ".sunprep"))
	t.Setenv(config.EnvRoot, root)
	for _, k := range []string{config.EnvCatalog, config.EnvListen, config.EnvToolsDir, config.EnvOutputDir, config.EnvLogLevel} {
		t.Setenv(k, "")
	}

	old := newRunner
	newRunner = func() executor.Runner { return offlineRunner{} }
	t.Cleanup(func() { newRunner = old })
	return root
}

func resetCommand(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	c.SetContext(nil) //nolint:staticcheck // re-inherit the context passed to ExecuteContext
	for _, sub := range c.Commands() {
		resetCommand(sub)
	}
}

func runCLI(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	resetCommand(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, context.Background(), args...)
}

func TestVersionCLI(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "sunprep v") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInvalidLogLevelCLI(t *testing.T) {
	setupCLI(t)
	if _, err := run(t, "version", "--log-level", "loud"); err == nil {
		t.Fatalf("expected error for invalid log level")
	}
}

func TestCatalogListCLI(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "catalog", "list", "--category", "Audio")
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 audio actions, got %d:\n%s", len(lines), out)
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "- ") || !strings.HasSuffix(l, "[Audio]") {
			t.Fatalf("unexpected line %q", l)
		}
	}

	out, err = run(t, "catalog", "list", "--filter", "qres")
	if err != nil {
		t.Fatalf("catalog list --filter: %v", err)
	}
	if !strings.Contains(out, "- Change Resolution (QRes) [Display]") {
		t.Fatalf("filter missed QRes:\n%s", out)
	}
}

func TestCatalogCategoriesAndShowCLI(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "catalog", "categories")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if !strings.HasPrefix(out, "All\n") {
		t.Fatalf("unexpected categories %q", out)
	}

	out, err = run(t, "catalog", "show", "sleep/wait")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Sleep/Wait\n", "Command: timeout /t {seconds} /nobreak\n", "Variables: seconds\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "catalog", "show", "Nope"); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestCatalogValidateCLI(t *testing.T) {
	root := setupCLI(t)
	out, err := run(t, "catalog", "validate")
	if err != nil {
		t.Fatalf("validate builtin: %v", err)
	}
	if out != "✓ built-in catalog is valid (35 actions)\n" {
		t.Fatalf("unexpected output %q", out)
	}

	bad := filepath.Join(root, "bad.yaml")
	doc := `apiVersion: sunprep/catalog/v1
actions:
  - name: Ping
    category: System
    command: ping {host}
    description: Ping a host
    variables: [host]
  - name: Ping
    category: System
    command: ping -n 1 {host}
    description: Ping once
    variables: [host]
`
	if err := os.WriteFile(bad, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err = run(t, "catalog", "validate", bad)
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	if !strings.Contains(out, "actions/1/name") {
		t.Fatalf("problem path missing:\n%s", out)
	}
}

func TestOptionsCLI(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "options", "volume")
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if !strings.HasPrefix(out, "0\t0% (Mute)\n") {
		t.Fatalf("unexpected options %q", out)
	}

	out, err = run(t, "options", "display_device_id")
	if err != nil {
		t.Fatalf("options display: %v", err)
	}
	if out != devices.FallbackDisplayID+"\tPrimary Display - Unknown\n" {
		t.Fatalf("unexpected display options %q", out)
	}

	out, err = run(t, "options", "nothing")
	if err != nil {
		t.Fatalf("options unknown: %v", err)
	}
	if !strings.HasPrefix(out, "no options") {
		t.Fatalf("unexpected %q", out)
	}

	out, err = run(t, "tokens")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if !strings.Contains(out, "${SUNSHINE_CLIENT_WIDTH}\t") {
		t.Fatalf("tokens missing width: %q", out)
	}
}

func TestToolsCLI(t *testing.T) {
	root := setupCLI(t)
	out, err := run(t, "tools")
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	if !strings.HasSuffix(out, "0 of 5 available\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	tools := filepath.Join(root, config.ToolsDirName)
	if err := os.MkdirAll(tools, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tools, devices.QRes), make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err = run(t, "tools")
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	if !strings.Contains(out, "2.0 kB") || !strings.HasSuffix(out, "1 of 5 available\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = run(t, "tools", "--json")
	if err != nil {
		t.Fatalf("tools --json: %v", err)
	}
	var rep devices.ToolsReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Summary.Available != 1 {
		t.Fatalf("unexpected summary %+v", rep.Summary)
	}
}

func TestConfigFileCLI(t *testing.T) {
	root := setupCLI(t)
	cfgPath := filepath.Join(root, "sunprep.yaml")
	if err := os.WriteFile(cfgPath, []byte("toolsDir: helpers\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, "tools", "--config", cfgPath)
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	if !strings.HasPrefix(out, "Tools in "+filepath.Join(root, "helpers")+"\n") {
		t.Fatalf("config toolsDir not applied:\n%s", out)
	}

	if _, err := run(t, "tools", "--config", filepath.Join(root, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

const couchProject = `{
  "name": "Couch",
  "beforeScripts": [
    {"actionName": "Sleep/Wait", "command": "timeout /t {seconds} /nobreak", "variables": {"seconds": "2"}}
  ],
  "afterScripts": [
    {"actionName": "Echo", "command": "echo {msg} > nul", "variables": {}}
  ],
  "variables": {"msg": {"value": "bye", "description": ""}}
}`

func writeProject(t *testing.T, dir, doc string) string {
	t.Helper()
	path := filepath.Join(dir, "couch.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write project: %v", err)
	}
	return path
}

func TestRenderStdoutCLI(t *testing.T) {
	root := setupCLI(t)
	path := writeProject(t, root, couchProject)

	out, err := run(t, "render", path, "--stdout")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"REM Before Script for Couch\n",
		"timeout /t 2 /nobreak\n",
		"REM After Script for Couch\n",
		"echo bye > nul\n",
		"echo After script completed.\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "render", path, "--stdout", "--json")
	if err != nil {
		t.Fatalf("render --json: %v", err)
	}
	var d struct {
		Name string `json:"name"`
		Prep struct {
			Do   string `json:"do"`
			Undo string `json:"undo"`
		} `json:"prep"`
	}
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("decode descriptor: %v", err)
	}
	if d.Name != "Couch" || d.Prep.Do != "timeout /t 2 /nobreak" || d.Prep.Undo != "echo bye > nul" {
		t.Fatalf("unexpected descriptor %+v", d)
	}
}

func TestRenderWritesFilesCLI(t *testing.T) {
	root := setupCLI(t)
	path := writeProject(t, root, couchProject)
	outDir := filepath.Join(root, "out")

	out, err := run(t, "render", path, "--out", outDir)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "- Couch_before.bat\n") || !strings.Contains(out, "- Couch_after.bat\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	for _, name := range []string{"Couch_before.bat", "Couch_after.bat"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	var copied string
	old := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	defer func() { copyToClipboard = old }()

	if _, err := run(t, "render", path, "--json", "--copy"); err != nil {
		t.Fatalf("render --json: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, config.OutputDirName, "Couch_sunshine_config.json"))
	if err != nil {
		t.Fatalf("read descriptor: %v", err)
	}
	if string(data) != copied+"\n" {
		t.Fatalf("clipboard and file differ:\n%s\n---\n%s", copied, data)
	}
}

func TestRenderEmptyProjectCLI(t *testing.T) {
	root := setupCLI(t)
	path := writeProject(t, root, `{"name":"Empty"}`)
	if _, err := run(t, "render", path); err == nil {
		t.Fatalf("expected error when there is nothing to export")
	}
	if _, err := run(t, "render", filepath.Join(root, "missing.json")); err == nil {
		t.Fatalf("expected error for missing project")
	}
}

func TestSchemaCLI(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "schema")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(out, "Sunshine prep configuration") {
		t.Fatalf("descriptor schema missing title:\n%s", out)
	}
	out, err = run(t, "schema", "catalog")
	if err != nil {
		t.Fatalf("schema catalog: %v", err)
	}
	if !strings.Contains(out, "sunprep action catalog v1") {
		t.Fatalf("catalog schema missing title:\n%s", out)
	}
	if _, err := run(t, "schema", "runbook"); err == nil {
		t.Fatalf("expected error for unknown schema")
	}
}

func TestServeStopsOnCancelCLI(t *testing.T) {
	root := setupCLI(t)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(300 * time.Millisecond)
		cancel()
	}()
	if _, err := runCLI(t, ctx, "serve", "--listen", "127.0.0.1:0"); err != nil {
		t.Fatalf("serve: %v", err)
	}
	for _, dir := range []string{config.ToolsDirName, config.OutputDirName} {
		if fi, err := os.Stat(filepath.Join(root, dir)); err != nil || !fi.IsDir() {
			t.Fatalf("expected %s to be created: %v", dir, err)
		}
	}
}

func TestConfigInitAndShowCLI(t *testing.T) {
	root := setupCLI(t)
	out, err := run(t, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	path := filepath.Join(root, ".sunprep", "config.yaml")
	if out != "wrote "+path+"\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := run(t, "config", "init"); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := run(t, "config", "init", "--force"); err != nil {
		t.Fatalf("config init --force: %v", err)
	}

	out, err = run(t, "config", "show", "--log-level", "debug")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{
		"toolsDir: " + filepath.Join(root, config.ToolsDirName) + "\n",
		"toolTimeout: 10s\n",
		"logLevel: debug\n",
		"projectName: Demo Project\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestOptionsListsVariablesCLI(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "options")
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "display_device_id" || lines[1] != "audio_device_id" {
		t.Fatalf("unexpected variables %q", lines)
	}
	if !strings.Contains(out, "\nvolume_level\n") {
		t.Fatalf("static variables missing:\n%s", out)
	}
}
