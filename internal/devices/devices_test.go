package devices

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/VoxDroid/sunprep/internal/executor"
)

// fakeRunner answers by matching the program name of the command line.
type fakeRunner struct {
	out   map[string]string
	err   map[string]error
	calls []string
}

func (f *fakeRunner) Run(_ context.Context, commandLine string) ([]byte, error) {
	argv, err := executor.SplitArgs(commandLine)
	if err != nil {
		return nil, err
	}
	prog := filepath.Base(strings.ReplaceAll(argv[0], `\`, "/"))
	f.calls = append(f.calls, prog)
	if e, ok := f.err[prog]; ok {
		return nil, e
	}
	if o, ok := f.out[prog]; ok {
		return []byte(o), nil
	}
	return nil, errors.New("executable file not found")
}

const extractorOut = `Sunshine info extractor v1
some log line
[
  {"device_id": "{abc-1}", "display_name": "\\\\.\\DISPLAY1", "friendly_name": "LG ULTRAGEAR",
   "info": {"primary": true, "resolution": {"width": 2560, "height": 1440},
            "refresh_rate": {"value": {"numerator": 143998, "denominator": 1000}}}},
  {"device_id": "{abc-2}", "display_name": "\\\\.\\DISPLAY2", "friendly_name": "DELL", "info": null}
]
done`

func TestDisplaysFromExtractor(t *testing.T) {
	r := &fakeRunner{out: map[string]string{DisplayExtractor: extractorOut}}
	p := NewProvider(r, "/tools")

	ds := p.Displays(context.Background())
	require.Len(t, ds, 1)
	require.Equal(t, "{abc-1}", ds[0].DeviceID)
	require.Equal(t, "2560x1440", ds[0].Resolution)
	require.Equal(t, 144, ds[0].RefreshRate)
	require.True(t, ds[0].IsPrimary)
	require.Equal(t, "LG ULTRAGEAR - 2560x1440@144Hz *Primary*", ds[0].FriendlyName)

	opts := p.Options(context.Background(), "display_device_id")
	require.Equal(t, []Option{{Value: "{abc-1}", Label: "LG ULTRAGEAR (2560x1440@144Hz) *Primary*"}}, opts)
}

func TestDisplaysFallsBackToPowerShell(t *testing.T) {
	ps := "1|MONITOR\\GSM5B7F\\1|\\\\.\\DISPLAY1|1920x1080|True|LG Monitor\r\n2|fallback-id-2|\\\\.\\DISPLAY2|1280x1024|False|Display 2\r\n"
	r := &fakeRunner{out: map[string]string{"powershell.exe": ps}}
	p := NewProvider(r, "/tools")

	opts := p.Options(context.Background(), "display_device_id")
	want := []Option{
		{Value: `MONITOR\GSM5B7F\1`, Label: "LG Monitor (1920x1080) *Primary*"},
		{Value: "fallback-id-2", Label: "Display 2 (1280x1024)"},
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{DisplayExtractor, "powershell.exe"}, r.calls); diff != "" {
		t.Fatalf("sources tried in wrong order:\n%s", diff)
	}
}

func TestDisplaysFallback(t *testing.T) {
	r := &fakeRunner{err: map[string]error{DisplayExtractor: executor.ErrTimeout}}
	p := NewProvider(r, "/tools")

	require.Equal(t, []Display{FallbackDisplay()}, p.Displays(context.Background()))
	require.Equal(t, []Option{{Value: "{default-display-id}", Label: "Primary Display - Unknown"}},
		p.Options(context.Background(), "display_device_id"))
}

func TestAudioFromAudioInfo(t *testing.T) {
	out := `Device ID: {0.0.0.00000000}.{aaa}
Device name: Speakers (Realtek)
Device state: Active

Device ID: {0.0.0.00000000}.{bbb}
Device name: Headphones
Device state: Unplugged

Device ID: {0.0.0.00000000}.{ccc}
Device name: Steam Streaming Speakers
Device state: Active
`
	r := &fakeRunner{out: map[string]string{AudioInfo: out}}
	p := NewProvider(r, "/tools")

	ds := p.AudioDevices(context.Background())
	require.Len(t, ds, 2)
	require.True(t, ds[0].IsDefault)
	require.Equal(t, "Speakers (Realtek) (Default)", ds[0].FriendlyName)
	require.False(t, ds[1].IsDefault)
	require.Equal(t, "2", ds[1].Index)

	opts := p.Options(context.Background(), "audio_device_id")
	require.Equal(t, []Option{
		{Value: "{0.0.0.00000000}.{aaa}", Label: "Speakers (Realtek) *Default*"},
		{Value: "{0.0.0.00000000}.{ccc}", Label: "Steam Streaming Speakers"},
	}, opts)
}

func TestAudioPowerShellModuleMissing(t *testing.T) {
	r := &fakeRunner{out: map[string]string{"powershell.exe": "MODULE_NOT_AVAILABLE\n"}}
	p := NewProvider(r, "/tools")

	require.Equal(t, []AudioDevice{FallbackAudioDevice()}, p.AudioDevices(context.Background()))
	require.Equal(t, []Option{{Value: "default-audio-device", Label: "Default Audio Device"}},
		p.Options(context.Background(), "audio_device_id"))
}

func TestAudioPowerShell(t *testing.T) {
	r := &fakeRunner{out: map[string]string{"powershell.exe": "1|Speakers|True|{id-1}\n2|HDMI|False|{id-2}\n"}}
	ds := NewProvider(r, "/tools").AudioDevices(context.Background())
	require.Len(t, ds, 2)
	require.Equal(t, "Speakers (Default)", ds[0].FriendlyName)
	require.Equal(t, "{id-2}", ds[1].ID)
}

func TestStaticOptions(t *testing.T) {
	p := NewProvider(&fakeRunner{}, "/tools")
	ctx := context.Background()

	w := p.Options(ctx, "width")
	require.Equal(t, Option{Value: "1920", Label: "1920 (1080p width)"}, w[0])
	require.Equal(t, "${SUNSHINE_CLIENT_WIDTH}", w[len(w)-1].Value)

	for _, name := range StaticVariables() {
		require.True(t, p.HasOptions(name), name)
		require.NotEmpty(t, p.Options(ctx, name), name)
	}

	unknown := p.Options(ctx, "nope")
	require.NotNil(t, unknown)
	require.Empty(t, unknown)

	// callers must not be able to mutate the shared table
	w[0].Value = "x"
	require.Equal(t, "1920", p.Options(ctx, "width")[0].Value)
}

func TestRuntimeTokens(t *testing.T) {
	var got []string
	for _, tok := range RuntimeTokens() {
		got = append(got, tok.Token)
	}
	require.Equal(t, []string{"${SUNSHINE_CLIENT_WIDTH}", "${SUNSHINE_CLIENT_HEIGHT}", "${SUNSHINE_CLIENT_FPS}", "${SUNSHINE_APP_NAME}"}, got)
}

func TestToolsStatus(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, NirCmd), make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, QRes), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	rep := ToolsStatus(dir)
	require.Equal(t, ToolsSummary{Total: 5, Available: 1, Missing: 4}, rep.Summary)
	require.True(t, rep.Tools[0].Available)
	require.Equal(t, int64(2048), rep.Tools[0].Size)
	require.Equal(t, "2.0 kB", rep.Tools[0].SizeLabel)
	require.False(t, rep.Tools[1].Available, "directories are not tools")
}

func TestToolErrorUnwrap(t *testing.T) {
	err := error(&ToolError{Tool: AudioInfo, Err: executor.ErrTimeout})
	require.ErrorIs(t, err, executor.ErrTimeout)
	var te *ToolError
	require.ErrorAs(t, err, &te)
	require.Contains(t, err.Error(), AudioInfo)
}
