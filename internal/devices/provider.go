package devices

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"

	"github.com/VoxDroid/sunprep/internal/executor"
	"github.com/VoxDroid/sunprep/internal/logging"
)

const displaysPS = `Add-Type -AssemblyName System.Windows.Forms; $screens = [System.Windows.Forms.Screen]::AllScreens; $pnpMonitors = @(); try { $pnpMonitors = Get-PnpDevice -Class Monitor | Where-Object { $_.Status -eq "OK" } } catch { }; $screenIndex = 0; foreach ($screen in $screens) { $screenIndex++; $deviceId = "fallback-id-" + $screenIndex; $friendlyName = "Display " + $screenIndex; if ($pnpMonitors.Count -ge $screenIndex) { $pnp = $pnpMonitors[$screenIndex - 1]; if ($pnp.InstanceId) { $deviceId = $pnp.InstanceId; $friendlyName = $pnp.FriendlyName } }; Write-Output ($screenIndex.ToString() + "|" + $deviceId + "|" + $screen.DeviceName + "|" + $screen.Bounds.Width + "x" + $screen.Bounds.Height + "|" + $screen.Primary + "|" + $friendlyName) }`

const audioPS = `try { Import-Module AudioDeviceCmdlets -ErrorAction Stop; Get-AudioDevice -List | Where-Object { $_.Type -eq "Playback" } | ForEach-Object { Write-Output ($_.Index.ToString() + "|" + $_.Name + "|" + $_.Default.ToString() + "|" + $_.ID) } } catch { Write-Output "MODULE_NOT_AVAILABLE" }`

type source[T any] struct {
	tool  string
	cmd   string
	parse func([]byte) ([]T, error)
}

// Provider answers option and enumeration queries. Every helper invocation
// goes through the Runner, which bounds it with a timeout.
type Provider struct {
	runner   executor.Runner
	toolsDir string

	displaySources []source[Display]
	audioSources   []source[AudioDevice]
	strategies     map[string]func(context.Context) []Option
}

// NewProvider builds a Provider that looks for helpers in toolsDir.
func NewProvider(runner executor.Runner, toolsDir string) *Provider {
	p := &Provider{runner: runner, toolsDir: toolsDir}
	p.displaySources = []source[Display]{
		{tool: DisplayExtractor, cmd: executor.JoinArgs(filepath.Join(toolsDir, DisplayExtractor)), parse: parseExtractorDisplays},
		{tool: "powershell.exe", cmd: executor.JoinArgs("powershell.exe", "-NoProfile", "-Command", displaysPS), parse: parsePowerShellDisplays},
	}
	p.audioSources = []source[AudioDevice]{
		{tool: AudioInfo, cmd: executor.JoinArgs(filepath.Join(toolsDir, AudioInfo)), parse: parseAudioInfo},
		{tool: "powershell.exe", cmd: executor.JoinArgs("powershell.exe", "-NoProfile", "-Command", audioPS), parse: parsePowerShellAudio},
	}

	p.strategies = map[string]func(context.Context) []Option{
		"display_device_id": p.displayOptions,
		"audio_device_id":   p.audioOptions,
	}
	for name, opts := range staticOptions {
		p.strategies[name] = func(context.Context) []Option { return append([]Option{}, opts...) }
	}
	return p
}

// ToolsDir is the directory searched for helper executables.
func (p *Provider) ToolsDir() string { return p.toolsDir }

// Options returns the choices for variable. Unknown names yield an empty list.
func (p *Provider) Options(ctx context.Context, variable string) []Option {
	fn, ok := p.strategies[variable]
	if !ok {
		return []Option{}
	}
	return fn(ctx)
}

// HasOptions reports whether variable has an option strategy.
func (p *Provider) HasOptions(variable string) bool {
	_, ok := p.strategies[variable]
	return ok
}

// Variables lists every variable with an option strategy: the device
// variables first, then the static tables.
func (p *Provider) Variables() []string {
	return append([]string{"display_device_id", "audio_device_id"}, StaticVariables()...)
}

// Displays enumerates monitors, falling back to a single placeholder display.
func (p *Provider) Displays(ctx context.Context) []Display {
	if ds, ok := enumerate(ctx, p.runner, p.displaySources); ok {
		return ds
	}
	return []Display{FallbackDisplay()}
}

// AudioDevices enumerates playback endpoints, falling back to the default device.
func (p *Provider) AudioDevices(ctx context.Context) []AudioDevice {
	if ds, ok := enumerate(ctx, p.runner, p.audioSources); ok {
		return ds
	}
	return []AudioDevice{FallbackAudioDevice()}
}

func (p *Provider) displayOptions(ctx context.Context) []Option {
	ds, ok := enumerate(ctx, p.runner, p.displaySources)
	if !ok {
		return []Option{{Value: FallbackDisplayID, Label: "Primary Display - Unknown"}}
	}
	opts := make([]Option, 0, len(ds))
	for _, d := range ds {
		label := d.DisplayName + " (" + d.Resolution
		if d.RefreshRate > 0 {
			label += "@" + strconv.Itoa(d.RefreshRate) + "Hz"
		}
		label += ")"
		if d.IsPrimary {
			label += " *Primary*"
		}
		opts = append(opts, Option{Value: d.DeviceID, Label: label})
	}
	return opts
}

func (p *Provider) audioOptions(ctx context.Context) []Option {
	ds, ok := enumerate(ctx, p.runner, p.audioSources)
	if !ok {
		return []Option{{Value: FallbackAudioID, Label: "Default Audio Device"}}
	}
	opts := make([]Option, 0, len(ds))
	for _, d := range ds {
		label := d.Name
		if d.IsDefault {
			label += " *Default*"
		}
		opts = append(opts, Option{Value: d.ID, Label: label})
	}
	return opts
}

// enumerate tries each source in order. Failures are logged at warn and never
// returned; ok is false when every source failed.
func enumerate[T any](ctx context.Context, runner executor.Runner, sources []source[T]) ([]T, bool) {
	log := logging.FromContext(ctx)
	for _, src := range sources {
		items, err := runSource(ctx, runner, src)
		if err == nil {
			return items, true
		}
		log.Warn("device enumeration failed", "tool", src.tool, "error", err)
	}
	return nil, false
}

func runSource[T any](ctx context.Context, runner executor.Runner, src source[T]) ([]T, error) {
	out, err := runner.Run(ctx, src.cmd)
	if err != nil {
		return nil, &ToolError{Tool: src.tool, Err: err}
	}
	if len(out) == 0 {
		return nil, &ToolError{Tool: src.tool, Err: errors.New("no output")}
	}
	items, err := src.parse(out)
	if err != nil {
		return nil, &ToolError{Tool: src.tool, Err: err}
	}
	return items, nil
}
