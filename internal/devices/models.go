// Package devices enumerates displays, audio endpoints and helper tools, and
// supplies the value choices offered for each placeholder.
package devices

import "fmt"

// Option is one selectable value for a placeholder.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Display is a monitor attached to the host.
type Display struct {
	ID           int    `json:"id"`
	DeviceID     string `json:"deviceId"`
	Name         string `json:"name"`
	DevicePath   string `json:"devicePath"`
	Resolution   string `json:"resolution"`
	RefreshRate  int    `json:"refreshRate,omitempty"`
	IsPrimary    bool   `json:"isPrimary"`
	FriendlyName string `json:"friendlyName"`
	DisplayName  string `json:"displayName"`
}

// AudioDevice is a playback endpoint.
type AudioDevice struct {
	ID           string `json:"id"`
	Index        string `json:"index"`
	Name         string `json:"name"`
	IsDefault    bool   `json:"isDefault"`
	FriendlyName string `json:"friendlyName"`
}

// Fallback identifiers used when enumeration fails.
const (
	FallbackDisplayID = "{default-display-id}"
	FallbackAudioID   = "default-audio-device"
)

// FallbackDisplay is returned when no display could be enumerated.
func FallbackDisplay() Display {
	return Display{
		ID:           1,
		DeviceID:     FallbackDisplayID,
		Name:         `\\.\DISPLAY1`,
		DevicePath:   `\\.\DISPLAY1`,
		Resolution:   "Unknown",
		IsPrimary:    true,
		FriendlyName: "Primary Display - Unknown*",
		DisplayName:  "Primary Display",
	}
}

// FallbackAudioDevice is returned when no audio device could be enumerated.
func FallbackAudioDevice() AudioDevice {
	return AudioDevice{
		ID:           FallbackAudioID,
		Index:        "0",
		Name:         "Default Audio Device",
		IsDefault:    true,
		FriendlyName: "Default Audio Device (Default)",
	}
}

// ToolError reports that an external helper failed, timed out or produced
// output that could not be parsed. Callers recover by using a fallback.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("external tool %s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }
