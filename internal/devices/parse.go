package devices

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errNoDevices = errors.New("no devices in output")

type extractorDisplay struct {
	DeviceID     string `json:"device_id"`
	DisplayName  string `json:"display_name"`
	FriendlyName string `json:"friendly_name"`
	Info         *struct {
		Primary    bool `json:"primary"`
		Resolution struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"resolution"`
		RefreshRate struct {
			Value struct {
				Numerator   int `json:"numerator"`
				Denominator int `json:"denominator"`
			} `json:"value"`
		} `json:"refresh_rate"`
	} `json:"info"`
}

// parseExtractorDisplays reads the JSON array the display extractor prints
// somewhere in its stdout. Entries without display info are skipped.
func parseExtractorDisplays(out []byte) ([]Display, error) {
	s := string(out)
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return nil, errors.New("no JSON array in output")
	}
	var raw []extractorDisplay
	if err := json.Unmarshal([]byte(s[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode display list: %w", err)
	}

	var displays []Display
	for _, d := range raw {
		if d.Info == nil || d.DeviceID == "" {
			continue
		}
		res := fmt.Sprintf("%dx%d", d.Info.Resolution.Width, d.Info.Resolution.Height)
		refresh := 0
		if v := d.Info.RefreshRate.Value; v.Denominator != 0 {
			refresh = int(math.Round(float64(v.Numerator) / float64(v.Denominator)))
		}
		friendly := d.FriendlyName + " - " + res
		if refresh > 0 {
			friendly += "@" + strconv.Itoa(refresh) + "Hz"
		}
		if d.Info.Primary {
			friendly += " *Primary*"
		}
		displays = append(displays, Display{
			ID:           len(displays) + 1,
			DeviceID:     d.DeviceID,
			Name:         d.DisplayName,
			DevicePath:   d.DisplayName,
			Resolution:   res,
			RefreshRate:  refresh,
			IsPrimary:    d.Info.Primary,
			FriendlyName: friendly,
			DisplayName:  d.FriendlyName,
		})
	}
	if len(displays) == 0 {
		return nil, errNoDevices
	}
	return displays, nil
}

// parsePowerShellDisplays reads idx|deviceId|devicePath|WxH|primary|name lines.
func parsePowerShellDisplays(out []byte) ([]Display, error) {
	var displays []Display
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "|") || strings.HasPrefix(line, "Found") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 6 {
			continue
		}
		id, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
		res := parts[3]
		primary := strings.EqualFold(strings.TrimSpace(parts[4]), "true")
		name := parts[5]
		friendly := name + " - " + res
		if primary {
			friendly += "*"
		}
		displays = append(displays, Display{
			ID:           id,
			DeviceID:     parts[1],
			Name:         parts[2],
			DevicePath:   parts[2],
			Resolution:   res,
			IsPrimary:    primary,
			FriendlyName: friendly,
			DisplayName:  name,
		})
	}
	if len(displays) == 0 {
		return nil, errNoDevices
	}
	return displays, nil
}

// parseAudioInfo reads the block output of the audio helper:
//
//	Device ID: {...}
//	Device name: Speakers
//	Device state: Active
//
// Only active devices are kept; the first one is reported as default.
func parseAudioInfo(out []byte) ([]AudioDevice, error) {
	var devices []AudioDevice
	var id, name string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch {
		case strings.HasPrefix(key, "Device ID"):
			id = val
		case strings.HasPrefix(key, "Device name"):
			name = val
		case strings.HasPrefix(key, "Device state"):
			if val == "Active" && id != "" && name != "" {
				devices = append(devices, AudioDevice{
					ID:           id,
					Index:        strconv.Itoa(len(devices) + 1),
					Name:         name,
					FriendlyName: name,
				})
			}
			id, name = "", ""
		}
	}
	if len(devices) == 0 {
		return nil, errNoDevices
	}
	devices[0].IsDefault = true
	devices[0].FriendlyName += " (Default)"
	return devices, nil
}

const moduleNotAvailable = "MODULE_NOT_AVAILABLE"

// parsePowerShellAudio reads Index|Name|Default|ID lines.
func parsePowerShellAudio(out []byte) ([]AudioDevice, error) {
	if strings.Contains(string(out), moduleNotAvailable) {
		return nil, errors.New("AudioDeviceCmdlets module not available")
	}
	var devices []AudioDevice
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		parts := strings.Split(line, "|")
		if len(parts) < 4 {
			continue
		}
		name := strings.TrimSpace(parts[1])
		def := strings.EqualFold(strings.TrimSpace(parts[2]), "true")
		friendly := name
		if def {
			friendly += " (Default)"
		}
		devices = append(devices, AudioDevice{
			ID:           strings.TrimSpace(parts[3]),
			Index:        strings.TrimSpace(parts[0]),
			Name:         name,
			IsDefault:    def,
			FriendlyName: friendly,
		})
	}
	if len(devices) == 0 {
		return nil, errNoDevices
	}
	return devices, nil
}
