package devices

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// Tool is a helper executable expected in the tools directory.
type Tool struct {
	Name        string `json:"name"`
	Filename    string `json:"filename"`
	Description string `json:"description"`
}

// Known helper executables.
const (
	NirCmd           = "nircmd.exe"
	QRes             = "qres.exe"
	MultiMonitorTool = "MultiMonitorTool.exe"
	AudioInfo        = "audio-info.exe"
	DisplayExtractor = "sunshine_info_extractor.exe"
)

var knownTools = []Tool{
	{Name: "NirCmd", Filename: NirCmd, Description: "Volume, monitor power and resolution control"},
	{Name: "QRes", Filename: QRes, Description: "Display resolution changer"},
	{Name: "MultiMonitorTool", Filename: MultiMonitorTool, Description: "Enable, disable and configure monitors"},
	{Name: "Audio Info", Filename: AudioInfo, Description: "Audio endpoint enumeration"},
	{Name: "Sunshine Info Extractor", Filename: DisplayExtractor, Description: "Display enumeration with device IDs"},
}

// ToolStatus reports whether a helper is present.
type ToolStatus struct {
	Tool
	Available bool   `json:"available"`
	Size      int64  `json:"size"`
	SizeLabel string `json:"sizeLabel"`
}

// ToolsSummary counts present and missing helpers.
type ToolsSummary struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Missing   int `json:"missing"`
}

// ToolsReport is the result of ToolsStatus.
type ToolsReport struct {
	Summary ToolsSummary `json:"summary"`
	Tools   []ToolStatus `json:"tools"`
}

// ToolsStatus checks each known helper in dir.
func ToolsStatus(dir string) ToolsReport {
	rep := ToolsReport{Tools: make([]ToolStatus, 0, len(knownTools))}
	for _, t := range knownTools {
		st := ToolStatus{Tool: t}
		if fi, err := os.Stat(filepath.Join(dir, t.Filename)); err == nil && fi.Mode().IsRegular() {
			st.Available = true
			st.Size = fi.Size()
			st.SizeLabel = humanize.Bytes(uint64(fi.Size()))
			rep.Summary.Available++
		}
		rep.Tools = append(rep.Tools, st)
	}
	rep.Summary.Total = len(knownTools)
	rep.Summary.Missing = rep.Summary.Total - rep.Summary.Available
	return rep
}
