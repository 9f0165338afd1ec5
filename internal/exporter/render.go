// Package exporter renders a project into launcher scripts and the host
// descriptor, and writes them to disk.
package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/VoxDroid/sunprep/internal/nameutil"
	"github.com/VoxDroid/sunprep/internal/project"
)

// UntitledProject names unnamed projects in script headers.
const UntitledProject = "Untitled Project"

// Descriptor is the configuration document consumed by the streaming host.
type Descriptor struct {
	Name string `json:"name"`
	Prep Prep   `json:"prep"`
}

// Prep holds the commands run before a session (Do) and after it (Undo).
type Prep struct {
	Do   string `json:"do"`
	Undo string `json:"undo"`
}

// Preview is the rendered text of all three export artifacts.
type Preview struct {
	BeforeScript string `json:"beforeScript"`
	AfterScript  string `json:"afterScript"`
	JSONConfig   string `json:"jsonConfig"`
}

// RenderScriptFile wraps body in the batch file header and footer.
func RenderScriptFile(slot project.Slot, projectName, body string) string {
	if projectName == "" {
		projectName = UntitledProject
	}
	title := slot.Title()
	var b strings.Builder
	b.WriteString("@echo off\n")
	b.WriteString("REM Generated by Sunshine Script Builder\n")
	fmt.Fprintf(&b, "REM %s Script for %s\n", title, projectName)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "echo %s script completed.\n", title)
	return b.String()
}

// RenderDescriptor serializes the descriptor with two-space indentation.
// HTML characters are written as-is since commands routinely contain them.
func RenderDescriptor(projectName, beforeBody, afterBody string) (string, error) {
	d := Descriptor{Name: projectName, Prep: Prep{Do: beforeBody, Undo: afterBody}}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return "", fmt.Errorf("encode descriptor: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// RenderSlot resolves every instance in slot against the project defaults.
func RenderSlot(p *project.Project, slot project.Slot, toolsPath string) string {
	return p.Sequence(slot).Render(p.Variables, toolsPath)
}

// BuildPreview renders both script bodies and the descriptor.
func BuildPreview(p *project.Project, toolsPath string) (Preview, error) {
	before := RenderSlot(p, project.Before, toolsPath)
	after := RenderSlot(p, project.After, toolsPath)
	cfg, err := RenderDescriptor(p.Name, before, after)
	if err != nil {
		return Preview{}, err
	}
	return Preview{BeforeScript: before, AfterScript: after, JSONConfig: cfg}, nil
}

// ScriptFileName is the download/file name for a slot's batch file.
func ScriptFileName(projectName string, slot project.Slot) string {
	return nameutil.FileStem(projectName) + "_" + string(slot) + ".bat"
}

// DescriptorFileName is the download/file name for the descriptor.
func DescriptorFileName(projectName string) string {
	return nameutil.FileStem(projectName) + "_sunshine_config.json"
}
