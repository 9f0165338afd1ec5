package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/VoxDroid/sunprep/internal/project"
)

// ErrNothingToExport is returned by WriteScripts when both slots are empty.
var ErrNothingToExport = fmt.Errorf("%w: no scripts to save", project.ErrValidation)

// Result describes a completed write.
type Result struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Files   []string `json:"files"`
	Dir     string   `json:"-"`
}

// IOError reports a failed filesystem operation during export. The project
// itself is never modified by an export.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("export %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// WriteScripts writes one batch file per non-empty slot into dir. When a
// write fails, the returned Result still lists the files already written.
func WriteScripts(dir string, p *project.Project, toolsPath string) (Result, error) {
	if len(p.BeforeScripts) == 0 && len(p.AfterScripts) == 0 {
		return Result{}, ErrNothingToExport
	}
	if err := ensureDir(dir); err != nil {
		return Result{}, err
	}
	res := Result{Files: []string{}, Dir: dir}
	for _, slot := range project.Slots {
		if len(p.Sequence(slot)) == 0 {
			continue
		}
		name := ScriptFileName(p.Name, slot)
		content := RenderScriptFile(slot, p.Name, RenderSlot(p, slot, toolsPath))
		if err := writeFile(filepath.Join(dir, name), content); err != nil {
			return res, err
		}
		res.Files = append(res.Files, name)
	}
	res.Success = true
	res.Message = fmt.Sprintf("BAT files saved to %s", dir)
	return res, nil
}

// WriteDescriptor writes the descriptor JSON into dir.
func WriteDescriptor(dir string, p *project.Project, toolsPath string) (Result, error) {
	cfg, err := RenderDescriptor(p.Name,
		RenderSlot(p, project.Before, toolsPath),
		RenderSlot(p, project.After, toolsPath))
	if err != nil {
		return Result{}, err
	}
	if err := ensureDir(dir); err != nil {
		return Result{}, err
	}
	name := DescriptorFileName(p.Name)
	if err := writeFile(filepath.Join(dir, name), cfg+"\n"); err != nil {
		return Result{}, err
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("Configuration saved to %s", dir),
		Files:   []string{name},
		Dir:     dir,
	}, nil
}

// ensureDir is safe to call concurrently; MkdirAll tolerates existing dirs.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
