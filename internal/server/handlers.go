package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/VoxDroid/sunprep/internal/catalog"
	"github.com/VoxDroid/sunprep/internal/devices"
	"github.com/VoxDroid/sunprep/internal/exporter"
	"github.com/VoxDroid/sunprep/internal/project"
	"github.com/VoxDroid/sunprep/internal/script"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	actions := catalog.Search(s.catalog.Filter(q.Get("category")), q.Get("q"))
	writeJSON(w, http.StatusOK, actions)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	tpl, ok := s.catalog.Find(name)
	if !ok {
		writeError(w, r, fmt.Errorf("%w: action %q", errNotFound, name))
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Categories())
}

func (s *Server) handleDisplays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.devices.Displays(r.Context()))
}

func (s *Server) handleAudioDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.devices.AudioDevices(r.Context()))
}

func (s *Server) handleVariableOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.devices.Options(r.Context(), r.PathValue("name")))
}

func (s *Server) handleRuntimeTokens(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, devices.RuntimeTokens())
}

func (s *Server) handleToolsStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, devices.ToolsStatus(s.opts.ToolsDir))
}

type projectResponse struct {
	Success bool             `json:"success"`
	Project *project.Project `json:"project"`
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleReplaceProject(w http.ResponseWriter, r *http.Request) {
	var patch project.Patch
	if err := decodeBody(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.store.Replace(r.Context(), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{Success: true, Project: p})
}

func (s *Server) handleResetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Reset(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{Success: true, Project: p})
}

// instanceFor completes an action that only names a catalog template.
func (s *Server) instanceFor(a script.ActionInstance) (script.ActionInstance, error) {
	if a.Command != "" {
		if a.Variables == nil {
			a.Variables = script.Vars{}
		}
		return a, nil
	}
	if a.ActionName == "" {
		return a, fmt.Errorf("%w: action requires a command or a catalog actionName", project.ErrValidation)
	}
	tpl, ok := s.catalog.Find(a.ActionName)
	if !ok {
		return a, fmt.Errorf("%w: action %q", errNotFound, a.ActionName)
	}
	return tpl.Instantiate(a.Variables), nil
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	slot, err := project.ParseSlot(r.PathValue("type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Action *script.ActionInstance `json:"action"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.Action == nil {
		writeError(w, r, fmt.Errorf("%w: action is required", project.ErrValidation))
		return
	}
	inst, err := s.instanceFor(*body.Action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.store.Append(r.Context(), slot, inst)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{Success: true, Project: p})
}

func slotAndIndex(r *http.Request) (project.Slot, int, error) {
	slot, err := project.ParseSlot(r.PathValue("type"))
	if err != nil {
		return "", 0, err
	}
	idx, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return "", 0, fmt.Errorf("%w: index must be an integer, got %q", project.ErrValidation, r.PathValue("index"))
	}
	return slot, idx, nil
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	slot, idx, err := slotAndIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.store.RemoveAt(r.Context(), slot, idx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{Success: true, Project: p})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	slot, idx, err := slotAndIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Direction string `json:"direction"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	dir, err := script.ParseDirection(body.Direction)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.store.MoveAt(r.Context(), slot, idx, dir)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{Success: true, Project: p})
}

type variablesResponse struct {
	Success   bool                       `json:"success"`
	Variables map[string]script.Variable `json:"variables"`
}

func (s *Server) handleSetVariable(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Value       any    `json:"value"`
		Description string `json:"description"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.store.SetVariable(r.Context(), body.Name, scalarString(body.Value), body.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, variablesResponse{Success: true, Variables: p.Variables})
}

func (s *Server) handleRemoveVariable(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.RemoveVariable(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, variablesResponse{Success: true, Variables: p.Variables})
}

// scalarString stringifies a decoded JSON scalar; other shapes become "".
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	pv, err := exporter.BuildPreview(p, s.opts.ToolsDir)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pv)
}

func (s *Server) handleDownloadBat(w http.ResponseWriter, r *http.Request) {
	slot, err := project.ParseSlot(r.PathValue("type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.store.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	body := exporter.RenderSlot(p, slot, s.opts.ToolsDir)
	attachment(w, "application/octet-stream", exporter.ScriptFileName(p.Name, slot))
	_, _ = w.Write([]byte(exporter.RenderScriptFile(slot, p.Name, body)))
}

func (s *Server) handleWriteBat(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := exporter.WriteScripts(s.opts.OutputDir, p, s.opts.ToolsDir)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDownloadJSON(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	pv, err := exporter.BuildPreview(p, s.opts.ToolsDir)
	if err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, "application/json", exporter.DescriptorFileName(p.Name))
	_, _ = w.Write([]byte(pv.JSONConfig))
}

func (s *Server) handleWriteJSON(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := exporter.WriteDescriptor(s.opts.OutputDir, p, s.opts.ToolsDir)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	data, err := exporter.GenerateDescriptorSchema()
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(data)
}

