// Package script holds action instances and turns them into command text.
package script

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ActionInstance is a catalog template attached to a before/after sequence.
// Command and Description are copied at attach time so later catalog edits
// do not change an existing instance.
type ActionInstance struct {
	ActionName  string `json:"actionName"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Variables   Vars   `json:"variables"`
}

// Vars maps a placeholder name to its value for a single instance.
type Vars map[string]string

// MarshalJSON always emits an object, even for a nil map.
func (v Vars) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]string(v))
}

// UnmarshalJSON accepts plain strings, numbers, booleans and
// {"value": ..., "description": ...} records for every entry.
func (v *Vars) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("variables: %w", err)
	}
	out := make(Vars, len(raw))
	for k, r := range raw {
		s, err := scalarOrRecord(r)
		if err != nil {
			return fmt.Errorf("variable %q: %w", k, err)
		}
		out[k] = s
	}
	*v = out
	return nil
}

// Variable is a project-wide default value.
type Variable struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

// UnmarshalJSON accepts either the record shape or a bare scalar.
func (v *Variable) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var rec struct {
			Value       json.RawMessage `json:"value"`
			Description string          `json:"description"`
		}
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return err
		}
		s, err := scalarOrRecord(rec.Value)
		if err != nil {
			return err
		}
		*v = Variable{Value: s, Description: rec.Description}
		return nil
	}
	s, err := scalarOrRecord(trimmed)
	if err != nil {
		return err
	}
	*v = Variable{Value: s}
	return nil
}

func scalarOrRecord(r json.RawMessage) (string, error) {
	r = bytes.TrimSpace(r)
	if len(r) == 0 || bytes.Equal(r, []byte("null")) {
		return "", nil
	}
	switch r[0] {
	case '"':
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{':
		var rec struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(r, &rec); err != nil {
			return "", err
		}
		return scalarOrRecord(rec.Value)
	case '[':
		return "", fmt.Errorf("unsupported array value")
	default:
		// numbers and booleans keep their literal JSON text
		return string(r), nil
	}
}
