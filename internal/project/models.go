// Package project holds the single in-progress project and its mutations.
package project

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/VoxDroid/sunprep/internal/script"
)

// Errors returned by Store; they wrap the script package sentinels.
var (
	ErrValidation      = script.ErrValidation
	ErrIndexOutOfRange = script.ErrIndexOutOfRange
)

// Slot names one of the two script sequences.
type Slot string

// Known slots.
const (
	Before Slot = "before"
	After  Slot = "after"
)

// Slots lists the slots in export order.
var Slots = []Slot{Before, After}

// ParseSlot validates a user-supplied slot name.
func ParseSlot(s string) (Slot, error) {
	switch sl := Slot(strings.ToLower(strings.TrimSpace(s))); sl {
	case Before, After:
		return sl, nil
	}
	return "", fmt.Errorf("%w: script type must be %q or %q, got %q", ErrValidation, Before, After, s)
}

// Title is the capitalized slot name used in generated files.
func (s Slot) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Project is the document being edited.
type Project struct {
	Name          string                     `json:"name"`
	BeforeScripts script.Sequence            `json:"beforeScripts"`
	AfterScripts  script.Sequence            `json:"afterScripts"`
	Variables     map[string]script.Variable `json:"variables"`
}

// New returns an empty project named name.
func New(name string) *Project {
	return &Project{
		Name:          name,
		BeforeScripts: script.Sequence{},
		AfterScripts:  script.Sequence{},
		Variables:     map[string]script.Variable{},
	}
}

// Sequence returns the sequence stored in slot.
func (p *Project) Sequence(slot Slot) script.Sequence {
	if slot == After {
		return p.AfterScripts
	}
	return p.BeforeScripts
}

// MarshalJSON keeps variables an object even when nil.
func (p Project) MarshalJSON() ([]byte, error) {
	type plain Project
	if p.Variables == nil {
		p.Variables = map[string]script.Variable{}
	}
	return json.Marshal(plain(p))
}

// Patch is a shallow update: nil fields are left alone, set fields replace
// the current value wholesale.
type Patch struct {
	Name          *string                    `json:"name,omitempty"`
	BeforeScripts *script.Sequence           `json:"beforeScripts,omitempty"`
	AfterScripts  *script.Sequence           `json:"afterScripts,omitempty"`
	Variables     map[string]script.Variable `json:"variables,omitempty"`

	variablesSet bool
}

// UnmarshalJSON records whether variables was present so {} can clear them.
func (p *Patch) UnmarshalJSON(data []byte) error {
	type plain Patch
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*p = Patch(out)
	_, p.variablesSet = raw["variables"]
	return nil
}

// WithVariables marks vars as the replacement variable set.
func (p Patch) WithVariables(vars map[string]script.Variable) Patch {
	p.Variables = vars
	p.variablesSet = true
	return p
}

// Apply returns cur with the patch applied. cur is not modified.
func (p Patch) Apply(cur *Project) *Project {
	out := cur.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.BeforeScripts != nil {
		out.BeforeScripts = append(script.Sequence{}, (*p.BeforeScripts)...)
	}
	if p.AfterScripts != nil {
		out.AfterScripts = append(script.Sequence{}, (*p.AfterScripts)...)
	}
	if p.variablesSet || p.Variables != nil {
		out.Variables = make(map[string]script.Variable, len(p.Variables))
		for k, v := range p.Variables {
			out.Variables[k] = v
		}
	}
	return out
}

// Clone returns a deep copy of p.
func (p *Project) Clone() *Project {
	out := &Project{
		Name:          p.Name,
		BeforeScripts: cloneSeq(p.BeforeScripts),
		AfterScripts:  cloneSeq(p.AfterScripts),
		Variables:     make(map[string]script.Variable, len(p.Variables)),
	}
	for k, v := range p.Variables {
		out.Variables[k] = v
	}
	return out
}

func cloneSeq(s script.Sequence) script.Sequence {
	out := make(script.Sequence, len(s))
	for i, inst := range s {
		vars := make(script.Vars, len(inst.Variables))
		for k, v := range inst.Variables {
			vars[k] = v
		}
		inst.Variables = vars
		out[i] = inst
	}
	return out
}
