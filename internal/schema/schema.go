// Package schema reflects JSON Schemas from Go types and validates
// documents against them.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Phases reported by Problem.
const (
	PhaseStructural = "structural"
	PhaseSemantic   = "semantic"
	PhaseDomain     = "domain"
)

// Problem is a single validation failure with its location.
type Problem struct {
	Phase   string `json:"phase"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (p *Problem) Error() string {
	if p.Path == "" {
		return fmt.Sprintf("[%s] %s", p.Phase, p.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", p.Phase, p.Path, p.Message)
}

// Generate reflects v into an indented Draft 2020-12 schema document.
func Generate(v any, id, title, description string) ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(v)
	s.ID = jsonschema.ID(id)
	s.Title = title
	s.Description = description

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

// Validate checks the JSON document data against schemaJSON.
// An empty result means the document is valid.
func Validate(schemaJSON, data []byte) []*Problem {
	fail := func(format string, err error) []*Problem {
		return []*Problem{{Phase: PhaseSemantic, Message: fmt.Sprintf(format, err)}}
	}

	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return fail("unmarshal schema: %v", err)
	}
	c := sjsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaDoc); err != nil {
		return fail("add schema resource: %v", err)
	}
	sch, err := c.Compile("schema.json")
	if err != nil {
		return fail("compile schema: %v", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fail("unmarshal document: %v", err)
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*sjsonschema.ValidationError)
	if !ok {
		return []*Problem{{Phase: PhaseSemantic, Message: err.Error()}}
	}
	var out []*Problem
	for _, cause := range flatten(ve) {
		out = append(out, &Problem{
			Phase:   PhaseSemantic,
			Path:    strings.Join(cause.InstanceLocation, "/"),
			Message: fmt.Sprintf("%v", cause.ErrorKind),
		})
	}
	return out
}

// ValidateValue marshals v to JSON and validates it against schemaJSON.
func ValidateValue(schemaJSON []byte, v any) []*Problem {
	data, err := json.Marshal(v)
	if err != nil {
		return []*Problem{{Phase: PhaseSemantic, Message: fmt.Sprintf("marshal for schema validation: %v", err)}}
	}
	return Validate(schemaJSON, data)
}

func flatten(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flatten(cause)...)
	}
	return flat
}
