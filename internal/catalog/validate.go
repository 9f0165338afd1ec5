package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/VoxDroid/sunprep/internal/schema"
	"github.com/VoxDroid/sunprep/internal/script"
)

// ValidationError carries every problem found in a catalog document.
type ValidationError struct {
	Problems []*schema.Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Error())
	}
	return "invalid catalog: " + strings.Join(msgs, "; ")
}

// GenerateJSONSchema produces the JSON Schema for catalog documents.
func GenerateJSONSchema() ([]byte, error) {
	return schema.Generate(&Document{},
		"https://github.com/VoxDroid/sunprep/schemas/catalog-v1.json",
		"sunprep action catalog v1",
		"Schema for sunprep action catalog documents")
}

// Validate runs schema and domain checks over doc.
func Validate(doc *Document) []*schema.Problem {
	for i := range doc.Actions {
		if doc.Actions[i].Variables == nil {
			doc.Actions[i].Variables = []string{}
		}
	}

	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return []*schema.Problem{{Phase: schema.PhaseSemantic, Message: fmt.Sprintf("generate schema: %v", err)}}
	}
	if probs := schema.ValidateValue(schemaJSON, doc); len(probs) > 0 {
		return probs
	}
	return validateDomain(doc)
}

func validateDomain(doc *Document) []*schema.Problem {
	var probs []*schema.Problem
	add := func(path, format string, args ...any) {
		probs = append(probs, &schema.Problem{Phase: schema.PhaseDomain, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if doc.APIVersion != APIVersion {
		add("apiVersion", "unsupported apiVersion %q (want %q)", doc.APIVersion, APIVersion)
	}
	seen := make(map[string]int, len(doc.Actions))
	for i, a := range doc.Actions {
		path := fmt.Sprintf("actions/%d", i)
		if j, dup := seen[a.Name]; dup {
			add(path+"/name", "duplicate action name %q (first at actions/%d)", a.Name, j)
		} else {
			seen[a.Name] = i
		}
		if a.Category == AllCategories {
			add(path+"/category", "category %q is reserved", AllCategories)
		}
		tokens := script.Tokens(a.Command)
		for _, v := range a.Variables {
			if v == script.ToolsPathToken {
				add(path+"/variables", "%s is supplied by the tools directory, not a variable", v)
				continue
			}
			if !slices.Contains(tokens, v) {
				add(path+"/variables", "variable %q does not occur in command", v)
			}
		}
	}
	return probs
}
