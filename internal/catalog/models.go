// Package catalog provides the read-only library of action templates.
package catalog

import "github.com/VoxDroid/sunprep/internal/script"

// APIVersion identifies the catalog document format.
const APIVersion = "sunprep/catalog/v1"

// ActionTemplate is a reusable parameterized command.
type ActionTemplate struct {
	Name        string   `yaml:"name"        json:"name"        jsonschema:"minLength=1"`
	Category    string   `yaml:"category"    json:"category"    jsonschema:"minLength=1"`
	Command     string   `yaml:"command"     json:"command"     jsonschema:"minLength=1"`
	Description string   `yaml:"description" json:"description"`
	Variables   []string `yaml:"variables"   json:"variables"`
}

// Document is the on-disk catalog layout.
type Document struct {
	APIVersion string           `yaml:"apiVersion" json:"apiVersion"`
	Actions    []ActionTemplate `yaml:"actions"    json:"actions"`
}

// Instantiate snapshots the template into a new action instance.
func (t ActionTemplate) Instantiate(vars script.Vars) script.ActionInstance {
	inst := script.ActionInstance{
		ActionName:  t.Name,
		Command:     t.Command,
		Description: t.Description,
		Variables:   script.Vars{},
	}
	for k, v := range vars {
		inst.Variables[k] = v
	}
	return inst
}
