package exporter

import "github.com/VoxDroid/sunprep/internal/schema"

// GenerateDescriptorSchema produces the JSON Schema of the descriptor.
func GenerateDescriptorSchema() ([]byte, error) {
	return schema.Generate(&Descriptor{},
		"https://github.com/VoxDroid/sunprep/schemas/sunshine-config-v1.json",
		"Sunshine prep configuration",
		"Commands run by the streaming host before and after a session")
}

// ValidateDescriptor checks a descriptor document against the schema.
func ValidateDescriptor(data []byte) []*schema.Problem {
	s, err := GenerateDescriptorSchema()
	if err != nil {
		return []*schema.Problem{{Phase: schema.PhaseSemantic, Message: err.Error()}}
	}
	return schema.Validate(s, data)
}
