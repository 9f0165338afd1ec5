package schema

import (
	"strings"
	"testing"
)

type sample struct {
	Name  string   `json:"name" jsonschema:"minLength=1"`
	Items []string `json:"items,omitempty"`
}

func TestGenerateAndValidate(t *testing.T) {
	data, err := Generate(&sample{}, "https://example.com/sample.json", "Sample", "test document")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(string(data), `"title": "Sample"`) {
		t.Fatalf("expected title in schema, got %s", data)
	}

	if probs := ValidateValue(data, sample{Name: "ok", Items: []string{"a"}}); len(probs) != 0 {
		t.Fatalf("expected valid, got %v", probs)
	}

	probs := Validate(data, []byte(`{"name":""}`))
	if len(probs) == 0 {
		t.Fatalf("expected minLength failure")
	}
	if probs[0].Phase != PhaseSemantic {
		t.Fatalf("unexpected phase %q", probs[0].Phase)
	}
	if probs[0].Path != "name" {
		t.Fatalf("expected path 'name', got %q", probs[0].Path)
	}
}

func TestValidateRejectsUnknownFields(t *testing.T) {
	data, err := Generate(&sample{}, "https://example.com/sample.json", "Sample", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if probs := Validate(data, []byte(`{"name":"x","extra":1}`)); len(probs) == 0 {
		t.Fatalf("expected additional property to be rejected")
	}
}

func TestValidateBadDocument(t *testing.T) {
	data, err := Generate(&sample{}, "https://example.com/sample.json", "Sample", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	probs := Validate(data, []byte(`{`))
	if len(probs) != 1 || !strings.Contains(probs[0].Message, "unmarshal document") {
		t.Fatalf("unexpected problems: %v", probs)
	}
}

func TestProblemError(t *testing.T) {
	p := &Problem{Phase: PhaseDomain, Path: "actions/0", Message: "bad"}
	if p.Error() != "[domain] actions/0: bad" {
		t.Fatalf("unexpected: %s", p.Error())
	}
	p.Path = ""
	if p.Error() != "[domain] bad" {
		t.Fatalf("unexpected: %s", p.Error())
	}
}
