package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/VoxDroid/sunprep/internal/script"
)

func TestBuiltinCatalog(t *testing.T) {
	c, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	if c.Len() != 35 {
		t.Fatalf("expected 35 actions, got %d", c.Len())
	}
	want := []string{"All", "Audio", "Display", "Process", "Service", "System"}
	if diff := cmp.Diff(want, c.Categories()); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}
	for _, a := range c.All() {
		if a.Variables == nil {
			t.Fatalf("%s: variables should never be nil", a.Name)
		}
	}
}

func TestFilter(t *testing.T) {
	c, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	if got := len(c.Filter("All")); got != c.Len() {
		t.Fatalf("All should return every action, got %d", got)
	}
	if got := len(c.Filter("")); got != c.Len() {
		t.Fatalf("empty category should return every action, got %d", got)
	}
	audio := c.Filter("Audio")
	if len(audio) != 8 {
		t.Fatalf("expected 8 audio actions, got %d", len(audio))
	}
	for _, a := range audio {
		if a.Category != "Audio" {
			t.Fatalf("unexpected category %q", a.Category)
		}
	}
	if got := c.Filter("Nope"); got == nil || len(got) != 0 {
		t.Fatalf("unknown category should yield an empty non-nil slice, got %v", got)
	}
}

func TestFindAndInstantiate(t *testing.T) {
	c, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	tpl, ok := c.Find("Change Resolution (QRes)")
	if !ok {
		t.Fatalf("expected to find QRes action")
	}
	if diff := cmp.Diff([]string{"width", "height"}, tpl.Variables); diff != "" {
		t.Fatalf("variables mismatch:\n%s", diff)
	}
	if _, ok := c.Find("sleep/wait"); !ok {
		t.Fatalf("expected case-insensitive lookup to succeed")
	}
	if _, ok := c.Find("Does Not Exist"); ok {
		t.Fatalf("expected lookup miss")
	}

	vars := script.Vars{"width": "1920", "height": "1080"}
	inst := tpl.Instantiate(vars)
	vars["width"] = "800"
	if inst.ActionName != tpl.Name || inst.Command != tpl.Command {
		t.Fatalf("instance does not snapshot the template: %+v", inst)
	}
	if inst.Variables["width"] != "1920" {
		t.Fatalf("instance variables must be copied, got %q", inst.Variables["width"])
	}
}

func TestSearch(t *testing.T) {
	c, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	res := c.Search("nircmd")
	if len(res) == 0 {
		t.Fatalf("expected nircmd matches")
	}
	for _, a := range res {
		if !strings.Contains(strings.ToLower(a.Name+a.Description+a.Command), "nircmd") &&
			!FuzzyMatch(a.Name, "nircmd") && !FuzzyMatch(a.Description, "nircmd") {
			t.Fatalf("unexpected match %q", a.Name)
		}
	}
	if got := len(c.Search("  ")); got != c.Len() {
		t.Fatalf("blank query should return everything, got %d", got)
	}
	if got := c.Search("zzzzqqq"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestFuzzyMatch(t *testing.T) {
	cases := []struct {
		target, query string
		want          bool
	}{
		{"Restart Service", "", true},
		{"Restart Service", "service", true},
		{"Restart Service", "rsvc", true},
		{"Restart Service", "xyz", false},
	}
	for _, tc := range cases {
		if got := FuzzyMatch(tc.target, tc.query); got != tc.want {
			t.Fatalf("FuzzyMatch(%q, %q) = %v, want %v", tc.target, tc.query, got, tc.want)
		}
	}
}

func TestParseRejectsUnknownField(t *testing.T) {
	doc := `apiVersion: sunprep/catalog/v1
actions:
  - name: A
    category: System
    command: echo hi
    bogus: true
`
	if _, err := Parse(strings.NewReader(doc)); err == nil {
		t.Fatalf("expected strict decode to reject unknown field")
	}
}

func TestParseDomainProblems(t *testing.T) {
	doc := `apiVersion: sunprep/catalog/v1
actions:
  - name: A
    category: System
    command: echo {x}
    variables: [x, y]
  - name: A
    category: All
    command: echo {TOOLS_PATH}
    variables: [TOOLS_PATH]
`
	_, err := Parse(strings.NewReader(doc))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	var paths []string
	for _, p := range ve.Problems {
		paths = append(paths, p.Path)
	}
	want := []string{"actions/0/variables", "actions/1/name", "actions/1/category", "actions/1/variables"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("problem paths mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSchemaProblems(t *testing.T) {
	doc := `apiVersion: sunprep/catalog/v1
actions:
  - name: ""
    category: System
    command: echo
`
	_, err := Parse(strings.NewReader(doc))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Problems[0].Phase != "semantic" {
		t.Fatalf("expected semantic phase, got %q", ve.Problems[0].Phase)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "catalog.yaml")
	doc := `apiVersion: sunprep/catalog/v1
actions:
  - name: Hello
    category: Custom
    command: echo {msg}
    description: say something
    variables: [msg]
`
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"All", "Custom"}, c.Categories()); diff != "" {
		t.Fatalf("categories mismatch:\n%s", diff)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	b, err := Load("")
	if err != nil || b.Len() != 35 {
		t.Fatalf("empty path should load builtin: %v", err)
	}
}
