package project

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadDocument decodes a saved project document. Missing fields take their
// empty values; a name-less document stays unnamed.
func ReadDocument(r io.Reader) (*Project, error) {
	var patch Patch
	if err := json.NewDecoder(r).Decode(&patch); err != nil {
		return nil, fmt.Errorf("%w: decode project: %v", ErrValidation, err)
	}
	return patch.Apply(New("")), nil
}

// LoadDocument reads a project document from path.
func LoadDocument(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return ReadDocument(f)
}
