package script

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Direction is the way MoveAt shifts an instance.
type Direction string

// Move directions.
const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection validates a user-supplied direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Up, Down:
		return d, nil
	}
	return "", fmt.Errorf("%w: direction must be %q or %q, got %q", ErrValidation, Up, Down, s)
}

// Sequence is an ordered list of instances. Order is execution order.
// Operations return a new slice and leave the receiver untouched.
type Sequence []ActionInstance

// Append adds inst to the end.
func (s Sequence) Append(inst ActionInstance) Sequence {
	out := make(Sequence, len(s), len(s)+1)
	copy(out, s)
	return append(out, inst)
}

// RemoveAt drops the instance at i and shifts the rest left.
func (s Sequence) RemoveAt(i int) (Sequence, error) {
	if err := s.checkIndex(i); err != nil {
		return s, err
	}
	out := make(Sequence, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...), nil
}

// MoveAt swaps the instance at i with its neighbor in dir. Moving the first
// element up or the last element down changes nothing.
func (s Sequence) MoveAt(i int, dir Direction) (Sequence, error) {
	if err := s.checkIndex(i); err != nil {
		return s, err
	}
	j := i
	switch dir {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	default:
		return s, fmt.Errorf("%w: unknown direction %q", ErrValidation, dir)
	}
	out := make(Sequence, len(s))
	copy(out, s)
	if j < 0 || j >= len(out) {
		return out, nil
	}
	out[i], out[j] = out[j], out[i]
	return out, nil
}

// Render resolves every instance against the project defaults and joins the
// commands with a single newline. An empty sequence renders "".
func (s Sequence) Render(projectVars map[string]Variable, toolsPath string) string {
	lines := make([]string, 0, len(s))
	for _, inst := range s {
		lines = append(lines, Resolve(inst.Command, Merge(projectVars, inst.Variables), toolsPath))
	}
	return strings.Join(lines, "\n")
}

func (s Sequence) checkIndex(i int) error {
	if i < 0 || i >= len(s) {
		return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, len(s))
	}
	return nil
}

// MarshalJSON emits [] for an empty sequence.
func (s Sequence) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]ActionInstance(s))
}
