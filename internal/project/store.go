package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/VoxDroid/sunprep/internal/script"
)

// Store holds the current project in SQLite. Every mutation runs inside one
// transaction: load, apply, write back.
type Store struct {
	db *sql.DB
}

// NewStore wraps db and seeds an empty project named name.
func NewStore(ctx context.Context, db *sql.DB, name string) (*Store, error) {
	s := &Store{db: db}
	if err := s.update(ctx, func(*Project) (*Project, error) { return New(name), nil }); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns a copy of the current project.
func (s *Store) Get(ctx context.Context) (*Project, error) {
	trx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = trx.Rollback() }()
	return s.readProjectTx(ctx, trx)
}

// Replace shallow-merges patch into the project.
func (s *Store) Replace(ctx context.Context, patch Patch) (*Project, error) {
	return s.mutate(ctx, func(p *Project) (*Project, error) { return patch.Apply(p), nil })
}

// Reset replaces the project with an empty, unnamed one.
func (s *Store) Reset(ctx context.Context) (*Project, error) {
	return s.mutate(ctx, func(*Project) (*Project, error) { return New(""), nil })
}

// SetVariable adds or overwrites a project-wide default.
func (s *Store) SetVariable(ctx context.Context, name, value, description string) (*Project, error) {
	if strings.TrimSpace(name) == "" || value == "" {
		return nil, fmt.Errorf("%w: name and value are required", ErrValidation)
	}
	return s.mutate(ctx, func(p *Project) (*Project, error) {
		p.Variables[name] = script.Variable{Value: value, Description: description}
		return p, nil
	})
}

// RemoveVariable deletes a project-wide default. Unknown names are ignored.
func (s *Store) RemoveVariable(ctx context.Context, name string) (*Project, error) {
	return s.mutate(ctx, func(p *Project) (*Project, error) {
		delete(p.Variables, name)
		return p, nil
	})
}

// Append adds inst to the end of slot.
func (s *Store) Append(ctx context.Context, slot Slot, inst script.ActionInstance) (*Project, error) {
	return s.mutateSlot(ctx, slot, func(seq script.Sequence) (script.Sequence, error) {
		return seq.Append(inst), nil
	})
}

// RemoveAt removes the instance at index i of slot.
func (s *Store) RemoveAt(ctx context.Context, slot Slot, i int) (*Project, error) {
	return s.mutateSlot(ctx, slot, func(seq script.Sequence) (script.Sequence, error) {
		return seq.RemoveAt(i)
	})
}

// MoveAt swaps the instance at index i of slot with its neighbor.
func (s *Store) MoveAt(ctx context.Context, slot Slot, i int, dir script.Direction) (*Project, error) {
	return s.mutateSlot(ctx, slot, func(seq script.Sequence) (script.Sequence, error) {
		return seq.MoveAt(i, dir)
	})
}

func (s *Store) mutateSlot(ctx context.Context, slot Slot, fn func(script.Sequence) (script.Sequence, error)) (*Project, error) {
	if slot != Before && slot != After {
		return nil, fmt.Errorf("%w: unknown script type %q", ErrValidation, slot)
	}
	return s.mutate(ctx, func(p *Project) (*Project, error) {
		seq, err := fn(p.Sequence(slot))
		if err != nil {
			return nil, err
		}
		if slot == Before {
			p.BeforeScripts = seq
		} else {
			p.AfterScripts = seq
		}
		return p, nil
	})
}

func (s *Store) mutate(ctx context.Context, fn func(*Project) (*Project, error)) (*Project, error) {
	var out *Project
	err := s.update(ctx, func(p *Project) (*Project, error) {
		next, err := fn(p)
		if err != nil {
			return nil, err
		}
		out = next
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return out.Clone(), nil
}

func (s *Store) update(ctx context.Context, fn func(*Project) (*Project, error)) error {
	trx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = trx.Rollback() }()

	cur, err := s.readProjectTx(ctx, trx)
	if err != nil {
		return err
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	if err := s.writeProjectTx(ctx, trx, next); err != nil {
		return err
	}
	return trx.Commit()
}

func (s *Store) readProjectTx(ctx context.Context, trx *sql.Tx) (*Project, error) {
	p := New("")
	if err := trx.QueryRowContext(ctx, "SELECT name FROM project WHERE id = 1").Scan(&p.Name); err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}

	rows, err := trx.QueryContext(ctx, "SELECT name, value, description FROM project_variables")
	if err != nil {
		return nil, fmt.Errorf("read variables: %w", err)
	}
	for rows.Next() {
		var name string
		var v script.Variable
		if err := rows.Scan(&name, &v.Value, &v.Description); err != nil {
			_ = rows.Close()
			return nil, err
		}
		p.Variables[name] = v
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	for _, slot := range Slots {
		seq, err := s.readActionsTx(ctx, trx, slot)
		if err != nil {
			return nil, err
		}
		if slot == Before {
			p.BeforeScripts = seq
		} else {
			p.AfterScripts = seq
		}
	}
	return p, nil
}

func (s *Store) readActionsTx(ctx context.Context, trx *sql.Tx, slot Slot) (script.Sequence, error) {
	rows, err := trx.QueryContext(ctx, "SELECT action_name, command, description, variables FROM script_actions WHERE slot = ? ORDER BY position ASC", string(slot))
	if err != nil {
		return nil, fmt.Errorf("read %s actions: %w", slot, err)
	}
	defer func() { _ = rows.Close() }()

	seq := script.Sequence{}
	for rows.Next() {
		var inst script.ActionInstance
		var vars string
		if err := rows.Scan(&inst.ActionName, &inst.Command, &inst.Description, &vars); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(vars), &inst.Variables); err != nil {
			return nil, fmt.Errorf("decode %s action variables: %w", slot, err)
		}
		seq = append(seq, inst)
	}
	return seq, rows.Err()
}

func (s *Store) writeProjectTx(ctx context.Context, trx *sql.Tx, p *Project) error {
	if _, err := trx.ExecContext(ctx, "UPDATE project SET name = ? WHERE id = 1", p.Name); err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if _, err := trx.ExecContext(ctx, "DELETE FROM project_variables"); err != nil {
		return fmt.Errorf("clear variables: %w", err)
	}
	for name, v := range p.Variables {
		if _, err := trx.ExecContext(ctx, "INSERT INTO project_variables (name, value, description) VALUES (?, ?, ?)", name, v.Value, v.Description); err != nil {
			return fmt.Errorf("insert variable: %w", err)
		}
	}
	for _, slot := range Slots {
		if err := s.replaceActionsTx(ctx, trx, slot, p.Sequence(slot)); err != nil {
			return err
		}
	}
	return nil
}

// replaceActionsTx rewrites every row of slot, renumbering positions from 0.
func (s *Store) replaceActionsTx(ctx context.Context, trx *sql.Tx, slot Slot, seq script.Sequence) error {
	if _, err := trx.ExecContext(ctx, "DELETE FROM script_actions WHERE slot = ?", string(slot)); err != nil {
		return fmt.Errorf("clear %s actions: %w", slot, err)
	}
	for i, inst := range seq {
		vars, err := json.Marshal(inst.Variables)
		if err != nil {
			return err
		}
		if _, err := trx.ExecContext(ctx, "INSERT INTO script_actions (slot, position, action_name, command, description, variables) VALUES (?, ?, ?, ?, ?, ?)",
			string(slot), i, inst.ActionName, inst.Command, inst.Description, string(vars)); err != nil {
			return fmt.Errorf("insert %s action: %w", slot, err)
		}
	}
	return nil
}
