// Package executor runs external helper programs and captures their output.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// Runner runs a command line and returns its stdout. It allows tests to
// inject fake implementations without spawning processes.
type Runner interface {
	Run(ctx context.Context, commandLine string) ([]byte, error)
}

// Executor runs helper programs directly (no shell) with a per-call timeout.
type Executor struct {
	Timeout time.Duration
	Dir     string
}

// New returns a Runner backed by Executor.
func New(timeout time.Duration, dir string) Runner {
	return &Executor{Timeout: timeout, Dir: dir}
}

// ErrTimeout reports that a helper did not finish before its deadline.
var ErrTimeout = errors.New("command timed out")

// Run sanitizes and splits commandLine, runs it and returns captured stdout.
// A non-zero exit with stdout present is treated as success, matching how
// several Windows helpers report "nothing changed".
func (e *Executor) Run(ctx context.Context, commandLine string) ([]byte, error) {
	argv, err := SplitArgs(sanitizeCommand(commandLine))
	if err != nil {
		return nil, err
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if e.Dir != "" {
		cmd.Dir = e.Dir
	}
	var bout, berr bytes.Buffer
	cmd.Stdout = &bout
	cmd.Stderr = &berr

	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return bout.Bytes(), fmt.Errorf("%w after %s: %s", ErrTimeout, e.Timeout, argv[0])
	}
	if err != nil {
		return bout.Bytes(), checkExecutionError(err, &bout, &berr, argv)
	}
	return bout.Bytes(), nil
}

// SplitArgs splits a command line into argv honouring shell quoting.
func SplitArgs(s string) ([]string, error) {
	toks, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("invalid command line: %w", err)
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("invalid command line: empty")
	}
	return toks, nil
}

// JoinArgs quotes argv so SplitArgs returns it unchanged.
func JoinArgs(argv ...string) string {
	return shellquote.Join(argv...)
}

// sanitizeCommand normalizes common unicode characters that often get
// inserted by editors (e.g., smart quotes, NBSP, zero-width spaces) and
// converts them to their ASCII equivalents where sensible.
func sanitizeCommand(s string) string {
	r := strings.NewReplacer(
		"\u2018", "'",
		"\u2019", "'",
		"\u201C", "\"",
		"\u201D", "\"",
		"\u00A0", " ",
		"\u200B", "",
	)
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, r.Replace(s))
}

func checkExecutionError(err error, bout, berr *bytes.Buffer, argv []string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && bout.Len() > 0 {
		return nil
	}
	errStr := strings.TrimSpace(berr.String())
	if errStr != "" {
		return fmt.Errorf("command failed: %w (argv=%q stderr=%q)", err, argv, errStr)
	}
	return fmt.Errorf("command failed: %w (argv=%q)", err, argv)
}
