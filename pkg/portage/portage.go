// Package portage wraps the external Portage tooling the analyzer depends
// on: emerge for the depclean report and portageq for per-package
// dependency metadata. Both are plain subprocesses on the local host; the
// package adds structured errors, response caching and a concurrency-bounded
// cache warm-up on top.
package portage

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Runner executes an external command and returns its stdout.
// It exists so tests can substitute canned output for emerge and portageq.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes the command and returns its stdout. On failure the error
// includes the first stderr line, which is where Portage tools put the
// reason.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := firstLine(stderr.String()); msg != "" {
			return nil, &runError{cmd: name, msg: msg, err: err}
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

type runError struct {
	cmd string
	msg string
	err error
}

func (e *runError) Error() string { return e.cmd + ": " + e.msg }
func (e *runError) Unwrap() error { return e.err }

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

// Ensure ExecRunner implements Runner.
var _ Runner = ExecRunner{}
