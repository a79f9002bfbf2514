package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner runs an external command and returns its standard output.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec in Dir (the process working directory if empty).
type ExecRunner struct {
	Dir string
}

// Output implements Runner.
func (r ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	return cmd.Output()
}

// ResolveProjectRoot asks git for the top-level directory of the working tree.
// When git fails or prints nothing, the parent of the working directory is used,
// which matches running the generator from a sub-directory of the harvester.
func ResolveProjectRoot(ctx context.Context, runner Runner) string {
	out, err := runner.Output(ctx, "git", "rev-parse", "--show-toplevel")
	if err == nil {
		if root := firstLine(out); root != "" {
			return root
		}
	}
	return parentOfWorkingDir()
}

func firstLine(out []byte) string {
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line)
}

func parentOfWorkingDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ".."
	}
	return filepath.Dir(cwd)
}
