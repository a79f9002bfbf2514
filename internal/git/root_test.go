package git_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/gerdiproject/harvester-specs/internal/git"
)

type fakeRunner struct {
	out  string
	err  error
	args []string
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.args = append([]string{name}, args...)
	return []byte(f.out), f.err
}

func TestResolveProjectRoot_UsesGitOutput(t *testing.T) {
	runner := &fakeRunner{out: "/work/faostat-harvester\n"}

	root := git.ResolveProjectRoot(context.Background(), runner)
	if root != "/work/faostat-harvester" {
		t.Errorf("expected git root, got '%s'", root)
	}
	want := []string{"git", "rev-parse", "--show-toplevel"}
	if len(runner.args) != len(want) {
		t.Fatalf("unexpected command %v", runner.args)
	}
	for i := range want {
		if runner.args[i] != want[i] {
			t.Errorf("unexpected command %v", runner.args)
		}
	}
}

func TestResolveProjectRoot_FallsBackOnError(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{err: errors.New("exit status 128")}

	root := git.ResolveProjectRoot(context.Background(), runner)
	if root != filepath.Dir(cwd) {
		t.Errorf("expected parent of cwd '%s', got '%s'", filepath.Dir(cwd), root)
	}
}

func TestResolveProjectRoot_FallsBackOnEmptyOutput(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	root := git.ResolveProjectRoot(context.Background(), &fakeRunner{out: "\n"})
	if root != filepath.Dir(cwd) {
		t.Errorf("expected parent of cwd '%s', got '%s'", filepath.Dir(cwd), root)
	}
}

func TestResolveProjectRoot_RealGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	if out, err := exec.Command("git", "init", dir).CombinedOutput(); err != nil {
		t.Skipf("git init failed: %s", out)
	}
	sub := filepath.Join(dir, "bamboo-specs")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}

	root := git.ResolveProjectRoot(context.Background(), git.ExecRunner{Dir: sub})

	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(root)
	if got != want {
		t.Errorf("expected root '%s', got '%s'", want, got)
	}
}
