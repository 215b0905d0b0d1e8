package gitops

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Author identifies who commits.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Init initializes a new git repository at dir, echoing git's output to out.
func Init(dir string, out io.Writer) error {
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

func git(dir string, author Author, args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME="+author.Name,
		"GIT_AUTHOR_EMAIL="+author.Email,
		"GIT_COMMITTER_NAME="+author.Name,
		"GIT_COMMITTER_EMAIL="+author.Email,
	)
	return cmd
}

// Commit stages paths (relative to dir) and commits them. Returns the short
// commit hash, or "" when the paths had no changes.
func Commit(dir, message string, author Author, paths ...string) (string, error) {
	add := git(dir, author, append([]string{"add", "--"}, paths...)...)
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// Exit status 1 means the staged paths are unchanged.
	diff := git(dir, author, append([]string{"diff", "--cached", "--quiet", "--"}, paths...)...)
	if err := diff.Run(); err == nil {
		return "", nil
	}

	args := append([]string{"commit", "-m", message, "--"}, paths...)
	commit := git(dir, author, args...)
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	rev := git(dir, author, "rev-parse", "--short", "HEAD")
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}
