package source

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// fetchTimeout bounds the network fetch. Diff commands run unbounded.
const fetchTimeout = 60 * time.Second

// Git runs git in a working tree.
type Git struct {
	Dir          string
	FetchTimeout time.Duration // default 60s
}

// NewGit returns a Git bound to dir.
func NewGit(dir string) *Git {
	return &Git{Dir: dir, FetchTimeout: fetchTimeout}
}

// Fetch is best effort, so it is the only command with a deadline.
func (g *Git) Fetch(ctx context.Context, target string) error {
	timeout := g.FetchTimeout
	if timeout <= 0 {
		timeout = fetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := g.run(ctx, "fetch", remote, target)
	return err
}

func (g *Git) ChangedPaths(ctx context.Context, ref string) ([]string, error) {
	out, err := g.run(ctx, "diff", "--name-only", ref)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (g *Git) DiffText(ctx context.Context, ref string) (string, error) {
	return g.run(ctx, "diff", ref)
}

// run executes git and returns stdout. stderr is folded into the error.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	cmd.Env = sanitizedEnv()
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", args[0], err)
		}
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
	}
	return string(out), nil
}

// splitLines splits command output into non-empty lines.
func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
