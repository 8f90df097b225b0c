package build

import (
	"context"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/wheelforge/wheelforge/pkg/util/console"
)

// ExecCommand drives git and cibuildwheel as subprocesses.
type ExecCommand struct{}

func NewExecCommand() *ExecCommand {
	return &ExecCommand{}
}

func (c *ExecCommand) Checkout(ctx context.Context, repo string, tag string, dir string) error {
	return c.exec(ctx, nil, "git", "clone", "--depth=1", "--branch", tag, repo, dir)
}

func (c *ExecCommand) BuildWheels(ctx context.Context, dir string, outputDir string, env map[string]string) error {
	return c.exec(ctx, env, "cibuildwheel", "--platform", "windows", "--output-dir", outputDir, dir)
}

func (c *ExecCommand) exec(ctx context.Context, env map[string]string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), envPairs(env)...)

	console.Debug("$ " + strings.Join(cmd.Args, " "))
	return cmd.Run()
}

func envPairs(env map[string]string) []string {
	pairs := make([]string, 0, len(env))
	for k, v := range env {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return pairs
}
