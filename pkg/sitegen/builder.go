package sitegen

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/go-pkgz/lgr"
)

// CommandBuilder shells out to the external static-site build. The core's
// only contract with the build is the article-array JSON file it reads, so
// the command is fully opaque here.
type CommandBuilder struct {
	command string
}

// NewCommandBuilder creates a builder running the given command line
func NewCommandBuilder(command string) *CommandBuilder {
	return &CommandBuilder{command: command}
}

// Build runs the configured command, streaming its output through
func (b *CommandBuilder) Build(ctx context.Context) error {
	parts := strings.Fields(b.command)
	if len(parts) == 0 {
		return fmt.Errorf("empty build command")
	}

	lgr.Printf("[INFO] running site build: %s", b.command)

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...) //nolint:gosec // command comes from config
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("site build failed: %w", err)
	}
	return nil
}
