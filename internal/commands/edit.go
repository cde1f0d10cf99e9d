package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
	"gtodo/internal/task"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's text" }
func (c *EditCmd) Usage() string     { return "gtodo edit <ref> <text...>" }
func (c *EditCmd) NeedsStore() bool  { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task reference required")
		return exitcode.UserError
	}

	// Blank text is rejected before the reference is even looked at.
	text := strings.Join(args[1:], " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: task text cannot be empty")
		return exitcode.UserError
	}

	id, code := resolveRef(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	_, changed, err := svc.Edit(ctx, id, text)
	if err != nil {
		if task.IsValidation(err) {
			fmt.Fprintln(errOut, "error: task text cannot be empty")
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.BackendError
	}
	if !changed {
		cfg.Log().Debug("edit: no such task", "id", id)
		return exitcode.Success
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
