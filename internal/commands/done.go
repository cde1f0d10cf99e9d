package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It flips completion, so running it
// on a completed task reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string     { return "gtodo done <ref>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, code := resolveRef(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	t, changed, err := svc.Toggle(ctx, id)
	if err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.BackendError
	}
	if !changed {
		cfg.Log().Debug("toggle: no such task", "id", id)
		return exitcode.Success
	}
	cfg.Log().Debug("task toggled", "id", t.ID, "completed", t.Completed)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// resolveRef parses args[0] as a task reference and resolves it against
// the current collection. On failure it reports to errOut and returns a
// non-zero exit code.
func resolveRef(ctx context.Context, svc service.Service, args []string, errOut io.Writer) (string, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return "", exitcode.UserError
	}

	tasks, err := svc.Tasks(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return "", exitcode.BackendError
	}

	id, err := ref.Resolve(tasks)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return "", exitcode.UserError
	}
	return id, exitcode.Success
}
