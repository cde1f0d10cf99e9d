package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"gtodo/internal/config"
	"gtodo/internal/confirm"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes       bool
	confirmer confirm.Confirmer
}

// SetConfirmer replaces the interactive prompt (for testing).
func (c *RmCmd) SetConfirmer(cf confirm.Confirmer) {
	c.confirmer = cf
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "gtodo rm [--yes] <ref>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, code := resolveRef(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	tasks, err := svc.Tasks(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.BackendError
	}
	t, ok := findTask(tasks, id)
	if !ok {
		cfg.Log().Debug("rm: no such task", "id", id)
		return exitcode.Success
	}

	ok, err = confirmer(c.yes, c.confirmer, errOut).Confirm(fmt.Sprintf("Delete %q?", t.Text))
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if !ok {
		fmt.Fprintln(errOut, "cancelled")
		return exitcode.Success
	}

	if _, err := svc.Remove(ctx, id); err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// confirmer picks the confirmation gate for a destructive command: --yes
// skips it, otherwise an injected confirmer or a prompt on stdin.
func confirmer(yes bool, injected confirm.Confirmer, errOut io.Writer) confirm.Confirmer {
	switch {
	case yes:
		return confirm.Always(true)
	case injected != nil:
		return injected
	default:
		return confirm.NewPrompt(os.Stdin, errOut)
	}
}
