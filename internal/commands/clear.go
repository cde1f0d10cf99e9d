package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/confirm"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
	"gtodo/internal/store"
	"gtodo/internal/view"
)

func init() {
	Register(&ClearCmd{})
}

// ClearCmd implements the clear command.
type ClearCmd struct {
	yes       bool
	confirmer confirm.Confirmer
}

// SetConfirmer replaces the interactive prompt (for testing).
func (c *ClearCmd) SetConfirmer(cf confirm.Confirmer) {
	c.confirmer = cf
}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return nil }
func (c *ClearCmd) Synopsis() string  { return "Delete all completed tasks" }
func (c *ClearCmd) Usage() string     { return "gtodo clear [--yes]" }
func (c *ClearCmd) NeedsStore() bool  { return true }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	tasks, err := svc.Tasks(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.BackendError
	}

	n := view.Compute(tasks).Completed
	if n == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, store.ErrNothingToClear)
		}
		return exitcode.Success
	}

	ok, err := confirmer(c.yes, c.confirmer, errOut).Confirm(fmt.Sprintf("Delete %d completed %s?", n, plural(n, "task")))
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if !ok {
		fmt.Fprintln(errOut, "cancelled")
		return exitcode.Success
	}

	removed, err := svc.ClearCompleted(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "removed %d\n", removed)
	}
	return exitcode.Success
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
