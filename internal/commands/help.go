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
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command. Its usage lines come from the
// default registry.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "gtodo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, Help(DefaultRegistry))
	return exitcode.Success
}

// Help renders usage for every command in r.
func Help(r *Registry) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  gtodo\n      List all tasks (same as gtodo list)\n")
	for _, cmd := range r.All() {
		fmt.Fprintf(&b, "  %s\n      %s", cmd.Usage(), cmd.Synopsis())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(&b, " (alias: %s)", strings.Join(aliases, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpFooter)
	return b.String()
}

const helpFooter = `
A <ref> is a task number as shown by "gtodo list" without filters, or a task id.

Common flags:
  --config <dir>      Override config directory
  --storage <driver>  Storage driver: file, sqlite, postgres or memory
  --quiet             Suppress informational output
  --debug             Print debug logs to stderr
`
