package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"gtodo/internal/backend/googletasks"
	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/mirror"
	"gtodo/internal/service"
)

// errAuth marks failures that mean the user has to (re)authenticate.
var errAuth = errors.New("auth error")

// NewRemote connects to the mirror target. Tests replace it with a fake.
var NewRemote = func(ctx context.Context, cfg *config.Config) (mirror.Remote, error) {
	if !cfg.HasOAuthClient() {
		return nil, fmt.Errorf("%w: oauth_client.json not found in %s", errAuth, cfg.Dir)
	}
	if !cfg.HasToken() {
		return nil, fmt.Errorf("%w: not logged in (run: gtodo login)", errAuth)
	}
	client, err := googletasks.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errAuth, err)
	}
	return client, nil
}

func init() {
	Register(&SyncCmd{})
}

// SyncCmd implements the sync command: a one-way push of the local
// collection into Google Tasks.
type SyncCmd struct {
	listName string
}

// SetListName sets the list name (for testing).
func (c *SyncCmd) SetListName(name string) {
	c.listName = name
}

func (c *SyncCmd) Name() string      { return "sync" }
func (c *SyncCmd) Aliases() []string { return []string{"push"} }
func (c *SyncCmd) Synopsis() string  { return "Push tasks to Google Tasks" }
func (c *SyncCmd) Usage() string     { return "gtodo sync [--list <list-name>]" }
func (c *SyncCmd) NeedsStore() bool  { return true }

func (c *SyncCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *SyncCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	listName := c.listName
	if listName == "" {
		listName = cfg.Resolved().Google.List
	}

	remote, err := NewRemote(ctx, cfg)
	if err != nil {
		if errors.Is(err, errAuth) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	tasks, err := svc.Tasks(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.BackendError
	}

	rep, err := mirror.Push(ctx, remote, listName, tasks)
	if err != nil {
		var listErr *mirror.ListError
		isListErr := errors.As(err, &listErr)
		switch {
		case errors.Is(err, googletasks.ErrUnauthorized):
			fmt.Fprintf(errOut, "error: auth error: %v\n", err)
			return exitcode.AuthError
		case isListErr && errors.Is(listErr.Err, mirror.ErrNotFound):
			fmt.Fprintf(errOut, "error: list not found: %s\n", listName)
			return exitcode.UserError
		case isListErr && errors.Is(listErr.Err, mirror.ErrAmbiguous):
			fmt.Fprintf(errOut, "error: ambiguous list name: %s\n", listName)
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	cfg.Log().Info("mirror pushed", "list", rep.List.ID, "created", rep.Created, "completed", rep.Completed)
	if !cfg.Quiet {
		fmt.Fprintln(out, rep)
	}
	return exitcode.Success
}
