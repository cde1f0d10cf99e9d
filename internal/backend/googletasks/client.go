// Package googletasks implements mirror.Remote using the Google Tasks API.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"gtodo/internal/config"
	"gtodo/internal/mirror"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"
)

var (
	// ErrUnauthorized is returned when the stored token is rejected.
	ErrUnauthorized = errors.New("token expired or revoked (run: gtodo login)")

	// ErrNotFound is returned for unknown lists or tasks.
	ErrNotFound = mirror.ErrNotFound

	// ErrAmbiguous is returned when a list name matches several lists.
	ErrAmbiguous = mirror.ErrAmbiguous
)

// Client implements mirror.Remote using Google Tasks API.
type Client struct {
	svc *tasks.Service
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oc, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	// Token source refreshes automatically.
	return NewWithHTTPClient(ctx, oauth2.NewClient(ctx, oc.TokenSource(ctx, token)))
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// DefaultList returns the user's default task list.
func (c *Client) DefaultList(ctx context.Context) (mirror.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	list, err := c.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return mirror.TaskList{}, wrapError(err)
	}

	return mirror.TaskList{
		ID:        DefaultListID,
		Title:     list.Title,
		IsDefault: true,
	}, nil
}

// ListLists returns all task lists in API order.
func (c *Client) ListLists(ctx context.Context) ([]mirror.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	// The default list's real ID is needed to mark it in the listing.
	defaultList, err := c.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}

	var result []mirror.TaskList
	err = c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			isDefault := list.Id == defaultList.Id
			id := list.Id
			if isDefault {
				id = DefaultListID
			}
			result = append(result, mirror.TaskList{
				ID:        id,
				Title:     list.Title,
				IsDefault: isDefault,
			})
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}

	return result, nil
}

// ResolveList finds a list by name (case-insensitive, trimmed).
func (c *Client) ResolveList(ctx context.Context, name string) (mirror.TaskList, error) {
	name = strings.TrimSpace(name)
	nameLower := strings.ToLower(name)

	lists, err := c.ListLists(ctx)
	if err != nil {
		return mirror.TaskList{}, err
	}

	var matches []mirror.TaskList
	for _, list := range lists {
		if strings.ToLower(strings.TrimSpace(list.Title)) == nameLower {
			matches = append(matches, list)
		}
	}

	switch len(matches) {
	case 0:
		return mirror.TaskList{}, fmt.Errorf("list %s: %w", name, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return mirror.TaskList{}, fmt.Errorf("%w: %s", ErrAmbiguous, name)
	}
}

// ListOpenTasks returns one page of open tasks for a list.
func (c *Client) ListOpenTasks(ctx context.Context, listID string, page int) ([]mirror.RemoteTask, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := c.svc.Tasks.List(listID).
		MaxResults(mirror.PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Context(ctx)

	// The API pages with tokens, so walk forward to the requested page.
	currentPage := 1
	var pageToken string

	for currentPage < page {
		resp, err := call.PageToken(pageToken).Do()
		if err != nil {
			return nil, wrapError(err)
		}
		if resp.NextPageToken == "" {
			return nil, nil
		}
		pageToken = resp.NextPageToken
		currentPage++
	}

	resp, err := call.PageToken(pageToken).Do()
	if err != nil {
		return nil, wrapError(err)
	}

	result := make([]mirror.RemoteTask, 0, len(resp.Items))
	for _, t := range resp.Items {
		result = append(result, mirror.RemoteTask{
			ID:       t.Id,
			Title:    t.Title,
			Position: t.Position,
			Status:   t.Status,
		})
	}

	return result, nil
}

// CreateTask creates a new task in the specified list.
func (c *Client) CreateTask(ctx context.Context, listID, title string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Insert(listID, &tasks.Task{Title: title}).Context(ctx).Do()
	return wrapError(err)
}

// CompleteTask marks a task as completed.
func (c *Client) CompleteTask(ctx context.Context, listID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Patch(listID, taskID, &tasks.Task{
		Status: "completed",
	}).Context(ctx).Do()
	return wrapError(err)
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	errStr := err.Error()
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return ErrUnauthorized
	}
	if strings.Contains(errStr, "404") {
		return ErrNotFound
	}

	return err
}
