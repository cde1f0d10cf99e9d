package cli

import (
	"context"
	"errors"

	"gtodo/internal/backend"
	"gtodo/internal/config"
	"gtodo/internal/persist"
	"gtodo/internal/service"
	"gtodo/internal/session"
	"gtodo/internal/status"
	"gtodo/internal/storage"
)

// OpenSession is the default ServiceFactory: it opens the configured storage
// driver, loads the collection and returns a session that releases the
// driver on Close.
func OpenSession(ctx context.Context, cfg *config.Config) (service.Service, error) {
	settings := cfg.Resolved()
	log := cfg.Log()

	be, err := backend.Open(ctx, settings.Storage)
	if err != nil {
		return nil, err
	}
	log.Debug("storage opened", "driver", settings.Storage.Driver, "key", settings.Storage.Key)

	board := status.NewBoard(settings.Status.ClearAfter)
	board.Subscribe(func(m status.Message) {
		if m.Text != "" {
			log.Debug("status", "kind", m.Kind, "text", m.Text)
		}
	})

	adapter := persist.New(be,
		persist.WithKey(settings.Storage.Key),
		persist.WithTimeout(settings.Persist.Timeout),
		persist.WithRetryInterval(settings.Persist.RetryInterval),
		persist.WithStatus(board),
		persist.WithLogger(log),
	)

	return &storedSession{
		Session: session.Open(ctx, adapter),
		backend: be,
		board:   board,
	}, nil
}

// storedSession owns the storage driver and status board behind a session.
type storedSession struct {
	*session.Session
	backend storage.Backend
	board   *status.Board
}

// Close flushes the session, then releases the board and the driver.
func (s *storedSession) Close(ctx context.Context) error {
	err := s.Session.Close(ctx)
	s.board.Stop()
	return errors.Join(err, s.backend.Close())
}

// Subscribe reports status changes made after the initial load.
func (s *storedSession) Subscribe(fn func(status.Message)) {
	s.board.Subscribe(fn)
}
