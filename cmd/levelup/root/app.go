package root

import (
	"context"
	"log/slog"
	"os"

	"levelup/internal/app"
	"levelup/internal/storage"
)

// openApp resolves the document through remote→local→demo and returns a
// ready App. LEVELUP_DB overrides the database path, LEVELUP_REMOTE_URL
// enables the remote-first load.
func openApp(ctx context.Context) (*app.App, func(), error) {
	path, err := storage.ResolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	a, err := app.Load(ctx, storage.NewDocumentRepo(db), os.Getenv("LEVELUP_REMOTE_URL"), log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return a, cleanup, nil
}
