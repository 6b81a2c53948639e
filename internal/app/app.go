package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"levelup/internal/engine"
	"levelup/internal/storage"
)

// App owns the canonical document and enforces the mutate-then-persist
// contract: every mutation runs under the lock and is saved before the call
// returns. CLI, HTTP and TUI all go through here.
type App struct {
	mu   sync.Mutex
	doc  *engine.Document
	eng  *engine.Engine
	repo *storage.DocumentRepo
	log  *slog.Logger

	// Source reports where the document came from at startup
	// (remote, local or demo).
	Source string
}

func New(doc *engine.Document, repo *storage.DocumentRepo, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{
		doc:    doc,
		eng:    engine.New(doc),
		repo:   repo,
		log:    log,
		Source: storage.SourceLocal,
	}
}

// Load resolves the startup document through the remote→local→demo chain
// and persists whatever won so the local copy is warm.
func Load(ctx context.Context, repo *storage.DocumentRepo, remoteURL string, log *slog.Logger) (*App, error) {
	loader := &storage.Loader{Repo: repo, RemoteURL: remoteURL, Log: log}
	doc, source, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	a := New(doc, repo, log)
	a.Source = source
	if err := a.save(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) save(ctx context.Context) error {
	a.doc.Meta.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := a.repo.Save(ctx, storage.DataKey, a.doc); err != nil {
		return fmt.Errorf("persist document: %w", err)
	}
	return nil
}

// View runs fn read-only under the lock.
func (a *App) View(fn func(doc *engine.Document, eng *engine.Engine)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.doc, a.eng)
}

// mutate runs fn under the lock and persists on success.
func (a *App) mutate(ctx context.Context, fn func() error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	return a.save(ctx)
}

// DataJSON marshals the current document.
func (a *App) DataJSON() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return json.Marshal(a.doc)
}

// ExportJSON returns an indented export body with a refreshed updatedAt and
// the backup filename it should be saved under.
func (a *App) ExportJSON(ctx context.Context) ([]byte, string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	a.doc.Meta.UpdatedAt = now.UTC().Format(time.RFC3339)
	body, err := json.MarshalIndent(a.doc, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("marshal export: %w", err)
	}
	return body, storage.BackupFilename(now), nil
}

// ImportDocument replaces the canonical document with normalized raw JSON
// and persists it.
func (a *App) ImportDocument(ctx context.Context, raw []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.doc = engine.NormalizeRaw(raw)
	a.eng = engine.New(a.doc)
	return a.save(ctx)
}

func (a *App) ToggleChallenge(ctx context.Context, heroID, challengeID string) (engine.ToggleResult, error) {
	var res engine.ToggleResult
	err := a.mutate(ctx, func() error {
		hero, err := a.doc.Hero(heroID)
		if err != nil {
			return err
		}
		ch, err := a.doc.Challenge(challengeID)
		if err != nil {
			return err
		}
		res = a.eng.ToggleCompletion(hero, ch)
		return nil
	})
	return res, err
}

func (a *App) ApplyAutoStat(ctx context.Context, heroID string, stat engine.StatKey) error {
	return a.mutate(ctx, func() error {
		hero, err := a.doc.Hero(heroID)
		if err != nil {
			return err
		}
		return a.eng.ApplyAutoStat(hero, stat)
	})
}

func (a *App) ClaimReward(ctx context.Context, heroID, rewardID string, extraStat *engine.StatKey) (*engine.RewardsHistoryEntry, error) {
	var entry *engine.RewardsHistoryEntry
	err := a.mutate(ctx, func() error {
		hero, err := a.doc.Hero(heroID)
		if err != nil {
			return err
		}
		entry, err = a.eng.Claim(hero, rewardID, extraStat)
		return err
	})
	return entry, err
}

func (a *App) GrantWeekXP(ctx context.Context, heroID string, amount int) (int, error) {
	granted := 0
	err := a.mutate(ctx, func() error {
		hero, err := a.doc.Hero(heroID)
		if err != nil {
			return err
		}
		granted = a.eng.GrantWeekXP(hero, amount)
		return nil
	})
	return granted, err
}

func (a *App) ResetWeek(ctx context.Context, heroID string) error {
	return a.mutate(ctx, func() error {
		hero, err := a.doc.Hero(heroID)
		if err != nil {
			return err
		}
		a.eng.ResetWeek(hero)
		return nil
	})
}

func (a *App) MarkBossDefeated(ctx context.Context, heroID, eventID string) error {
	return a.mutate(ctx, func() error {
		hero, err := a.doc.Hero(heroID)
		if err != nil {
			return err
		}
		ev, err := a.doc.Event(eventID)
		if err != nil {
			return err
		}
		return a.eng.MarkBossDefeated(hero, ev)
	})
}

func (a *App) ClaimStoreItem(ctx context.Context, heroID, itemID string) (*engine.StoreClaim, error) {
	var claim *engine.StoreClaim
	err := a.mutate(ctx, func() error {
		hero, err := a.doc.Hero(heroID)
		if err != nil {
			return err
		}
		item, err := a.doc.StoreItem(itemID)
		if err != nil {
			return err
		}
		claim, err = a.eng.ClaimStoreItem(hero, item)
		return err
	})
	return claim, err
}
