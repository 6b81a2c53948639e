package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"levelup/internal/engine"
)

// RemoteTimeout is the hard budget for a remote document fetch.
const RemoteTimeout = 3500 * time.Millisecond

// Loader resolves the startup document: remote first, then the local copy,
// then the seeded demo. The chain order is a contract; a flaky remote must
// never take the app down.
type Loader struct {
	Repo      *DocumentRepo
	RemoteURL string
	Client    *http.Client
	Log       *slog.Logger
}

// Source values reported by Load.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
	SourceDemo   = "demo"
)

func (l *Loader) client() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return http.DefaultClient
}

func (l *Loader) log() *slog.Logger {
	if l.Log != nil {
		return l.Log
	}
	return slog.Default()
}

// FetchRemote pulls and normalizes the remote document. A cache-buster query
// param defeats intermediary caching, mirroring how browser clients fetch
// the shared JSON.
func (l *Loader) FetchRemote(ctx context.Context) (*engine.Document, error) {
	if l.RemoteURL == "" {
		return nil, fmt.Errorf("no remote url configured")
	}

	u, err := url.Parse(l.RemoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote url: %w", err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, RemoteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build remote request: %w", err)
	}
	resp, err := l.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch remote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch remote: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read remote body: %w", err)
	}
	// A body that is not JSON is a fetch failure, same as a bad status: the
	// forgiving normalizer would degrade it to a seeded demo document and the
	// chain must fall back to the local copy instead.
	var probe any
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("decode remote body: %w", err)
	}
	return engine.NormalizeRaw(body), nil
}

// Load resolves the document through the fallback chain and reports which
// source won.
func (l *Loader) Load(ctx context.Context) (*engine.Document, string, error) {
	local, err := l.Repo.Load(ctx, DataKey)
	if err != nil {
		return nil, "", err
	}

	if l.RemoteURL != "" {
		remote, err := l.FetchRemote(ctx)
		if err == nil {
			MergeAssignedChallenges(remote, local)
			return remote, SourceRemote, nil
		}
		l.log().Warn("remote fetch failed, falling back to local", "url", l.RemoteURL, "err", err)
	}

	if local != nil {
		return local, SourceLocal, nil
	}
	return engine.DemoDocument(), SourceDemo, nil
}

// MergeAssignedChallenges carries each hero's locally-assigned challenge
// list into a freshly fetched remote document. Local wins for this one
// field only; everything else follows the remote copy.
func MergeAssignedChallenges(remote, local *engine.Document) {
	if remote == nil || local == nil {
		return
	}
	for _, rh := range remote.Heroes {
		lh, err := local.Hero(rh.ID)
		if err != nil {
			continue
		}
		if len(lh.AssignedChallenges) > 0 {
			rh.AssignedChallenges = append([]string(nil), lh.AssignedChallenges...)
		}
	}
}
