package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"levelup/internal/engine"
)

func newTestRepo(t *testing.T) *DocumentRepo {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	db, err := Open(ctx, filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewDocumentRepo(db)
}

func TestDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if doc, err := repo.Load(ctx, DataKey); err != nil || doc != nil {
		t.Fatalf("empty slot: doc=%v err=%v", doc, err)
	}

	doc := engine.DemoDocument()
	doc.Heroes[0].XP = 77
	if err := repo.Save(ctx, DataKey, doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx, DataKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatalf("expected document")
	}
	h, err := got.Hero(doc.Heroes[0].ID)
	if err != nil {
		t.Fatalf("hero: %v", err)
	}
	if h.XP != 77 {
		t.Fatalf("xp=%d, want 77", h.XP)
	}
	if h.Stats.RES != doc.Heroes[0].Stats.RES {
		t.Fatalf("stats lost in round trip")
	}
}

func TestSnapshotPruning(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	doc := engine.DemoDocument()

	for i := 0; i < snapshotKeep+5; i++ {
		doc.Heroes[0].XP = i
		if err := repo.Save(ctx, DataKey, doc); err != nil {
			t.Fatalf("save #%d: %v", i, err)
		}
	}

	n, err := repo.SnapshotCount(ctx, DataKey)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != snapshotKeep {
		t.Fatalf("snapshots=%d, want %d", n, snapshotKeep)
	}
}

func TestBackupFilename(t *testing.T) {
	ts := time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)
	if got := BackupFilename(ts); got != "LevelUp_backup_2026-03-02_1015.json" {
		t.Fatalf("filename=%q", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc := engine.DemoDocument()
	doc.Heroes[1].Medals = 4

	path, err := ExportFile(doc, dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "LevelUp_backup_") {
		t.Fatalf("unexpected export name %q", path)
	}

	got, err := ImportFile(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	h, err := got.Hero(doc.Heroes[1].ID)
	if err != nil {
		t.Fatalf("hero: %v", err)
	}
	if h.Medals != 4 {
		t.Fatalf("medals=%d, want 4", h.Medals)
	}
	if len(got.Challenges) != len(doc.Challenges) {
		t.Fatalf("challenges=%d, want %d", len(got.Challenges), len(doc.Challenges))
	}
}

func TestLoaderPrefersRemote(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	local := engine.DemoDocument()
	local.Heroes[0].AssignedChallenges = []string{"ch-tech-02"}
	if err := repo.Save(ctx, DataKey, local); err != nil {
		t.Fatalf("save local: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("t") == "" {
			t.Errorf("missing cache buster")
		}
		w.Write([]byte(`{"meta":{"seededDemo":true,"seededEvents":true},"heroes":[{"id":"h1","name":"Eddy","level":5}]}`))
	}))
	defer srv.Close()

	loader := &Loader{Repo: repo, RemoteURL: srv.URL}
	doc, source, err := loader.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if source != SourceRemote {
		t.Fatalf("source=%q, want remote", source)
	}
	h, err := doc.Hero("h1")
	if err != nil {
		t.Fatalf("hero: %v", err)
	}
	if h.Level != 5 {
		t.Fatalf("level=%d, want 5 (remote wins)", h.Level)
	}
	// Local assignment survives the refresh.
	if len(h.AssignedChallenges) != 1 || h.AssignedChallenges[0] != "ch-tech-02" {
		t.Fatalf("assignedChallenges=%v, want local copy", h.AssignedChallenges)
	}
}

func TestLoaderFallsBackToLocalThenDemo(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	// No local copy yet: demo.
	loader := &Loader{Repo: repo, RemoteURL: srv.URL}
	doc, source, err := loader.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if source != SourceDemo {
		t.Fatalf("source=%q, want demo", source)
	}
	if len(doc.Heroes) == 0 {
		t.Fatalf("demo document should have heroes")
	}

	// With a local copy: local.
	local := engine.DemoDocument()
	local.Heroes[0].Name = "Guardado"
	if err := repo.Save(ctx, DataKey, local); err != nil {
		t.Fatalf("save: %v", err)
	}
	doc, source, err = loader.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if source != SourceLocal {
		t.Fatalf("source=%q, want local", source)
	}
	if doc.Heroes[0].Name != "Guardado" {
		t.Fatalf("name=%q, want local copy", doc.Heroes[0].Name)
	}
}

func TestLoaderRejectsNonJSONRemoteBody(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	local := engine.DemoDocument()
	local.Heroes[0].Name = "Guardado"
	if err := repo.Save(ctx, DataKey, local); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A proxy error page with a 200 status must not win over the local copy.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>502 bad gateway</body></html>"))
	}))
	defer srv.Close()

	loader := &Loader{Repo: repo, RemoteURL: srv.URL}
	doc, source, err := loader.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if source != SourceLocal {
		t.Fatalf("source=%q, want local", source)
	}
	if doc.Heroes[0].Name != "Guardado" {
		t.Fatalf("name=%q, want local copy", doc.Heroes[0].Name)
	}
}

func TestRemoteTimeoutEnforced(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(RemoteTimeout + 500*time.Millisecond)
	}))
	defer srv.Close()

	loader := &Loader{Repo: repo, RemoteURL: srv.URL}
	start := time.Now()
	_, source, err := loader.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if source == SourceRemote {
		t.Fatalf("slow remote must not win")
	}
	if elapsed := time.Since(start); elapsed > RemoteTimeout+time.Second {
		t.Fatalf("timeout not enforced, took %v", elapsed)
	}
}
