package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"levelup/internal/engine"
)

// BackupFilename builds the export filename for the given moment, e.g.
// LevelUp_backup_2026-03-02_1015.json.
func BackupFilename(t time.Time) string {
	return fmt.Sprintf("LevelUp_backup_%s.json", t.Format("2006-01-02_1504"))
}

// ExportFile writes the document to dir with a refreshed updatedAt stamp and
// returns the full path.
func ExportFile(doc *engine.Document, dir string) (string, error) {
	now := time.Now()
	doc.Meta.UpdatedAt = now.UTC().Format(time.RFC3339)

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}

	path := filepath.Join(dir, BackupFilename(now))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// ImportFile reads arbitrary JSON from path and normalizes it into a usable
// document. The normalizer stamps meta.updatedAt when the file lacks one.
func ImportFile(path string) (*engine.Document, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	return engine.NormalizeRaw(body), nil
}
