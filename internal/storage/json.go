package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Chain-Defenders/forge-defender/internal/domain"
)

// JSONStorage writes run summaries as indented JSON files.
type JSONStorage struct{}

// NewJSONStorage returns a Storage that writes JSON summaries.
func NewJSONStorage() *JSONStorage {
	return &JSONStorage{}
}

// Save writes the catalog's current state to path.
func (s *JSONStorage) Save(path string, catalog *domain.Catalog, duration time.Duration) error {
	summary := Snapshot(catalog, duration)

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
