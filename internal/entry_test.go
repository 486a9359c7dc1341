package internal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Vikram2Agrawal/notion-sync/internal/journal"
)

// testConfig returns a valid config pointing at temp dirs, with no source
// credentials.
func testConfig(t *testing.T) *Config {
	t.Helper()
	root := t.TempDir()

	cfg := NewDefaultConfig()
	cfg.Notion.Token = ""
	cfg.Notion.Databases = DatabaseIDs{}
	cfg.Output.CacheDir = filepath.Join(root, "cache")
	cfg.Output.AssetsDir = filepath.Join(root, "assets")
	cfg.Journal.Path = filepath.Join(root, "journal.db")
	return cfg
}

func TestRunWithoutCredentialsWritesPlaceholder(t *testing.T) {
	cfg := testConfig(t)

	if err := Run(context.Background(), WithConfig(cfg)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Output.CacheDir, "meta.json"))
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	var meta struct {
		SchemaVersion string `json:"schemaVersion"`
		Placeholder   bool   `json:"placeholder"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("unmarshal meta: %v", err)
	}
	if !meta.Placeholder {
		t.Error("meta should be flagged as placeholder")
	}
	if meta.SchemaVersion != cfg.Output.SchemaVersion {
		t.Errorf("schemaVersion = %q, want %q", meta.SchemaVersion, cfg.Output.SchemaVersion)
	}

	for _, name := range []string{"organizations.json", "involvements.json", "projects.json", "skills.json"} {
		data, err := os.ReadFile(filepath.Join(cfg.Output.CacheDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			t.Fatalf("%s is not a JSON array: %v", name, err)
		}
		if len(items) != 0 {
			t.Errorf("%s = %d items, want empty", name, len(items))
		}
	}
}

func TestRunJournalsPlaceholderStatus(t *testing.T) {
	cfg := testConfig(t)

	if err := Run(context.Background(), WithConfig(cfg)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	db, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer db.Close()

	runs, err := db.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].Status != journal.StatusPlaceholder {
		t.Errorf("status = %q, want %q", runs[0].Status, journal.StatusPlaceholder)
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}
