package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const tinyCatalog = `{
	"version": 1,
	"domains": {"shell": {"intents": {"find": {"patterns": ["\\bfind\\b"]}}}},
	"templates": [{"id":"shell.find","domain":"shell","intent":"find","text":"find {path}"}]
}`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(tinyCatalog), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if _, ok := s.Domains["shell"]; !ok {
		t.Fatalf("shell domain missing")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestProviderSwap(t *testing.T) {
	a, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := Parse([]byte(tinyCatalog))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := NewProvider(a, zerolog.Nop())
	if p.Snapshot() != a {
		t.Fatalf("expected initial snapshot")
	}
	p.Swap(b)
	if p.Snapshot() != b {
		t.Fatalf("expected swapped snapshot")
	}
}

func TestProviderWatchReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(tinyCatalog), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	initial, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	p := NewProvider(initial, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := p.Watch(ctx, path); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	// a broken edit must keep the previous snapshot live
	if err := os.WriteFile(path, []byte(`{"version":`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(300 * time.Millisecond)
	if _, ok := p.Snapshot().Domains["shell"]; !ok {
		t.Fatalf("broken reload replaced the snapshot")
	}

	// a valid edit swaps in the new snapshot
	updated := `{
		"version": 1,
		"domains": {"docker": {"intents": {"ps": {"patterns": ["\\bps\\b"]}}}},
		"templates": [{"id":"docker.ps","domain":"docker","intent":"ps","text":"docker ps"}]
	}`
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := p.Snapshot().Domains["docker"]; ok {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("watch did not reload the catalog")
}
