package language

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tamil.yaml")
	data := "name: Tamil\nmap:\n  \"க\": KA\n  \"ம\": ma\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	m, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if m.Name() != "tamil" {
		t.Fatalf("Name() = %q, want tamil", m.Name())
	}
	if got := m.Romanize("கமx"); got != "kama" {
		t.Fatalf("Romanize = %q, want kama", got)
	}
}

func TestParseTableRejectsMultiCharKeys(t *testing.T) {
	if _, err := ParseTable([]byte("map:\n  ab: x\n")); err == nil {
		t.Fatal("expected error for multi-character key")
	}
	if _, err := ParseTable([]byte("name: empty\n")); err == nil {
		t.Fatal("expected error for empty table")
	}
	if _, err := ParseTable([]byte("map: [\n")); err == nil {
		t.Fatal("expected YAML error")
	}
}
