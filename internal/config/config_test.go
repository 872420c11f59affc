package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writePublishers(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "publishers.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}
	return path
}

func TestLoadPublishers(t *testing.T) {
	list, err := LoadPublishers(writePublishers(t, "Ubisoft\n\n# a comment\nDevolver Digital\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.MatchAll() {
		t.Fatalf("did not expect wildcard")
	}
	if list.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", list.Len())
	}
	if !list.Matches("ubisoft") || !list.Matches("UBISOFT") {
		t.Fatalf("expected case-insensitive match for ubisoft")
	}
	if !list.Matches("Devolver Digital") {
		t.Fatalf("expected match for Devolver Digital")
	}
	if list.Matches("EA") {
		t.Fatalf("did not expect match for EA")
	}
}

func TestLoadPublishersWildcard(t *testing.T) {
	list, err := LoadPublishers(writePublishers(t, "ALL\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !list.MatchAll() {
		t.Fatalf("expected wildcard list")
	}
	if !list.Matches("anyone at all") {
		t.Fatalf("wildcard list should match every publisher")
	}
}

func TestLoadPublishersMissingFile(t *testing.T) {
	_, err := LoadPublishers(filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadPublishersEmptyFile(t *testing.T) {
	list, err := LoadPublishers(writePublishers(t, "\n# only comments\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.MatchAll() || list.Len() != 0 {
		t.Fatalf("expected empty allow-list, got %+v", list)
	}
	if list.Matches("Ubisoft") {
		t.Fatalf("empty allow-list must match nothing")
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("PRIMELOOTER_PUBLISHERS", "/tmp/pubs.txt")
	t.Setenv("PRIMELOOTER_COOKIES", "")
	t.Setenv("PRIMELOOTER_CLAIM_TIMEOUT", "45")

	cfg := DefaultConfig()
	if cfg.PublishersPath != "/tmp/pubs.txt" {
		t.Fatalf("unexpected publishers path: %q", cfg.PublishersPath)
	}
	if cfg.CookiesPath != "cookies.txt" {
		t.Fatalf("unexpected cookies path: %q", cfg.CookiesPath)
	}
	if cfg.ClaimTimeoutSeconds != 45 {
		t.Fatalf("unexpected claim timeout: %d", cfg.ClaimTimeoutSeconds)
	}
}
