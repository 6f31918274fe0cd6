package recall

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadNoticesEmptyPath(t *testing.T) {
	notices, err := LoadNotices("")
	if err != nil {
		t.Fatalf("LoadNotices() error = %v", err)
	}
	if len(notices) != 0 {
		t.Fatalf("expected empty feed, got %d notices", len(notices))
	}
}

func TestLoadNoticesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.json")
	payload := `[{"product_name":"Oat Bar","manufacturer":"Acme","lot_number":"L42","recall_date":"2026-08-01","reason":"undeclared peanuts"}]`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write feed: %v", err)
	}

	notices, err := LoadNotices(path)
	if err != nil {
		t.Fatalf("LoadNotices() error = %v", err)
	}
	if len(notices) != 1 || notices[0].ProductName != "Oat Bar" || notices[0].Reason != "undeclared peanuts" {
		t.Fatalf("unexpected notices: %+v", notices)
	}
}

func TestLoadNoticesMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.json")
	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatalf("write feed: %v", err)
	}

	if _, err := LoadNotices(path); err == nil {
		t.Fatalf("expected decode error")
	}
}
