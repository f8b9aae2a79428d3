package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/auto-cv/jobscrape/pkg/models"
)

func openTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(Options{Dir: dir})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func testRecord(n int) *models.JobPosting {
	return &models.JobPosting{
		URL:            fmt.Sprintf("https://example.com/jobs/%d", n),
		Title:          fmt.Sprintf("Engineer %d", n),
		Company:        "Acme",
		RawDescription: "Build things",
		ExtractedAt:    time.Now().UTC(),
	}
}

func TestKey_Deterministic(t *testing.T) {
	url := "https://example.com/jobs/42"
	if Key(url) != Key(url) {
		t.Error("Key is not deterministic for identical input")
	}
	if Key(url) == Key(url+"x") {
		t.Error("distinct URLs produced the same key")
	}
}

func TestStore_ReloadIdempotent(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			dir := t.TempDir()

			s := openTestStore(t, dir)
			urls := make([]string, 0, n)
			for i := 0; i < n; i++ {
				rec := testRecord(i)
				urls = append(urls, rec.URL)
				if err := s.Put(rec, false); err != nil {
					t.Fatalf("Put failed: %v", err)
				}
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			reloaded := openTestStore(t, dir)
			defer reloaded.Close()

			if reloaded.Len() != n {
				t.Fatalf("reloaded store has %d entries, want %d", reloaded.Len(), n)
			}
			for _, url := range urls {
				if !reloaded.Exists(url) {
					t.Errorf("Exists(%q) false after reload", url)
				}
				rec, ok := reloaded.Get(url)
				if !ok {
					t.Errorf("Get(%q) missed after reload", url)
					continue
				}
				if rec.URL != url {
					t.Errorf("reloaded record has URL %q, want %q", rec.URL, url)
				}
			}
		})
	}
}

func TestStore_DuplicateInsertRefused(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	defer s.Close()

	first := testRecord(1)
	if err := s.Put(first, false); err != nil {
		t.Fatalf("first Put failed: %v", err)
	}

	second := testRecord(1)
	second.Title = "Replacement"
	err := s.Put(second, false)
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("second Put error = %v, want ErrDuplicateKey", err)
	}

	if s.Len() != 1 {
		t.Errorf("store has %d entries, want 1", s.Len())
	}
	rec, _ := s.Get(first.URL)
	if rec.Title != "Engineer 1" {
		t.Errorf("stored title = %q, want the first insert to win", rec.Title)
	}
}

func TestStore_OverwriteReplaces(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)

	rec := testRecord(1)
	if err := s.Put(rec, false); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	updated := testRecord(1)
	updated.Title = "Staff Engineer"
	if err := s.Put(updated, true); err != nil {
		t.Fatalf("overwrite Put failed: %v", err)
	}

	got, _ := s.Get(rec.URL)
	if got.Title != "Staff Engineer" {
		t.Errorf("Get after overwrite = %q, want %q", got.Title, "Staff Engineer")
	}
	s.Close()

	// The overwrite must also win across a reload (last log line wins).
	reloaded := openTestStore(t, dir)
	defer reloaded.Close()
	got, ok := reloaded.Get(rec.URL)
	if !ok || got.Title != "Staff Engineer" {
		t.Errorf("reloaded record after overwrite = %+v, want Staff Engineer", got)
	}
}

func TestStore_LoadsExistingLog(t *testing.T) {
	dir := t.TempDir()
	line := `{"url":"https://x.test/job/1","title":"Eng","company":"Acme"}` + "\n"
	if err := os.WriteFile(filepath.Join(dir, logFileName), []byte(line), 0o644); err != nil {
		t.Fatal(err)
	}

	s := openTestStore(t, dir)
	defer s.Close()

	if !s.Exists("https://x.test/job/1") {
		t.Fatal("Exists is false for a URL present in the log")
	}
	rec, ok := s.Get("https://x.test/job/1")
	if !ok {
		t.Fatal("Get missed for a URL present in the log")
	}
	if rec.Title != "Eng" || rec.Company != "Acme" {
		t.Errorf("loaded record = %+v, want title Eng company Acme", rec)
	}
}

func TestStore_SkipsCorruptAndKeylessLines(t *testing.T) {
	dir := t.TempDir()
	content := `{"url":"https://x.test/job/1","title":"Eng"}
{not json at all
{"title":"no key field"}
{"url":"https://x.test/job/2","title":"Dev"}
`
	if err := os.WriteFile(filepath.Join(dir, logFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := openTestStore(t, dir)
	defer s.Close()

	if s.Len() != 2 {
		t.Errorf("store has %d entries, want 2 (corrupt and keyless lines skipped)", s.Len())
	}
	if !s.Exists("https://x.test/job/1") || !s.Exists("https://x.test/job/2") {
		t.Error("valid lines around corrupt ones were not loaded")
	}
}

func TestStore_RejectsRecordWithoutKey(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	defer s.Close()

	err := s.Put(&models.JobPosting{Title: "no url"}, false)
	if err == nil {
		t.Fatal("Put accepted a record without a URL")
	}
	if s.Len() != 0 {
		t.Errorf("store mutated by a rejected Put, has %d entries", s.Len())
	}
}

func TestStore_SecondWriterRefused(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)
	defer s.Close()

	if _, err := Open(Options{Dir: dir}); err == nil {
		t.Error("second Open on the same directory should fail while the lock is held")
	}
}
