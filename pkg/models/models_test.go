package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestJobPosting_Validate(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://example.com/jobs/1", false},
		{"http", "http://example.com/jobs/1", false},
		{"empty", "", true},
		{"no scheme", "example.com/jobs/1", true},
		{"ftp", "ftp://example.com/jobs/1", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j := &JobPosting{URL: tc.url}
			err := j.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("expected error for URL %q, got nil", tc.url)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error for URL %q: %v", tc.url, err)
			}
		})
	}
}

func TestJobPosting_IsEmpty(t *testing.T) {
	empty := &JobPosting{URL: "https://example.com/jobs/1", ExtractedAt: time.Now()}
	if !empty.IsEmpty() {
		t.Error("record with no scraped fields should be empty")
	}

	sentinel := &JobPosting{URL: "https://example.com/jobs/1", Title: NotAvailable}
	if sentinel.IsEmpty() {
		t.Error("record with sentinel fields should not be empty")
	}

	full := &JobPosting{URL: "https://example.com/jobs/1", Title: "Engineer"}
	if full.IsEmpty() {
		t.Error("record with a title should not be empty")
	}
}

func TestJobPosting_FilenamePrefix(t *testing.T) {
	j := &JobPosting{Company: "Acme, Inc", Title: "Senior Engineer"}
	got := j.FilenamePrefix()
	want := "Acme__Inc_Senior_Engineer"
	if got != want {
		t.Errorf("FilenamePrefix() = %q, want %q", got, want)
	}
}

func TestJobPosting_JSONFieldNames(t *testing.T) {
	j := &JobPosting{
		URL:            "https://example.com/jobs/1",
		Title:          "Engineer",
		Company:        "Acme",
		RawDescription: "Build things",
	}
	data, err := json.Marshal(j)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"url", "title", "company", "raw_description", "extracted_at"} {
		if _, ok := m[key]; !ok {
			t.Errorf("expected JSON key %q in %s", key, data)
		}
	}
}
