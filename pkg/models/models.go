package models

import (
	"fmt"
	"strings"
	"time"
)

// NotAvailable is the sentinel used when a field's selectors all missed.
// It means "the page was reached but this field wasn't found" and is distinct
// from an empty record, which means the page couldn't be scraped at all.
const NotAvailable = "N/A"

// JobPosting represents the structured data extracted from a job posting URL.
// It is also the wire format of the durable cache log (one JSON object per
// line), so fields are only ever added, never renamed.
type JobPosting struct {
	URL            string `json:"url"`
	Title          string `json:"title,omitempty"`
	Company        string `json:"company,omitempty"`
	RawDescription string `json:"raw_description,omitempty"`

	// DescriptionHTML is the outer HTML of the matched description element,
	// kept so the markdown rendering can run on markup rather than flat text.
	DescriptionHTML string `json:"description_html,omitempty"`

	// Enrichment fields. Salary, location, hiring manager and job ID are
	// populated opportunistically (e.g. from JSON-LD) or by downstream
	// consumers; the extractors themselves only guarantee the core fields.
	Salary              string `json:"salary,omitempty"`
	Location            string `json:"location,omitempty"`
	HiringManager       string `json:"hiring_manager,omitempty"`
	JobID               string `json:"job_id,omitempty"`
	MarkdownDescription string `json:"markdown_description,omitempty"`

	ExtractedAt time.Time `json:"extracted_at"`
}

// Validate checks the record's identity invariant: a non-empty http(s) URL.
func (j *JobPosting) Validate() error {
	if j.URL == "" {
		return fmt.Errorf("job posting URL is required")
	}
	if !strings.HasPrefix(j.URL, "http://") && !strings.HasPrefix(j.URL, "https://") {
		return fmt.Errorf("job posting URL must start with http:// or https://: %q", j.URL)
	}
	return nil
}

// IsEmpty reports whether the record carries no scraped content at all,
// i.e. the extraction failed outright. Records whose fields hold the
// NotAvailable sentinel are not empty: the page was reached.
func (j *JobPosting) IsEmpty() bool {
	return j.Title == "" && j.Company == "" && j.RawDescription == ""
}

// FilenamePrefix derives a filesystem-safe prefix from company and title,
// used by downstream consumers when writing per-posting artifacts.
func (j *JobPosting) FilenamePrefix() string {
	clean := func(s string) string {
		s = strings.ReplaceAll(s, ",", "_")
		return strings.ReplaceAll(s, " ", "_")
	}
	return clean(j.Company) + "_" + clean(j.Title)
}
