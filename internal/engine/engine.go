package engine

import (
	"context"

	"github.com/auto-cv/jobscrape/pkg/models"
)

// Extractor is the interface both extraction engines implement.
//
// Extract pulls a job posting from the given URL. A non-nil error means the
// page could not be scraped at all (network fault, browser fault, readiness
// timeout); callers degrade that to an empty record rather than propagating.
// Individual fields that could not be located come back as the
// models.NotAvailable sentinel, not as an error.
type Extractor interface {
	Extract(ctx context.Context, url string) (*models.JobPosting, error)

	// Name identifies the engine in logs.
	Name() string
}
