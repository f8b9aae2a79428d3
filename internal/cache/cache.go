// Package cache provides a durable, URL-keyed store for extracted job
// postings. Entries live in an append-only JSONL log; an in-memory index is
// rebuilt from the log on open. Later log lines win, so an overwrite is just
// another append.
package cache

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"

	"github.com/auto-cv/jobscrape/pkg/models"
)

const (
	// DefaultKeyField is the record field that identifies an entry.
	DefaultKeyField = "url"

	logFileName  = "job_descriptions.jsonl"
	lockFileName = "job_descriptions.lock"
)

// ErrDuplicateKey is returned by Put when the key already exists and
// overwrite was not requested. The store is left untouched.
var ErrDuplicateKey = errors.New("cache: duplicate key")

// Store is a single-writer durable cache. The in-memory index is protected by
// a mutex for in-process use; cross-process writers are excluded by an
// advisory lock on the log file, taken for the lifetime of the Store.
type Store struct {
	dir      string
	logPath  string
	keyField string
	lock     *flock.Flock

	mu    sync.Mutex
	index map[string]*models.JobPosting
}

// Options configures a Store.
type Options struct {
	// Dir is the per-purpose cache directory. Multiple independent caches
	// (raw vs. enriched) each get their own directory and log.
	Dir string
	// KeyField is the JSON field holding the entry identity. Defaults to "url".
	KeyField string
}

// Open creates the cache directory if needed, acquires the writer lock and
// rebuilds the index from the log. Corrupt lines and lines missing the key
// field are skipped with a warning; they are never fatal.
func Open(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("cache: directory is required")
	}
	if opts.KeyField == "" {
		opts.KeyField = DefaultKeyField
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}

	lock := flock.New(filepath.Join(opts.Dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("cache: acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("cache: %s is already in use by another writer", opts.Dir)
	}

	s := &Store{
		dir:      opts.Dir,
		logPath:  filepath.Join(opts.Dir, logFileName),
		keyField: opts.KeyField,
		lock:     lock,
		index:    make(map[string]*models.JobPosting),
	}

	if err := s.load(); err != nil {
		lock.Unlock()
		return nil, err
	}

	log.Debug().
		Str("dir", s.dir).
		Int("entries", len(s.index)).
		Msg("Cache opened")

	return s, nil
}

// Key derives the cache key for a URL. It is a pure function of the raw
// identity string and stable across process restarts.
func Key(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// load replays the log into the index. Later lines overwrite earlier ones,
// which is what makes reloading after an overwrite reproduce the live state.
func (s *Store) load() error {
	f, err := os.Open(s.logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cache: open log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	// Job descriptions can be long; allow lines up to 4MB.
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var raw map[string]json.RawMessage
		if err := json.Unmarshal(line, &raw); err != nil {
			log.Warn().Int("line", lineNo).Err(err).Msg("Skipping corrupt cache line")
			continue
		}

		var keyValue string
		if v, ok := raw[s.keyField]; ok {
			_ = json.Unmarshal(v, &keyValue)
		}
		if keyValue == "" {
			log.Warn().
				Int("line", lineNo).
				Str("key_field", s.keyField).
				Msg("Skipping cache line without key field")
			continue
		}

		var rec models.JobPosting
		if err := json.Unmarshal(line, &rec); err != nil {
			log.Warn().Int("line", lineNo).Err(err).Msg("Skipping undecodable cache line")
			continue
		}

		s.index[Key(keyValue)] = &rec
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("cache: read log: %w", err)
	}
	return nil
}

// Exists reports whether an entry for the URL is present in the index.
func (s *Store) Exists(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[Key(url)]
	return ok
}

// Get returns the cached record for the URL, or (nil, false) on a miss.
// A miss is a normal outcome, not an error.
func (s *Store) Get(url string) (*models.JobPosting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.index[Key(url)]
	return rec, ok
}

// Put appends the record to the durable log and updates the index. With
// overwrite false, an existing key fails with ErrDuplicateKey and nothing is
// mutated. The durable append happens before the index update, so a failed
// append never leaves an index entry the log doesn't back.
func (s *Store) Put(rec *models.JobPosting, overwrite bool) error {
	if rec == nil {
		return fmt.Errorf("cache: record is required")
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("cache: record missing key field: %w", err)
	}

	key := Key(rec.URL)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[key]; exists && !overwrite {
		log.Debug().Str("url", rec.URL).Msg("Duplicate key, insert refused")
		return fmt.Errorf("%w: %s", ErrDuplicateKey, rec.URL)
	}

	if err := s.append(rec); err != nil {
		return err
	}
	s.index[key] = rec

	log.Debug().
		Str("url", rec.URL).
		Bool("overwrite", overwrite).
		Msg("Cached job posting")

	return nil
}

func (s *Store) append(rec *models.JobPosting) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cache: encode record: %w", err)
	}

	f, err := os.OpenFile(s.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cache: open log for append: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cache: append record: %w", err)
	}
	return nil
}

// Len returns the number of distinct entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}

// Records returns a snapshot of all cached records, in no particular order.
func (s *Store) Records() []*models.JobPosting {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.JobPosting, 0, len(s.index))
	for _, rec := range s.index {
		out = append(out, rec)
	}
	return out
}

// Path returns the durable log location.
func (s *Store) Path() string {
	return s.logPath
}

// Close releases the writer lock. The Store must not be used afterwards.
func (s *Store) Close() error {
	if s.lock != nil {
		return s.lock.Unlock()
	}
	return nil
}
