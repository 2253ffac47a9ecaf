package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/Chunkys0up7/webvisibility/pkg/log"
	"github.com/Chunkys0up7/webvisibility/pkg/models"
	"github.com/Chunkys0up7/webvisibility/pkg/utils"
)

const reportKeyPrefix = "report:"

// BadgerStore implements ReportStore using BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
	log *logrus.Entry
}

// NewBadgerStore opens (or creates) a report cache under stateDir. Entries
// expire after ttl; a non-positive ttl keeps them until deleted.
func NewBadgerStore(stateDir string, ttl time.Duration, logger *logrus.Entry) (*BadgerStore, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create state directory %s: %w", stateDir, err)
	}

	badgerLogger := log.NewBadgerLogrusAdapter(logger.WithField("component", "badgerdb"))
	opts := badger.DefaultOptions(stateDir).
		WithLogger(badgerLogger).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening report cache at %s: %v", utils.ErrDatabase, stateDir, err)
	}

	logger.WithFields(logrus.Fields{"path": stateDir, "ttl": ttl}).Debug("Report cache opened")
	return &BadgerStore{db: db, ttl: ttl, log: logger}, nil
}

// reportKey canonicalizes a URL and hashes it into a fixed-length key.
// Canonicalization keeps scheme, lowercased host, path and query; fragments
// and trailing slashes never split the cache.
func reportKey(rawURL string) []byte {
	canonical := rawURL
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Host != "" {
		parsed.Fragment = ""
		parsed.Host = strings.ToLower(parsed.Host)
		if parsed.Path != "/" {
			parsed.Path = strings.TrimSuffix(parsed.Path, "/")
		}
		canonical = parsed.String()
	}
	return []byte(reportKeyPrefix + utils.CalculateStringSHA256(canonical))
}

// Put implements ReportStore.
func (s *BadgerStore) Put(report *models.Report) error {
	if report == nil || report.URL == "" {
		return fmt.Errorf("%w: cannot store a report without a URL", utils.ErrDatabase)
	}

	value, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("%w: marshaling report for '%s': %v", utils.ErrDatabase, report.URL, err)
	}

	key := reportKey(report.URL)
	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, value)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("%w: storing report for '%s': %v", utils.ErrDatabase, report.URL, err)
	}

	s.log.WithFields(logrus.Fields{"url": report.URL, "bytes": len(value)}).Debug("Report cached")
	return nil
}

// Get implements ReportStore. Expired entries surface as plain misses.
func (s *BadgerStore) Get(rawURL string) (*models.Report, bool, error) {
	var report *models.Report
	key := reportKey(rawURL)

	err := s.db.View(func(txn *badger.Txn) error {
		item, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			return nil
		}
		if errGet != nil {
			return fmt.Errorf("%w: getting report for '%s': %v", utils.ErrDatabase, rawURL, errGet)
		}

		return item.Value(func(val []byte) error {
			var decoded models.Report
			if errJSON := json.Unmarshal(val, &decoded); errJSON != nil {
				// A corrupt entry is a miss, not a failure. It will be
				// overwritten by the next Put.
				s.log.Warnf("Failed to unmarshal cached report for '%s': %v", rawURL, errJSON)
				return nil
			}
			report = &decoded
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	return report, report != nil, nil
}

// Delete implements ReportStore.
func (s *BadgerStore) Delete(rawURL string) error {
	key := reportKey(rawURL)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("%w: deleting report for '%s': %v", utils.ErrDatabase, rawURL, err)
	}
	return nil
}

// Count implements ReportStore with a key-only scan.
func (s *BadgerStore) Count() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(reportKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: counting reports: %v", utils.ErrDatabase, err)
	}
	return count, nil
}

// RunGC implements ReportStore.
func (s *BadgerStore) RunGC(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Debug("Report cache GC goroutine started")

	for {
		select {
		case <-ticker.C:
			if s.db == nil || s.db.IsClosed() {
				continue
			}

			var err error
			for {
				// Rewrite value log files that are at least half reclaimable.
				err = s.db.RunValueLogGC(0.5)
				if err != nil {
					break
				}
			}
			if !errors.Is(err, badger.ErrNoRewrite) {
				s.log.Errorf("Report cache GC error: %v", err)
			}

		case <-ctx.Done():
			s.log.Debugf("Stopping report cache GC: %v", ctx.Err())
			return
		}
	}
}

// Close implements ReportStore.
func (s *BadgerStore) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: closing report cache: %v", utils.ErrDatabase, err)
	}
	return nil
}
