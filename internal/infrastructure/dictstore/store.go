// Package dictstore loads the phrase dictionary and tier table from a JSON
// file and keeps the in-memory copy fresh while the file changes on disk.
// When no file is configured the embedded defaults are served.
package dictstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/config"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/dictionary"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
)

// debounce window for editors that emit several write events per save.
const reloadDebounce = 200 * time.Millisecond

// dictionaryFile is the on-disk JSON format.  Tiers may be omitted, in which
// case the built-in tier table applies.
type dictionaryFile struct {
	Categories map[string][]string            `json:"categories"`
	Tiers      map[string]dictionary.RiskTier `json:"tiers,omitempty"`
}

// Store serves the active dictionary and tier table.  All methods are safe
// for concurrent use; Reload swaps both atomically so readers never observe
// a dictionary paired with a stale tier table.
type Store struct {
	path    string
	logger  logging.Logger
	metrics *prometheus.AppMetrics

	mu    sync.RWMutex
	dict  *dictionary.Dictionary
	tiers dictionary.TierTable

	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewStore builds the store from configuration.  A missing file falls back
// to the embedded defaults with a warning; a present but invalid file is a
// startup error.  When WatchReload is set the file is watched and reloaded
// on change.
func NewStore(cfg config.DictionaryConfig, log logging.Logger, metrics *prometheus.AppMetrics) (*Store, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	s := &Store{
		path:    cfg.Path,
		logger:  log.Named("dictstore"),
		metrics: metrics,
		done:    make(chan struct{}),
	}

	if cfg.Path == "" {
		s.useDefaults("no dictionary file configured")
	} else if _, err := os.Stat(cfg.Path); os.IsNotExist(err) {
		s.useDefaults("dictionary file does not exist")
	} else {
		dict, tiers, err := loadFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		s.swap(dict, tiers)
		s.logger.Info("dictionary loaded",
			logging.String("path", cfg.Path),
			logging.Int("categories", dict.Len()))
	}

	if cfg.WatchReload && cfg.Path != "" {
		if err := s.startWatcher(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) useDefaults(reason string) {
	s.swap(dictionary.Default(), dictionary.DefaultTierTable())
	s.logger.Warn("using embedded default dictionary",
		logging.String("reason", reason),
		logging.String("path", s.path))
}

// Dictionary returns the active dictionary.  The returned value must not be
// mutated.
func (s *Store) Dictionary() *dictionary.Dictionary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dict
}

// TierTable returns the active tier table.  The returned map must not be
// mutated.
func (s *Store) TierTable() dictionary.TierTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tiers
}

// Reload re-reads the dictionary file.  On any error the active dictionary
// is kept and the error returned.
func (s *Store) Reload() error {
	if s.path == "" {
		return errors.New(errors.ErrCodeDictionaryNotFound, "no dictionary file configured")
	}

	dict, tiers, err := loadFile(s.path)
	if err != nil {
		prometheus.RecordDictionaryReload(s.metrics, false, 0)
		s.logger.Error("dictionary reload failed, keeping previous dictionary",
			logging.String("path", s.path), logging.Err(err))
		return err
	}

	s.swap(dict, tiers)
	prometheus.RecordDictionaryReload(s.metrics, true, dict.Len())
	s.logger.Info("dictionary reloaded",
		logging.String("path", s.path),
		logging.Int("categories", dict.Len()))
	return nil
}

func (s *Store) swap(dict *dictionary.Dictionary, tiers dictionary.TierTable) {
	s.mu.Lock()
	s.dict = dict
	s.tiers = tiers
	s.mu.Unlock()
}

// Close stops the file watcher, if any.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		if s.watcher != nil {
			err = s.watcher.Close()
		}
		s.wg.Wait()
	})
	return err
}

// startWatcher watches the dictionary file's directory.  Watching the
// directory rather than the file survives the rename-and-replace save
// strategy most editors and config rollouts use.
func (s *Store) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create dictionary watcher")
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to watch dictionary directory")
	}
	s.watcher = watcher

	s.wg.Add(1)
	go s.watchLoop()
	s.logger.Info("watching dictionary file", logging.String("path", s.path))
	return nil
}

func (s *Store) watchLoop() {
	defer s.wg.Done()

	var timer *time.Timer
	var pending <-chan time.Time

	target := filepath.Clean(s.path)
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			// Reload logs and counts its own failures.
			_ = s.Reload()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("dictionary watcher error", logging.Err(err))
		}
	}
}

// loadFile parses and validates a dictionary file.  Both the structured
// format ({"categories": ..., "tiers": ...}) and the legacy plain
// category-to-phrases map are accepted.
func loadFile(path string) (*dictionary.Dictionary, dictionary.TierTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeDictionaryNotFound, "failed to read dictionary file "+path)
	}

	var file dictionaryFile
	if err := json.Unmarshal(data, &file); err != nil || len(file.Categories) == 0 {
		var plain map[string][]string
		if perr := json.Unmarshal(data, &plain); perr != nil || len(plain) == 0 {
			return nil, nil, errors.Newf(errors.ErrCodeDictionaryParse, "failed to parse dictionary file %s", path)
		}
		file = dictionaryFile{Categories: plain}
	}

	dict := dictionary.FromMap(file.Categories)
	if err := dict.Validate(); err != nil {
		return nil, nil, err
	}

	tiers := dictionary.TierTable(file.Tiers)
	if len(tiers) == 0 {
		tiers = dictionary.DefaultTierTable()
	}
	if err := tiers.Validate(); err != nil {
		return nil, nil, err
	}
	return dict, tiers, nil
}
