package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/billdraft/pkg/parampath"
)

// DefaultCacheSize is the number of parsed descriptors kept in memory.
const DefaultCacheSize = 256

// Store reads parameter descriptors from a directory tree. A parameter
// path maps to a file by normalizing it with parampath.MetadataKey and
// replacing dots with path separators:
//
//	gov.irs.credits.ctc.amount.base[0].amount
//	  -> <root>/gov/irs/credits/ctc/amount/base.yaml
//
// Parsed descriptors are cached in an LRU; stub results are not cached so
// a descriptor file dropped in later is picked up.
type Store struct {
	root  string
	cache *lru.Cache[string, *Descriptor]

	watcher   *fsnotify.Watcher
	stopChan  chan struct{}
	watchErrs atomic.Int64
}

// NewStore opens a descriptor store rooted at rootDir. The directory does
// not need to exist; lookups against a missing tree simply return stubs.
func NewStore(rootDir string) (*Store, error) {
	cache, err := lru.New[string, *Descriptor](DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating descriptor cache: %w", err)
	}
	return &Store{root: rootDir, cache: cache}, nil
}

// Lookup returns the descriptor for a parameter path, or a stub when no
// usable record exists. It never fails: missing files, malformed YAML,
// and I/O errors are all absorbed into the stub.
func (s *Store) Lookup(path string) *Descriptor {
	desc, _ := s.lookup(path)
	return desc
}

// lookup additionally reports whether a real descriptor was found.
func (s *Store) lookup(path string) (*Descriptor, bool) {
	key := parampath.MetadataKey(path)

	if desc, ok := s.cache.Get(key); ok {
		return desc, true
	}

	data, err := os.ReadFile(s.descriptorFile(key))
	if err != nil {
		return Stub(path), false
	}

	var desc Descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return Stub(path), false
	}

	s.cache.Add(key, &desc)
	return &desc, true
}

// descriptorFile maps a normalized path key to its file on disk.
func (s *Store) descriptorFile(key string) string {
	rel := strings.ReplaceAll(key, ".", string(filepath.Separator))
	return filepath.Join(s.root, rel+".yaml")
}

// keyForFile inverts descriptorFile for watch events. The second return
// is false for files outside the tree or without a .yaml suffix.
func (s *Store) keyForFile(file string) (string, bool) {
	if !strings.HasSuffix(file, ".yaml") && !strings.HasSuffix(file, ".yml") {
		return "", false
	}
	rel, err := filepath.Rel(s.root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = strings.TrimSuffix(strings.TrimSuffix(rel, ".yaml"), ".yml")
	return strings.ReplaceAll(rel, string(filepath.Separator), "."), true
}

// Watch starts watching the descriptor tree and invalidates the cache
// entry for any descriptor file that is created, written, removed, or
// renamed. Watch errors are counted, not fatal.
func (s *Store) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	s.watcher = watcher
	s.stopChan = make(chan struct{})

	go s.watchLoop()

	// fsnotify does not recurse, so register every directory in the tree.
	walkErr := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if walkErr != nil {
		s.StopWatch()
		return fmt.Errorf("watching descriptor tree %s: %w", s.root, walkErr)
	}
	return nil
}

// StopWatch stops the watcher started by Watch.
func (s *Store) StopWatch() {
	if s.watcher == nil {
		return
	}
	close(s.stopChan)
	s.watcher.Close()
	s.watcher = nil
}

// WatchErrors returns the number of errors seen on the watch channel.
func (s *Store) WatchErrors() int64 {
	return s.watchErrs.Load()
}

func (s *Store) watchLoop() {
	for {
		select {
		case <-s.stopChan:
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			key, ok := s.keyForFile(event.Name)
			if !ok {
				// A new subdirectory needs to be added to the watch set.
				if event.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = s.watcher.Add(event.Name)
					}
				}
				continue
			}
			switch {
			case event.Op&fsnotify.Create == fsnotify.Create,
				event.Op&fsnotify.Write == fsnotify.Write,
				event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				s.cache.Remove(key)
			}

		case _, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.watchErrs.Add(1)
		}
	}
}
