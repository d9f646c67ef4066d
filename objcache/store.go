package objcache

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/embervm/embervm/errors"
)

// OpenResult is the six-way outcome §4.8 documents for Open: exactly one
// of these kinds names how an open attempt concluded.
type OpenResult uint8

const (
	OpenDoesNotExist OpenResult = iota
	OpenNotDirectory
	OpenNotAccessible
	OpenInvalidDatabase
	OpenTooManyReaders
	OpenSuccess
)

func (r OpenResult) String() string {
	switch r {
	case OpenDoesNotExist:
		return "doesNotExist"
	case OpenNotDirectory:
		return "notDirectory"
	case OpenNotAccessible:
		return "notAccessible"
	case OpenInvalidDatabase:
		return "invalidDatabase"
	case OpenTooManyReaders:
		return "tooManyReaders"
	case OpenSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Store is the object cache's host-facing capability: look up and record
// compiled artifacts keyed by a module's content hash, scoped to the
// codeKey the store was opened with.
type Store interface {
	Get(moduleHash [32]byte) ([]byte, bool)
	Put(moduleHash [32]byte, artifact []byte) error
}

// maxOpenDirStores bounds concurrent directory-backed stores opened against
// the same path within one process, mirroring §4.8's tooManyReaders outcome
// (upstream this guards a single-writer LMDB-style database; this port's
// directory-of-files store has no such ceiling of its own, so the limit is
// enforced here instead, against the open call itself).
const maxOpenDirStores = 1

var (
	openDirsMu sync.Mutex
	openDirs   = map[string]int{}
)

// DirStore is a directory-backed Store: one file per cached artifact, named
// by the module hash, under path/<codeKey>/.
type DirStore struct {
	root     string
	maxBytes uint64
	codeKey  uint64

	mu   sync.Mutex
	used uint64
}

// Open validates path and prepares path/<codeKey> as the store's working
// directory, returning the outcome kind §4.8 specifies alongside the store
// (non-nil only on OpenSuccess).
func Open(path string, maxBytes uint64, codeKey uint64) (*DirStore, OpenResult, error) {
	// Clean so the open-store slot key matches the one Close derives from root.
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return nil, OpenDoesNotExist, errors.New(errors.PhaseLoad, errors.KindNotFound).
			Detail("object cache path %q does not exist", path).Build()
	case err != nil:
		return nil, OpenNotAccessible, errors.New(errors.PhaseLoad, errors.KindNotFound).
			Detail("object cache path %q is not accessible: %v", path, err).Build()
	case !info.IsDir():
		return nil, OpenNotDirectory, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Detail("object cache path %q is not a directory", path).Build()
	}

	openDirsMu.Lock()
	if openDirs[path] >= maxOpenDirStores {
		openDirsMu.Unlock()
		return nil, OpenTooManyReaders, errors.New(errors.PhaseLoad, errors.KindUnsupported).
			Detail("object cache path %q already has an open store", path).Build()
	}
	openDirs[path]++
	openDirsMu.Unlock()

	keyDir := filepath.Join(path, keyDirName(codeKey))
	if err := os.MkdirAll(keyDir, 0o755); err != nil {
		releaseDir(path)
		return nil, OpenInvalidDatabase, errors.New(errors.PhaseLoad, errors.KindAllocation).
			Detail("failed to prepare object cache directory %q: %v", keyDir, err).Build()
	}

	store := &DirStore{root: keyDir, maxBytes: maxBytes, codeKey: codeKey}
	store.used = store.scanUsedBytes()
	return store, OpenSuccess, nil
}

// Close releases the path's open-store slot so a later Open against the
// same path does not spuriously return OpenTooManyReaders.
func (s *DirStore) Close() {
	releaseDir(filepath.Dir(s.root))
}

func releaseDir(path string) {
	openDirsMu.Lock()
	defer openDirsMu.Unlock()
	if openDirs[path] > 0 {
		openDirs[path]--
	}
	if openDirs[path] == 0 {
		delete(openDirs, path)
	}
}

func (s *DirStore) Get(moduleHash [32]byte) ([]byte, bool) {
	data, err := os.ReadFile(s.entryPath(moduleHash))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *DirStore) Put(moduleHash [32]byte, artifact []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxBytes != 0 && s.used+uint64(len(artifact)) > s.maxBytes {
		return errors.New(errors.PhaseLoad, errors.KindAllocation).
			Detail("object cache at %q would exceed its %d byte budget", s.root, s.maxBytes).Build()
	}
	if err := os.WriteFile(s.entryPath(moduleHash), artifact, 0o644); err != nil {
		return errors.New(errors.PhaseLoad, errors.KindAllocation).
			Detail("failed to write object cache entry: %v", err).Build()
	}
	s.used += uint64(len(artifact))
	return nil
}

func (s *DirStore) entryPath(moduleHash [32]byte) string {
	return filepath.Join(s.root, hashHex(moduleHash))
}

func (s *DirStore) scanUsedBytes() uint64 {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0
	}
	var total uint64
	for _, e := range entries {
		if info, err := e.Info(); err == nil {
			total += uint64(info.Size())
		}
	}
	return total
}

func hashHex(h [32]byte) string {
	return hex.EncodeToString(h[:])
}

func keyDirName(codeKey uint64) string {
	return fmt.Sprintf("%016x", codeKey)
}
