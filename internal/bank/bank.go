// Package bank stores accepted problems as a JSON document on disk.
// Every mutation reads the full collection, modifies it in memory, and
// atomically rewrites the file, so readers never observe a torn write.
package bank

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrDuplicateID reports an Add whose ID already exists in the bank.
// A duplicate is an expected outcome, not a failure of the store.
var ErrDuplicateID = errors.New("problem ID already exists")

// Bank manages the storage and retrieval of problems.
type Bank struct {
	path string
	lock *flock.Flock
}

// Open returns a Bank backed by the JSON document at path, creating an
// empty collection if none exists. Initialization is idempotent. A file
// lock guards every read-modify-write against concurrent processes.
func Open(path string) (*Bank, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create bank directory: %w", err)
	}

	b := &Bank{
		path: path,
		lock: flock.New(path + ".lock"),
	}

	if err := b.init(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bank) init() error {
	if err := b.lock.Lock(); err != nil {
		return fmt.Errorf("acquire bank lock: %w", err)
	}
	defer b.lock.Unlock()

	if _, err := os.Stat(b.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat bank file: %w", err)
	}

	return b.write(collection{Problems: []StoredProblem{}})
}

// Add appends a problem and persists the full collection. Returns
// ErrDuplicateID if a record with the same ID already exists; in that
// case the collection is untouched.
func (b *Bank) Add(p StoredProblem) error {
	if err := b.lock.Lock(); err != nil {
		return fmt.Errorf("acquire bank lock: %w", err)
	}
	defer b.lock.Unlock()

	col, err := b.read()
	if err != nil {
		return err
	}

	for _, existing := range col.Problems {
		if existing.ID == p.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
	}

	col.Problems = append(col.Problems, p)
	return b.write(col)
}

// All returns every problem in insertion order.
func (b *Bank) All() ([]StoredProblem, error) {
	col, err := b.read()
	if err != nil {
		return nil, err
	}
	return col.Problems, nil
}

// Validated returns the validated subset, preserving insertion order.
func (b *Bank) Validated() ([]StoredProblem, error) {
	all, err := b.All()
	if err != nil {
		return nil, err
	}
	var out []StoredProblem
	for _, p := range all {
		if p.Validated {
			out = append(out, p)
		}
	}
	return out, nil
}

// Count returns the total number of problems. Counts are recomputed from
// the authoritative list on every call; there is no counter to drift.
func (b *Bank) Count() (int, error) {
	all, err := b.All()
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// CountValidated returns the number of validated problems.
func (b *Bank) CountValidated() (int, error) {
	validated, err := b.Validated()
	if err != nil {
		return 0, err
	}
	return len(validated), nil
}

// Path returns the backing file path.
func (b *Bank) Path() string {
	return b.path
}

func (b *Bank) read() (collection, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return collection{}, fmt.Errorf("read bank file: %w", err)
	}

	var col collection
	if err := json.Unmarshal(data, &col); err != nil {
		return collection{}, fmt.Errorf("decode bank file: %w", err)
	}
	return col, nil
}

// write rewrites the collection atomically: encode to a temp file in the
// same directory, fsync, then rename over the original. A crash mid-write
// leaves either the old document or the new one, never a partial file.
func (b *Bank) write(col collection) error {
	col.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bank file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".bank-*.json")
	if err != nil {
		return fmt.Errorf("create temp bank file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp bank file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp bank file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp bank file: %w", err)
	}

	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace bank file: %w", err)
	}
	return nil
}
