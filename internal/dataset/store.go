// Package dataset holds the customers and transactions loaded once at
// startup, together with the outcome of that single load.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"txdash/internal/core"
	"txdash/internal/sources"
)

// State is the page lifecycle: Loading, then Ready or Error. Error is
// terminal for the process.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "loading"
	}
}

var (
	ErrAlreadyLoaded = errors.New("dataset already loaded")
	ErrNotReady      = errors.New("dataset not ready")
)

// FetchError reports a failed load: transport, status or decoding.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch dataset from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Store is written once by Load and read concurrently afterwards.
type Store struct {
	mu       sync.RWMutex
	started  bool
	state    State
	data     core.Dataset
	names    core.NameIndex
	err      error
	loadedAt time.Time
}

func NewStore() *Store {
	return &Store{state: StateLoading, names: core.NewNameIndex(nil)}
}

// Load performs the single fetch. On success both lists are populated and
// the error slot is cleared; on failure the lists stay empty and the error
// slot holds a *FetchError. Any later call returns ErrAlreadyLoaded.
func (s *Store) Load(ctx context.Context, src sources.Source) (core.Dataset, error) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return core.Dataset{}, ErrAlreadyLoaded
	}
	s.started = true
	s.mu.Unlock()

	ds, err := src.Fetch(ctx)
	if err == nil {
		err = ds.Validate()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		fe := &FetchError{Source: src.Name(), Err: err}
		s.state = StateError
		s.err = fe
		s.data = core.Dataset{}
		return core.Dataset{}, fe
	}

	s.data = ds.Clone()
	s.names = core.NewNameIndex(s.data.Customers)
	s.err = nil
	s.state = StateReady
	s.loadedAt = time.Now()
	return s.data.Clone(), nil
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the load failure, or nil.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Snapshot returns a copy of the loaded dataset that does not alias the
// store. It fails with ErrNotReady, or with the load error, until the store
// is Ready.
func (s *Store) Snapshot() (core.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.state {
	case StateReady:
		return s.data.Clone(), nil
	case StateError:
		return core.Dataset{}, s.err
	default:
		return core.Dataset{}, ErrNotReady
	}
}

// Names returns the id to name index of the loaded customers.
func (s *Store) Names() core.NameIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.names
}

// LoadedAt is the time Load succeeded; zero otherwise.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
