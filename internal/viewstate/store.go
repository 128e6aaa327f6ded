// Package viewstate holds the per-screen state: the last fetched
// collection, its load status, the active filters, the selection and the
// active input modal.
package viewstate

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"finadmin/internal/aggregate"
	"finadmin/internal/api"
	"finadmin/internal/logger"
)

// LoadStatus is the state of a screen's collection fetch.
type LoadStatus int

const (
	Idle LoadStatus = iota
	Loading
	Loaded
	Error
)

func (s LoadStatus) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// FetchFunc fetches the full collection for the given filters. It may
// return api.ErrNotModified to keep the current collection.
type FetchFunc[T any] func(ctx context.Context, q aggregate.Query) ([]T, error)

// Snapshot is a consistent copy of a store's state.
type Snapshot[T any] struct {
	Collection   []T
	Status       LoadStatus
	ErrorMessage string
	Filters      aggregate.Query
	Selection    string
	ActiveModal  string
	ModalError   string
	Form         any
}

// Store is the view state of one screen. The collection is always the
// complete result of the last successful fetch; filters are applied when
// the visible rows are derived, never to the stored collection.
//
// A failed fetch keeps the previous collection (stale but present) and
// records the error message.
type Store[T any] struct {
	name  string
	fetch FetchFunc[T]
	log   zerolog.Logger

	mu         sync.Mutex
	collection []T
	status     LoadStatus
	errMessage string
	filters    aggregate.Query
	selection  string
	modal      string
	modalError string
	form       any

	// the fetch applies the search term; Visible does not filter on it again
	serverSearch bool

	generation uint64
	cancel     context.CancelFunc
}

// New creates an idle store for the named screen.
func New[T any](name string, fetch FetchFunc[T]) *Store[T] {
	return &Store[T]{
		name:    name,
		fetch:   fetch,
		log:     logger.WithComponent("viewstate").With().Str("screen", name).Logger(),
		filters: aggregate.Query{Status: aggregate.All, Category: aggregate.All},
	}
}

// SearchOnServer marks the search term as applied by the fetch. Visible
// then filters on the status and category predicates only, so rows the
// server matched differently than a substring match stay visible.
func (s *Store[T]) SearchOnServer() *Store[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverSearch = true
	return s
}

// Name returns the screen name.
func (s *Store[T]) Name() string {
	return s.name
}

// Load fetches the collection with the current filters. Starting a load
// cancels any load still in flight on this store, and a response that
// arrives for a superseded load is discarded.
func (s *Store[T]) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.generation++
	gen := s.generation
	s.cancel = cancel
	s.status = Loading
	filters := s.filters
	s.mu.Unlock()

	items, err := s.fetch(ctx, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	cancel()

	if gen != s.generation {
		s.log.Debug().Uint64("generation", gen).Msg("Discarding superseded fetch result")
		return context.Canceled
	}
	s.cancel = nil

	switch {
	case err == nil:
		s.collection = items
		s.status = Loaded
		s.errMessage = ""
		s.log.Debug().Int("items", len(items)).Msg("Collection loaded")
		return nil
	case errors.Is(err, api.ErrNotModified):
		s.status = Loaded
		s.errMessage = ""
		s.log.Debug().Msg("Collection not modified, keeping cached copy")
		return nil
	default:
		s.status = Error
		s.errMessage = api.Message(err)
		s.log.Warn().Err(err).Msg("Collection fetch failed")
		return err
	}
}

// Refetch reloads the collection with the current filters.
func (s *Store[T]) Refetch(ctx context.Context) error {
	return s.Load(ctx)
}

// SetFilters replaces the filters. A search term change triggers a new
// fetch because the server may search differently than the local filter.
func (s *Store[T]) SetFilters(ctx context.Context, q aggregate.Query) error {
	s.mu.Lock()
	searchChanged := s.filters.Search != q.Search
	s.filters = q
	s.mu.Unlock()

	if searchChanged {
		return s.Load(ctx)
	}
	return nil
}

// Visible returns the collection with the filters applied.
func (s *Store[T]) Visible(fields aggregate.Fields[T]) []T {
	s.mu.Lock()
	items, q := s.collection, s.filters
	if s.serverSearch {
		q.Search = ""
	}
	s.mu.Unlock()
	return aggregate.Filter(items, q, fields)
}

// Collection returns the stored collection as fetched.
func (s *Store[T]) Collection() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection
}

// Status returns the load status of the collection.
func (s *Store[T]) Status() LoadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ErrorMessage returns the message of the last failed fetch.
func (s *Store[T]) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMessage
}

// Filters returns the active filters.
func (s *Store[T]) Filters() aggregate.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Select marks the record with the given id as selected.
func (s *Store[T]) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = id
}

// Selection returns the id of the selected record.
func (s *Store[T]) Selection() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// OpenModal activates an input modal with its initial form state.
func (s *Store[T]) OpenModal(name string, form any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = name
	s.form = form
	s.modalError = ""
}

// CloseModal deactivates the active modal. Form state is kept until
// ClearForm.
func (s *Store[T]) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = ""
}

// ClearForm drops the transient form state and any modal error.
func (s *Store[T]) ClearForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = nil
	s.modalError = ""
}

// SetModalError shows msg inside the active modal.
func (s *Store[T]) SetModalError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modalError = msg
}

// ActiveModal returns the name of the open modal, or "" when none is open.
func (s *Store[T]) ActiveModal() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal
}

// Form returns the form state of the active modal.
func (s *Store[T]) Form() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Snapshot returns a copy of the whole state.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot[T]{
		Collection:   s.collection,
		Status:       s.status,
		ErrorMessage: s.errMessage,
		Filters:      s.filters,
		Selection:    s.selection,
		ActiveModal:  s.modal,
		ModalError:   s.modalError,
		Form:         s.form,
	}
}
