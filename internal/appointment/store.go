package appointment

import (
	"fmt"
	"strings"
	"sync"
)

type LoadState int

const (
	StateLoading LoadState = iota
	StateReady
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// StatusChange describes an applied status update.
type StatusChange struct {
	ID             string `json:"id"`
	PreviousStatus Status `json:"previous_status"`
	NewStatus      Status `json:"status"`
}

// Store owns the canonical ordered collection. Every mutation is a single
// replace of one record's status or a single prepend.
type Store struct {
	mu      sync.RWMutex
	records []Appointment
	index   map[string]int
	state   LoadState
	loadErr error
}

func NewStore() *Store {
	return &Store{
		index: make(map[string]int),
		state: StateLoading,
	}
}

// Load replaces the whole collection. Records with blank or duplicate ids
// or invalid statuses are rejected and leave the store untouched.
func (s *Store) Load(records []Appointment) error {
	index := make(map[string]int, len(records))
	copied := make([]Appointment, len(records))
	for i, a := range records {
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("%w: record %d has an empty id", ErrInvalidAppointment, i)
		}
		if _, dup := index[a.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, a.ID)
		}
		if !a.Status.Valid() {
			return fmt.Errorf("appointment %s: %w: %q", a.ID, ErrInvalidStatus, a.Status)
		}
		if a.Date.IsZero() {
			return fmt.Errorf("appointment %s: %w", a.ID, ErrInvalidDate)
		}
		index[a.ID] = i
		copied[i] = a
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = copied
	s.index = index
	s.state = StateReady
	s.loadErr = nil
	return nil
}

// Fail records that the initial fetch did not complete.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateFailed
	s.loadErr = err
}

func (s *Store) State() (LoadState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.loadErr
}

// Insert prepends a to the collection.
func (s *Store) Insert(a Appointment) error {
	if !a.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, a.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.index[a.ID]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateID, a.ID)
	}

	records := make([]Appointment, 0, len(s.records)+1)
	records = append(records, a)
	records = append(records, s.records...)
	s.records = records

	for id, i := range s.index {
		s.index[id] = i + 1
	}
	s.index[a.ID] = 0
	return nil
}

// UpdateStatus replaces the status of the record with the given id.
// Unknown ids report ErrAppointmentNotFound, values outside the enumerated
// set report ErrInvalidStatus; neither changes the collection.
func (s *Store) UpdateStatus(id string, status Status) (StatusChange, error) {
	if !status.Valid() {
		return StatusChange{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return StatusChange{}, fmt.Errorf("%w: %s", ErrAppointmentNotFound, id)
	}

	prev := s.records[i].Status
	s.records[i].Status = status

	return StatusChange{ID: id, PreviousStatus: prev, NewStatus: status}, nil
}

func (s *Store) Get(id string) (Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Appointment{}, false
	}
	return s.records[i], true
}

// Snapshot returns a copy of the collection in canonical order.
func (s *Store) Snapshot() []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Appointment, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
