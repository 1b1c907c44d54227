package main

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	errMergeInFlight = errors.New("merge already in progress")
	errNoFiles       = errors.New("no files staged")
)

// Staging holds the ordered candidate list and the in-flight merge flag.
// Mutations replace the slice wholesale, so snapshots handed out earlier
// stay valid while a merge reads them.
type Staging struct {
	mu       sync.Mutex
	files    []StagedFile
	inFlight bool
}

func NewStaging() *Staging {
	return &Staging{}
}

// Add appends the PDF entries of batch in order and drops the rest.
// Each accepted file gets a fresh ID. Returns how many were accepted
// and how many were rejected.
func (s *Staging) Add(batch []StagedFile) (added, rejected int) {
	accepted := batch[:0:0]
	for _, f := range batch {
		if !isPDFContentType(f.ContentType) {
			rejected++
			continue
		}
		f.ID = uuid.NewString()
		accepted = append(accepted, f)
	}
	if len(accepted) == 0 {
		return 0, rejected
	}

	s.mu.Lock()
	next := make([]StagedFile, 0, len(s.files)+len(accepted))
	next = append(next, s.files...)
	next = append(next, accepted...)
	s.files = next
	s.mu.Unlock()
	return len(accepted), rejected
}

// RemoveAt drops the candidate at position i. Out-of-range indexes are
// a no-op and report false.
func (s *Staging) RemoveAt(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.files) {
		return false
	}
	next := make([]StagedFile, 0, len(s.files)-1)
	next = append(next, s.files[:i]...)
	next = append(next, s.files[i+1:]...)
	s.files = next
	return true
}

// Clear empties the list.
func (s *Staging) Clear() {
	s.mu.Lock()
	s.files = nil
	s.mu.Unlock()
}

// Files returns a snapshot of the current list in merge order.
func (s *Staging) Files() []StagedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StagedFile, len(s.files))
	copy(out, s.files)
	return out
}

func (s *Staging) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// BeginMerge claims the in-flight flag and returns the files to merge.
// It fails without side effects when a merge is already running or the
// list is empty, so neither case reaches the network.
func (s *Staging) BeginMerge() ([]StagedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return nil, errMergeInFlight
	}
	if len(s.files) == 0 {
		return nil, errNoFiles
	}
	s.inFlight = true
	out := make([]StagedFile, len(s.files))
	copy(out, s.files)
	return out, nil
}

// EndMerge releases the in-flight flag. Safe to call unconditionally.
func (s *Staging) EndMerge() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// Busy reports whether a merge is running.
func (s *Staging) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}
