package app

import (
	"sync"

	"chatdocs/internal/index"
)

// SessionState tracks the upload pipeline for one user's session:
// Idle -> Extracted -> Indexed -> AnsweringReady, with Failed terminal for
// the attempt. Questions loop in AnsweringReady without a transition.
type SessionState int

const (
	StateIdle SessionState = iota
	StateExtracted
	StateIndexed
	StateAnsweringReady
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExtracted:
		return "extracted"
	case StateIndexed:
		return "indexed"
	case StateAnsweringReady:
		return "answering_ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DocumentSession owns the vector index for the user's currently active
// document. At most one exists per user; a new upload replaces it wholesale.
// The mutex serializes the pipeline and questions, so answers are produced
// and recorded in submission order.
type DocumentSession struct {
	mu           sync.Mutex
	state        SessionState
	documentName string
	index        *index.VectorIndex
}

// reset discards the active document and index before a new upload.
func (s *DocumentSession) reset() {
	s.state = StateIdle
	s.documentName = ""
	s.index = nil
}

func (s *DocumentSession) fail() {
	s.state = StateFailed
	s.documentName = ""
	s.index = nil
}
