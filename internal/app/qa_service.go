package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"chatdocs/internal/ai"
	"chatdocs/internal/chunker"
	"chatdocs/internal/extract"
	"chatdocs/internal/index"
	"chatdocs/internal/model"
	"chatdocs/internal/repository"
)

// QAConfig tunes the retrieval pipeline.
type QAConfig struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	EmbedWorkers int
}

func (c QAConfig) withDefaults() QAConfig {
	if c.ChunkSize <= 0 {
		c.ChunkSize = chunker.DefaultChunkSize
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = chunker.DefaultOverlap
	}
	if c.TopK <= 0 {
		c.TopK = 4
	}
	if c.EmbedWorkers <= 0 {
		c.EmbedWorkers = 4
	}
	return c
}

// QAService runs the upload -> extract -> chunk -> index -> ask -> record
// pipeline. Each user gets one DocumentSession; the vector index inside it is
// rebuilt wholesale on every upload and never persisted.
type QAService struct {
	embedder   ai.Embedder
	synth      *Synthesizer
	recordRepo *repository.ChatRecordRepository
	histCache  HistoryCache
	cfg        QAConfig

	mu       sync.RWMutex
	sessions map[uint]*DocumentSession
}

func NewQAService(
	embedder ai.Embedder,
	completer ai.Completer,
	recordRepo *repository.ChatRecordRepository,
	histCache HistoryCache,
	cfg QAConfig,
) *QAService {
	return &QAService{
		embedder:   embedder,
		synth:      NewSynthesizer(completer),
		recordRepo: recordRepo,
		histCache:  histCache,
		cfg:        cfg.withDefaults(),
		sessions:   make(map[uint]*DocumentSession),
	}
}

type UploadInput struct {
	UserID      uint
	FileName    string
	ContentType string
	File        io.Reader
}

type UploadResult struct {
	DocumentName string `json:"document_name"`
	Format       string `json:"format"`
	ChunkCount   int    `json:"chunk_count"`
	State        string `json:"state"`
}

// Upload runs the indexing half of the pipeline. An unsupported or unreadable
// file aborts before any partial state is retained; on success the session
// enters AnsweringReady with a fresh index, discarding any previous document.
func (s *QAService) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if input.UserID == 0 || input.File == nil {
		return nil, ErrInvalidInput
	}
	name := strings.TrimSpace(input.FileName)
	if name == "" {
		return nil, ErrInvalidInput
	}

	format, err := extract.Detect(input.ContentType, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	sess := s.sessionFor(input.UserID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	// Any new upload discards the current index before re-entering the
	// pipeline, whatever state the session was in.
	sess.reset()

	text, err := format.Extract(input.File)
	if err != nil {
		sess.fail()
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailure, err)
	}
	sess.state = StateExtracted

	chunks := chunker.Split(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)

	// Zero chunks builds an empty but valid index; asking against it yields
	// an explicit "not found" answer rather than an error.
	idx, err := index.Build(ctx, s.embedder, chunks, s.cfg.EmbedWorkers)
	if err != nil {
		sess.fail()
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	sess.state = StateIndexed
	sess.index = idx
	sess.documentName = name
	sess.state = StateAnsweringReady

	return &UploadResult{
		DocumentName: name,
		Format:       format.String(),
		ChunkCount:   idx.Len(),
		State:        sess.state.String(),
	}, nil
}

type AskInput struct {
	UserID   uint
	Question string
}

type AskResult struct {
	DocumentName string   `json:"document_name"`
	Answer       string   `json:"answer"`
	Chunks       []string `json:"chunks"`
	HistorySaved bool     `json:"history_saved"`
	HistoryError string   `json:"history_error,omitempty"`
}

// Ask answers one question against the active document and records the pair.
// Provider failures fail only this question. A failed record does not fail
// the answer; the result says so and the caller must surface it.
func (s *QAService) Ask(ctx context.Context, input AskInput) (*AskResult, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, ErrInvalidInput
	}

	sess := s.lookupSession(input.UserID)
	if sess == nil {
		return nil, ErrNoActiveDocument
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state != StateAnsweringReady {
		return nil, ErrNoActiveDocument
	}

	chunks, err := sess.index.Search(ctx, s.embedder, question, s.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	answer, err := s.synth.Answer(ctx, question, chunks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	result := &AskResult{
		DocumentName: sess.documentName,
		Answer:       answer,
		Chunks:       chunks,
		HistorySaved: true,
	}

	// The store write happens strictly after all provider calls.
	if s.histCache != nil {
		_ = s.histCache.MarkDirty(ctx, input.UserID, sess.documentName)
		_ = s.histCache.DeleteHistory(ctx, input.UserID, sess.documentName)
	}
	record := &model.ChatRecord{
		UserID:    input.UserID,
		PDFName:   sess.documentName,
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now(),
	}
	if err := s.recordRepo.Create(ctx, record); err != nil {
		result.HistorySaved = false
		result.HistoryError = fmt.Errorf("%w: %v", ErrStorageFailure, err).Error()
	}

	return result, nil
}

type SessionStatus struct {
	DocumentName string `json:"document_name,omitempty"`
	State        string `json:"state"`
	ChunkCount   int    `json:"chunk_count"`
}

// Status reports the session's pipeline state for the user.
func (s *QAService) Status(userID uint) *SessionStatus {
	sess := s.lookupSession(userID)
	if sess == nil {
		return &SessionStatus{State: StateIdle.String()}
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return &SessionStatus{
		DocumentName: sess.documentName,
		State:        sess.state.String(),
		ChunkCount:   sess.index.Len(),
	}
}

// EndSession drops the user's in-memory session and index, if any.
func (s *QAService) EndSession(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

func (s *QAService) sessionFor(userID uint) *DocumentSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &DocumentSession{state: StateIdle}
		s.sessions[userID] = sess
	}
	return sess
}

func (s *QAService) lookupSession(userID uint) *DocumentSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}
