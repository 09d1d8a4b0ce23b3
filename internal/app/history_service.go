package app

import (
	"context"
	"fmt"
	"strings"

	"chatdocs/internal/model"
	"chatdocs/internal/repository"
)

// HistoryCache is satisfied by cache.HistoryCache; an interface so tests can
// substitute a fake and the services tolerate running without redis.
type HistoryCache interface {
	GetHistory(ctx context.Context, userID uint, pdfName string) ([]model.ChatRecord, bool, error)
	SetHistory(ctx context.Context, userID uint, pdfName string, records []model.ChatRecord) error
	DeleteHistory(ctx context.Context, userID uint, pdfName string) error
	PurgeUser(ctx context.Context, userID uint) error
	MarkDirty(ctx context.Context, userID uint, pdfName string) error
	IsDirty(ctx context.Context, userID uint, pdfName string) (bool, error)
}

// HistoryService serves the per-user chat history. Every operation is scoped
// to the caller's user id; that scoping is the only authorization boundary
// the core enforces.
type HistoryService struct {
	repo      *repository.ChatRecordRepository
	histCache HistoryCache
}

func NewHistoryService(repo *repository.ChatRecordRepository, histCache HistoryCache) *HistoryService {
	return &HistoryService{
		repo:      repo,
		histCache: histCache,
	}
}

// List returns the user's records for one document name, most recent first.
func (s *HistoryService) List(ctx context.Context, userID uint, pdfName string) ([]model.ChatRecord, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	pdfName = strings.TrimSpace(pdfName)
	if pdfName == "" {
		return nil, ErrInvalidInput
	}

	if s.histCache != nil {
		dirty, err := s.histCache.IsDirty(ctx, userID, pdfName)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.histCache.GetHistory(ctx, userID, pdfName); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	records, err := s.repo.ListByUserAndDocument(ctx, userID, pdfName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if s.histCache != nil {
		if dirty, dirtyErr := s.histCache.IsDirty(ctx, userID, pdfName); dirtyErr == nil && !dirty {
			_ = s.histCache.SetHistory(ctx, userID, pdfName, records)
		}
	}
	return records, nil
}

// ListDocuments returns the document names the user has history for.
func (s *HistoryService) ListDocuments(ctx context.Context, userID uint) ([]string, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	names, err := s.repo.ListDocumentNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return names, nil
}

// Delete removes the user's history for one document name. Idempotent.
func (s *HistoryService) Delete(ctx context.Context, userID uint, pdfName string) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	pdfName = strings.TrimSpace(pdfName)
	if pdfName == "" {
		return ErrInvalidInput
	}

	if err := s.repo.DeleteByUserAndDocument(ctx, userID, pdfName); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if s.histCache != nil {
		_ = s.histCache.DeleteHistory(ctx, userID, pdfName)
	}
	return nil
}

// DeleteAll removes every record owned by the user. Idempotent.
func (s *HistoryService) DeleteAll(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	if err := s.repo.DeleteAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if s.histCache != nil {
		_ = s.histCache.PurgeUser(ctx, userID)
	}
	return nil
}
