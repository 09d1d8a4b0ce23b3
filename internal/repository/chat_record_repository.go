package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"chatdocs/internal/model"
)

// ChatRecordRepository persists question/answer pairs. Every query is scoped
// by user_id; nothing here can touch another user's rows.
type ChatRecordRepository struct {
	db *gorm.DB
}

func NewChatRecordRepository(db *gorm.DB) *ChatRecordRepository {
	return &ChatRecordRepository{db: db}
}

// Create appends one record inside a transaction, so a connection dropped
// mid-insert leaves no partial row.
func (r *ChatRecordRepository) Create(ctx context.Context, record *model.ChatRecord) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
	if err != nil {
		return fmt.Errorf("create chat record failed: %w", err)
	}
	return nil
}

// ListByUserAndDocument returns the user's records for one document name,
// most recent first.
func (r *ChatRecordRepository) ListByUserAndDocument(ctx context.Context, userID uint, pdfName string) ([]model.ChatRecord, error) {
	var records []model.ChatRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND pdf_name = ?", userID, pdfName).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list chat records failed: %w", err)
	}
	return records, nil
}

// ListDocumentNames returns the distinct document names the user has history
// for, most recently used first.
func (r *ChatRecordRepository) ListDocumentNames(ctx context.Context, userID uint) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&model.ChatRecord{}).
		Where("user_id = ?", userID).
		Group("pdf_name").
		Order("MAX(id) DESC").
		Pluck("pdf_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list chat record documents failed: %w", err)
	}
	return names, nil
}

// DeleteByUserAndDocument removes the user's records for one document name.
// Deleting a name with no records is a no-op.
func (r *ChatRecordRepository) DeleteByUserAndDocument(ctx context.Context, userID uint, pdfName string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND pdf_name = ?", userID, pdfName).
		Delete(&model.ChatRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete chat records by document failed: %w", err)
	}
	return nil
}

// DeleteAllByUser removes every record owned by the user. Used directly and
// by the account-deletion purge worker.
func (r *ChatRecordRepository) DeleteAllByUser(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.ChatRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete all chat records failed: %w", err)
	}
	return nil
}
