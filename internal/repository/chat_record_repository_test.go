package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chatdocs/internal/model"
)

func newTestRepo(t *testing.T) *ChatRecordRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ChatRecord{}))
	return NewChatRecordRepository(db)
}

func seedRecord(t *testing.T, repo *ChatRecordRepository, userID uint, doc, q, a string, at time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &model.ChatRecord{
		UserID:    userID,
		PDFName:   doc,
		Question:  q,
		Answer:    a,
		CreatedAt: at,
	}))
}

func TestCreateAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Now().Truncate(time.Second)

	seedRecord(t, repo, 1, "report.pdf", "first question", "first answer", base)
	seedRecord(t, repo, 1, "report.pdf", "second question", "second answer", base.Add(time.Minute))

	records, err := repo.ListByUserAndDocument(ctx, 1, "report.pdf")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// most recent first, text stored verbatim
	assert.Equal(t, "second question", records[0].Question)
	assert.Equal(t, "second answer", records[0].Answer)
	assert.Equal(t, "first question", records[1].Question)
	assert.False(t, records[0].CreatedAt.Before(records[1].CreatedAt))
}

func TestList_SameTimestampOrdersByInsertion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	at := time.Now().Truncate(time.Second)

	seedRecord(t, repo, 1, "doc.txt", "q1", "a1", at)
	seedRecord(t, repo, 1, "doc.txt", "q2", "a2", at)

	records, err := repo.ListByUserAndDocument(ctx, 1, "doc.txt")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "q2", records[0].Question)
	assert.Equal(t, "q1", records[1].Question)
}

func TestList_ScopedByUserAndDocument(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	seedRecord(t, repo, 1, "a.pdf", "q", "a", now)
	seedRecord(t, repo, 2, "a.pdf", "q", "a", now)
	seedRecord(t, repo, 1, "b.pdf", "q", "a", now)

	records, err := repo.ListByUserAndDocument(ctx, 1, "a.pdf")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = repo.ListByUserAndDocument(ctx, 3, "a.pdf")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListDocumentNames(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	seedRecord(t, repo, 1, "old.pdf", "q", "a", now)
	seedRecord(t, repo, 1, "new.csv", "q", "a", now)
	seedRecord(t, repo, 2, "other.pdf", "q", "a", now)

	names, err := repo.ListDocumentNames(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"new.csv", "old.pdf"}, names)
}

func TestDeleteByUserAndDocument(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	seedRecord(t, repo, 1, "a.pdf", "q", "a", now)
	seedRecord(t, repo, 2, "a.pdf", "q", "a", now)

	require.NoError(t, repo.DeleteByUserAndDocument(ctx, 1, "a.pdf"))

	records, err := repo.ListByUserAndDocument(ctx, 1, "a.pdf")
	require.NoError(t, err)
	assert.Empty(t, records)

	// other user's rows untouched
	records, err = repo.ListByUserAndDocument(ctx, 2, "a.pdf")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	// idempotent
	require.NoError(t, repo.DeleteByUserAndDocument(ctx, 1, "a.pdf"))
}

func TestDeleteAllByUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	seedRecord(t, repo, 1, "a.pdf", "q", "a", now)
	seedRecord(t, repo, 1, "b.pdf", "q", "a", now)
	seedRecord(t, repo, 2, "c.pdf", "q", "a", now)

	require.NoError(t, repo.DeleteAllByUser(ctx, 1))

	names, err := repo.ListDocumentNames(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, names)

	names, err = repo.ListDocumentNames(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c.pdf"}, names)

	// idempotent
	require.NoError(t, repo.DeleteAllByUser(ctx, 1))
}
