package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"feedback-system/backend/internal/model"
	"feedback-system/backend/internal/repository"
)

// newTestRepo 每个测试独立的内存 SQLite 数据库
func newTestRepo(t *testing.T) (*repository.Repository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Feedback{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return repository.NewRepository(db), db
}

var baseTime = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

func seedFeedback(t *testing.T, repo *repository.Repository, course string, rating int, urgent bool, createdAt time.Time, email string) *model.Feedback {
	t.Helper()
	f := &model.Feedback{
		FeedbackID:   uuid.NewString(),
		StudentName:  "Ana",
		StudentEmail: email,
		Course:       course,
		Rating:       rating,
		Comment:      "comment for " + course,
		Urgent:       urgent,
	}
	f.Stamp(createdAt)
	require.NoError(t, repo.Feedback.Create(context.Background(), f))
	return f
}

func ids(list []model.Feedback) []string {
	out := make([]string, 0, len(list))
	for _, f := range list {
		out = append(out, f.FeedbackID)
	}
	return out
}

func feedbackIDs(list ...*model.Feedback) []string {
	out := make([]string, 0, len(list))
	for _, f := range list {
		out = append(out, f.FeedbackID)
	}
	return out
}
