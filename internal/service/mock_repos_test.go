package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"feedback-system/backend/internal/model"
	"feedback-system/backend/internal/repository"
)

// errStoreDown 模拟数据库不可用
var errStoreDown = errors.New("connection refused")

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: email
	err   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.UserID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.users[email]
	return ok, nil
}

// ── Mock FeedbackRepository ──

type mockFeedbackRepo struct {
	feedbacks map[string]*model.Feedback
	err       error
}

func newMockFeedbackRepo() *mockFeedbackRepo {
	return &mockFeedbackRepo{feedbacks: make(map[string]*model.Feedback)}
}

func (m *mockFeedbackRepo) Create(_ context.Context, f *model.Feedback) error {
	if m.err != nil {
		return m.err
	}
	cp := *f
	m.feedbacks[f.FeedbackID] = &cp
	return nil
}

func (m *mockFeedbackRepo) Update(_ context.Context, f *model.Feedback) error {
	if m.err != nil {
		return m.err
	}
	stored, ok := m.feedbacks[f.FeedbackID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Urgent = f.Urgent
	stored.UpdatedAt = f.UpdatedAt
	return nil
}

func (m *mockFeedbackRepo) GetByID(_ context.Context, id string) (*model.Feedback, error) {
	if m.err != nil {
		return nil, m.err
	}
	if f, ok := m.feedbacks[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// filter 按 created_at 倒序返回满足条件的记录
func (m *mockFeedbackRepo) filter(keep func(f *model.Feedback) bool) ([]model.Feedback, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Feedback
	for _, f := range m.feedbacks {
		if keep(f) {
			result = append(result, *f)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].FeedbackID > result[j].FeedbackID
	})
	return result, nil
}

func (m *mockFeedbackRepo) ListAll(_ context.Context) ([]model.Feedback, error) {
	return m.filter(func(*model.Feedback) bool { return true })
}

func (m *mockFeedbackRepo) ListUrgent(_ context.Context) ([]model.Feedback, error) {
	return m.filter(func(f *model.Feedback) bool { return f.Urgent })
}

func (m *mockFeedbackRepo) ListByCreatedAtRange(_ context.Context, start, end time.Time) ([]model.Feedback, error) {
	return m.filter(func(f *model.Feedback) bool {
		return !f.CreatedAt.Before(start) && !f.CreatedAt.After(end)
	})
}

func (m *mockFeedbackRepo) ListByStudentEmail(_ context.Context, email string) ([]model.Feedback, error) {
	return m.filter(func(f *model.Feedback) bool { return strings.EqualFold(f.StudentEmail, email) })
}

func (m *mockFeedbackRepo) ListByCourse(_ context.Context, course string) ([]model.Feedback, error) {
	return m.filter(func(f *model.Feedback) bool { return f.Course == course })
}

func (m *mockFeedbackRepo) MostRecent(ctx context.Context, n int) ([]model.Feedback, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (m *mockFeedbackRepo) average(keep func(f *model.Feedback) bool) (*float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	sum, n := 0, 0
	for _, f := range m.feedbacks {
		if keep(f) {
			sum += f.Rating
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := float64(sum) / float64(n)
	return &avg, nil
}

func (m *mockFeedbackRepo) AverageByCourse(_ context.Context, course string) (*float64, error) {
	return m.average(func(f *model.Feedback) bool { return f.Course == course })
}

func (m *mockFeedbackRepo) OverallAverage(_ context.Context) (*float64, error) {
	return m.average(func(*model.Feedback) bool { return true })
}

func (m *mockFeedbackRepo) CountAll(_ context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.feedbacks)), nil
}

func (m *mockFeedbackRepo) CountUrgent(ctx context.Context) (int64, error) {
	urgent, err := m.ListUrgent(ctx)
	return int64(len(urgent)), err
}

// ── Mock NotificationService ──

type mockNotifier struct {
	mu         sync.Mutex
	dispatched []string // feedback ids
}

func (m *mockNotifier) DispatchUrgentFeedback(fb *model.Feedback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatched = append(m.dispatched, fb.FeedbackID)
}

func (m *mockNotifier) Wait() {}

func (m *mockNotifier) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.dispatched...)
}

// ── Helpers ──

func newMockRepository(users *mockUserRepo, feedbacks *mockFeedbackRepo) *repository.Repository {
	return &repository.Repository{User: users, Feedback: feedbacks}
}

// fixedClock 返回可手动推进的时钟
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

func (c *fixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var testNow = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
