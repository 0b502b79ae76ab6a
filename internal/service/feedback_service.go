package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"feedback-system/backend/internal/dto"
	"feedback-system/backend/internal/model"
	"feedback-system/backend/internal/repository"
	pkgerrors "feedback-system/backend/pkg/errors"
)

// ── 反馈模块业务错误 ──

var (
	ErrFeedbackNotFound = errors.New("反馈不存在")
	ErrInvalidFeedback  = errors.New("反馈内容不合法")
)

const (
	// LastWeekWindow 以调用时刻为终点的滚动窗口，不按自然周对齐
	LastWeekWindow = 7 * 24 * time.Hour

	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

// FeedbackService 反馈业务接口
// 所有列表均按 createdAt 倒序返回
type FeedbackService interface {
	CreateFeedback(ctx context.Context, req *dto.CreateFeedbackRequest) (*model.Feedback, error)
	GetFeedbackByID(ctx context.Context, id string) (*model.Feedback, error)
	GetFeedbacksByStudent(ctx context.Context, email string) ([]model.Feedback, error)
	GetFeedbacksByCourse(ctx context.Context, course string) ([]model.Feedback, error)
	GetAllFeedbacks(ctx context.Context) ([]model.Feedback, error)
	GetUrgentFeedbacks(ctx context.Context) ([]model.Feedback, error)
	GetLastWeekFeedbacks(ctx context.Context) ([]model.Feedback, error)
	// GetFeedbacksBetween 闭区间 [start, end]
	GetFeedbacksBetween(ctx context.Context, start, end time.Time) ([]model.Feedback, error)
	GetRecentFeedbacks(ctx context.Context, limit int) ([]model.Feedback, error)
	// UpdateUrgency 唯一的修改路径，只刷新 updatedAt，不触发通知
	UpdateUrgency(ctx context.Context, id string, urgent bool) (*model.Feedback, error)
	CountAllFeedbacks(ctx context.Context) (int64, error)
	CountUrgentFeedbacks(ctx context.Context) (int64, error)
	// 无反馈时平均分为 0
	CalculateOverallAverageRating(ctx context.Context) (float64, error)
	CalculateAverageRatingByCourse(ctx context.Context, course string) (float64, error)
}

type feedbackService struct {
	repo     *repository.Repository
	notifier NotificationService
	logger   *zap.Logger
	now      func() time.Time
}

// NewFeedbackService 创建 FeedbackService 实例
func NewFeedbackService(repo *repository.Repository, notifier NotificationService, logger *zap.Logger) FeedbackService {
	return &feedbackService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// storeErr 非 not-found 的仓储错误统一归为存储不可用
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", pkgerrors.ErrStoreUnavailable, err)
}

// ═══════════════════════════════════════════════════════════
// CreateFeedback — 提交反馈
// ═══════════════════════════════════════════════════════════
//
// 请求已在 Handler 层完成结构校验，这里再做一次入库前的兜底检查。
// urgent=true 时在持久化成功后异步投递通知，投递结果不影响返回值。

func (s *feedbackService) CreateFeedback(ctx context.Context, req *dto.CreateFeedbackRequest) (*model.Feedback, error) {
	if err := checkFeedback(req); err != nil {
		return nil, err
	}

	fb := &model.Feedback{
		FeedbackID:   uuid.NewString(),
		StudentName:  strings.TrimSpace(req.StudentName),
		StudentEmail: strings.TrimSpace(req.StudentEmail),
		Course:       strings.TrimSpace(req.Course),
		Rating:       req.Rating,
		Comment:      req.Comment,
		Urgent:       req.Urgent,
	}
	fb.Stamp(s.now().UTC())

	if err := s.repo.Feedback.Create(ctx, fb); err != nil {
		s.logger.Error("保存反馈失败", zap.Error(err))
		return nil, storeErr(err)
	}

	s.logger.Info("反馈已创建",
		zap.String("feedback_id", fb.FeedbackID),
		zap.String("course", fb.Course),
		zap.Int("rating", fb.Rating),
		zap.Bool("urgent", fb.Urgent),
	)

	if fb.Urgent {
		s.notifier.DispatchUrgentFeedback(fb)
	}

	return fb, nil
}

func checkFeedback(req *dto.CreateFeedbackRequest) error {
	switch {
	case req.Rating < model.MinRating || req.Rating > model.MaxRating:
		return fmt.Errorf("%w: 评分必须在 %d-%d 之间", ErrInvalidFeedback, model.MinRating, model.MaxRating)
	case strings.TrimSpace(req.Comment) == "":
		return fmt.Errorf("%w: 评论不能为空", ErrInvalidFeedback)
	case utf8.RuneCountInString(req.Comment) > model.MaxCommentLength:
		return fmt.Errorf("%w: 评论不能超过 %d 个字符", ErrInvalidFeedback, model.MaxCommentLength)
	case strings.TrimSpace(req.StudentName) == "",
		strings.TrimSpace(req.StudentEmail) == "",
		strings.TrimSpace(req.Course) == "":
		return fmt.Errorf("%w: 姓名、邮箱与课程不能为空", ErrInvalidFeedback)
	}
	return nil
}

// ── 查询 ──

func (s *feedbackService) GetFeedbackByID(ctx context.Context, id string) (*model.Feedback, error) {
	fb, err := s.repo.Feedback.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		s.logger.Error("查询反馈失败", zap.String("feedback_id", id), zap.Error(err))
		return nil, storeErr(err)
	}
	return fb, nil
}

func (s *feedbackService) GetFeedbacksByStudent(ctx context.Context, email string) ([]model.Feedback, error) {
	return s.list(s.repo.Feedback.ListByStudentEmail(ctx, email))
}

func (s *feedbackService) GetFeedbacksByCourse(ctx context.Context, course string) ([]model.Feedback, error) {
	return s.list(s.repo.Feedback.ListByCourse(ctx, course))
}

func (s *feedbackService) GetAllFeedbacks(ctx context.Context) ([]model.Feedback, error) {
	return s.list(s.repo.Feedback.ListAll(ctx))
}

func (s *feedbackService) GetUrgentFeedbacks(ctx context.Context) ([]model.Feedback, error) {
	return s.list(s.repo.Feedback.ListUrgent(ctx))
}

func (s *feedbackService) GetLastWeekFeedbacks(ctx context.Context) ([]model.Feedback, error) {
	now := s.now().UTC()
	return s.GetFeedbacksBetween(ctx, now.Add(-LastWeekWindow), now)
}

func (s *feedbackService) GetFeedbacksBetween(ctx context.Context, start, end time.Time) ([]model.Feedback, error) {
	return s.list(s.repo.Feedback.ListByCreatedAtRange(ctx, start, end))
}

func (s *feedbackService) GetRecentFeedbacks(ctx context.Context, limit int) ([]model.Feedback, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}
	return s.list(s.repo.Feedback.MostRecent(ctx, limit))
}

func (s *feedbackService) list(items []model.Feedback, err error) ([]model.Feedback, error) {
	if err != nil {
		s.logger.Error("查询反馈列表失败", zap.Error(err))
		return nil, storeErr(err)
	}
	if items == nil {
		items = []model.Feedback{}
	}
	return items, nil
}

// ── 修改 ──

func (s *feedbackService) UpdateUrgency(ctx context.Context, id string, urgent bool) (*model.Feedback, error) {
	fb, err := s.GetFeedbackByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fb.Urgent = urgent
	fb.Touch(s.now().UTC())

	if err := s.repo.Feedback.Update(ctx, fb); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		s.logger.Error("更新反馈紧急标记失败", zap.String("feedback_id", id), zap.Error(err))
		return nil, storeErr(err)
	}

	s.logger.Info("反馈紧急标记已更新",
		zap.String("feedback_id", id),
		zap.Bool("urgent", urgent),
	)
	return fb, nil
}

// ── 统计 ──

func (s *feedbackService) CountAllFeedbacks(ctx context.Context) (int64, error) {
	n, err := s.repo.Feedback.CountAll(ctx)
	if err != nil {
		s.logger.Error("统计反馈总数失败", zap.Error(err))
		return 0, storeErr(err)
	}
	return n, nil
}

func (s *feedbackService) CountUrgentFeedbacks(ctx context.Context) (int64, error) {
	n, err := s.repo.Feedback.CountUrgent(ctx)
	if err != nil {
		s.logger.Error("统计紧急反馈失败", zap.Error(err))
		return 0, storeErr(err)
	}
	return n, nil
}

func (s *feedbackService) CalculateOverallAverageRating(ctx context.Context) (float64, error) {
	return s.average(s.repo.Feedback.OverallAverage(ctx))
}

func (s *feedbackService) CalculateAverageRatingByCourse(ctx context.Context, course string) (float64, error) {
	return s.average(s.repo.Feedback.AverageByCourse(ctx, course))
}

func (s *feedbackService) average(avg *float64, err error) (float64, error) {
	if err != nil {
		s.logger.Error("计算平均分失败", zap.Error(err))
		return 0, storeErr(err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
