package repository

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"feedback-system/backend/internal/model"
)

// FeedbackRepository 反馈数据访问接口
// 所有列表查询均按 created_at 倒序返回，时间相同按 feedback_id 倒序
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	Update(ctx context.Context, feedback *model.Feedback) error
	GetByID(ctx context.Context, id string) (*model.Feedback, error)
	ListAll(ctx context.Context) ([]model.Feedback, error)
	ListUrgent(ctx context.Context) ([]model.Feedback, error)
	// ListByCreatedAtRange 闭区间 [start, end]
	ListByCreatedAtRange(ctx context.Context, start, end time.Time) ([]model.Feedback, error)
	// ListByStudentEmail 邮箱不区分大小写
	ListByStudentEmail(ctx context.Context, email string) ([]model.Feedback, error)
	ListByCourse(ctx context.Context, course string) ([]model.Feedback, error)
	MostRecent(ctx context.Context, n int) ([]model.Feedback, error)
	// AverageByCourse / OverallAverage 无数据时返回 nil
	AverageByCourse(ctx context.Context, course string) (*float64, error)
	OverallAverage(ctx context.Context) (*float64, error)
	CountAll(ctx context.Context) (int64, error)
	CountUrgent(ctx context.Context) (int64, error)
}

// feedbackRepo FeedbackRepository 的 GORM 实现
type feedbackRepo struct {
	db *gorm.DB
}

// NewFeedbackRepo 创建 FeedbackRepository 实例
func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, feedback *model.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepo) Update(ctx context.Context, feedback *model.Feedback) error {
	result := r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Where("feedback_id = ?", feedback.FeedbackID).
		Updates(map[string]interface{}{
			"urgent":     feedback.Urgent,
			"updated_at": feedback.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *feedbackRepo) GetByID(ctx context.Context, id string) (*model.Feedback, error) {
	var feedback model.Feedback
	err := r.db.WithContext(ctx).
		Where("feedback_id = ?", id).
		First(&feedback).Error
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepo) ListAll(ctx context.Context) ([]model.Feedback, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *feedbackRepo) ListUrgent(ctx context.Context) ([]model.Feedback, error) {
	return r.list(r.db.WithContext(ctx).Where("urgent = ?", true))
}

func (r *feedbackRepo) ListByCreatedAtRange(ctx context.Context, start, end time.Time) ([]model.Feedback, error) {
	return r.list(r.db.WithContext(ctx).Where("created_at >= ? AND created_at <= ?", start, end))
}

func (r *feedbackRepo) ListByStudentEmail(ctx context.Context, email string) ([]model.Feedback, error) {
	return r.list(r.db.WithContext(ctx).Where("LOWER(student_email) = LOWER(?)", email))
}

func (r *feedbackRepo) ListByCourse(ctx context.Context, course string) ([]model.Feedback, error) {
	return r.list(r.db.WithContext(ctx).Where("course = ?", course))
}

func (r *feedbackRepo) MostRecent(ctx context.Context, n int) ([]model.Feedback, error) {
	return r.list(r.db.WithContext(ctx).Limit(n))
}

func (r *feedbackRepo) AverageByCourse(ctx context.Context, course string) (*float64, error) {
	return r.average(r.db.WithContext(ctx).Model(&model.Feedback{}).Where("course = ?", course))
}

func (r *feedbackRepo) OverallAverage(ctx context.Context) (*float64, error) {
	return r.average(r.db.WithContext(ctx).Model(&model.Feedback{}))
}

func (r *feedbackRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Feedback{}).Count(&count).Error
	return count, err
}

func (r *feedbackRepo) CountUrgent(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Where("urgent = ?", true).
		Count(&count).Error
	return count, err
}

// ── 内部辅助 ──

func (r *feedbackRepo) list(db *gorm.DB) ([]model.Feedback, error) {
	var feedbacks []model.Feedback
	if err := db.Order("created_at DESC").Order("feedback_id DESC").Find(&feedbacks).Error; err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// average AVG 在空集上返回 NULL，映射为 nil
func (r *feedbackRepo) average(db *gorm.DB) (*float64, error) {
	var avg sql.NullFloat64
	if err := db.Select("AVG(rating)").Row().Scan(&avg); err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}
