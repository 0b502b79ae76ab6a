package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"feedback-system/backend/config"
	"feedback-system/backend/internal/dto"
	"feedback-system/backend/internal/model"
	"feedback-system/backend/pkg/mail"
)

const (
	// RecentCommentLimit 周报保留的最近评论条数
	RecentCommentLimit = 5

	weeklyMailSubject = "课程反馈周报"
)

// ReportService 报表业务接口
//
// 设计说明：
//   - 只读组合 FeedbackService 的查询结果，不持久化任何状态
//   - 每次调用只取一次当前时间，报表时间字段与查询窗口一致
//   - 周报与全量报表字段不同，互不复用
type ReportService interface {
	GenerateWeeklyReport(ctx context.Context) (*dto.WeeklyReport, error)
	GenerateFullReport(ctx context.Context) (*dto.FullReport, error)
	GenerateWeeklyReportText(ctx context.Context) (string, error)
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
	// ExportWeeklyReport 导出周报为 Excel，返回文件内容与建议文件名
	ExportWeeklyReport(ctx context.Context) (*bytes.Buffer, string, error)
	// SendWeeklyReport 将周报文本发送给配置的收件人
	SendWeeklyReport(ctx context.Context) (*dto.SendReportResponse, error)
}

type reportService struct {
	feedback FeedbackService
	sender   mail.Sender
	mailCfg  config.ReportMailConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService 创建 ReportService 实例
func NewReportService(
	feedback FeedbackService,
	sender mail.Sender,
	mailCfg config.ReportMailConfig,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		feedback: feedback,
		sender:   sender,
		mailCfg:  mailCfg,
		logger:   logger,
		now:      time.Now,
	}
}

// formatRating 按最短十进制表示半数进位，保留两位小数（1.025 → 1.03）
func formatRating(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// formatMean sum/n 精确十进制除法后半数进位；n=0 时为 0.00
func formatMean(sum, n int) string {
	if n == 0 {
		return "0.00"
	}
	return decimal.NewFromInt(int64(sum)).DivRound(decimal.NewFromInt(int64(n)), 2).StringFixed(2)
}

// ═══════════════════════════════════════════════════════════
// GenerateWeeklyReport — 最近 7 天周报
// ═══════════════════════════════════════════════════════════

func (s *reportService) GenerateWeeklyReport(ctx context.Context) (*dto.WeeklyReport, error) {
	now := s.now().UTC()
	start := now.Add(-LastWeekWindow)

	entries, err := s.feedback.GetFeedbacksBetween(ctx, start, now)
	if err != nil {
		return nil, err
	}

	report := buildWeeklyReport(now, start, entries)
	s.logger.Info("周报已生成",
		zap.Int("total", report.TotalFeedbacks),
		zap.Int("urgent", report.UrgentFeedbacks),
		zap.Int("critical", report.CriticalFeedbacks),
	)
	return report, nil
}

// buildWeeklyReport entries 须已按 createdAt 倒序
func buildWeeklyReport(now, start time.Time, entries []model.Feedback) *dto.WeeklyReport {
	report := &dto.WeeklyReport{
		ReportGeneratedAt:  now.Format(dto.TimeFormat),
		PeriodStart:        start.Format(dto.TimeFormat),
		PeriodEnd:          now.Format(dto.TimeFormat),
		TotalFeedbacks:     len(entries),
		RatingDistribution: make(map[int]int),
		TopCourses:         make(map[string]int),
		RecentComments:     make([]dto.RecentComment, 0, RecentCommentLimit),
	}

	sum := 0
	for i := range entries {
		f := &entries[i]
		sum += f.Rating
		if f.Urgent {
			report.UrgentFeedbacks++
		}
		if f.IsCritical() {
			report.CriticalFeedbacks++
		}
		report.RatingDistribution[f.Rating]++
		report.TopCourses[f.Course]++

		if len(report.RecentComments) < RecentCommentLimit {
			report.RecentComments = append(report.RecentComments, dto.RecentComment{
				Course:  f.Course,
				Rating:  fmt.Sprintf("%d", f.Rating),
				Comment: f.Comment,
				Date:    f.CreatedAt.Format(dto.TimeFormat),
			})
		}
	}

	report.AverageRating = formatMean(sum, len(entries))

	return report
}

// ═══════════════════════════════════════════════════════════
// GenerateFullReport — 全量报表
// ═══════════════════════════════════════════════════════════

func (s *reportService) GenerateFullReport(ctx context.Context) (*dto.FullReport, error) {
	now := s.now().UTC()

	total, err := s.feedback.CountAllFeedbacks(ctx)
	if err != nil {
		return nil, err
	}
	avg, err := s.feedback.CalculateOverallAverageRating(ctx)
	if err != nil {
		return nil, err
	}
	urgent, err := s.feedback.CountUrgentFeedbacks(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("全量报表已生成", zap.Int64("total", total))

	return &dto.FullReport{
		ReportGeneratedAt:    now.Format(dto.TimeFormat),
		TotalFeedbacks:       total,
		OverallAverageRating: formatRating(avg),
		TotalUrgentFeedbacks: urgent,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// GenerateWeeklyReportText — 周报文本
// ═══════════════════════════════════════════════════════════

func (s *reportService) GenerateWeeklyReportText(ctx context.Context) (string, error) {
	report, err := s.GenerateWeeklyReport(ctx)
	if err != nil {
		return "", err
	}
	return RenderWeeklyReportText(report), nil
}

const (
	heavyRule = "═══════════════════════════════════════════════════"
	lightRule = "─────────────────────────────────────────────────"
)

// RenderWeeklyReportText 固定段落顺序：标题、周期、生成时间、总体统计、评分分布（5→1，缺失补 0）、结尾
func RenderWeeklyReportText(r *dto.WeeklyReport) string {
	var b strings.Builder

	b.WriteString(heavyRule + "\n")
	b.WriteString("            课程反馈周报\n")
	b.WriteString(heavyRule + "\n\n")
	fmt.Fprintf(&b, "📅 统计周期: %s 至 %s\n", r.PeriodStart, r.PeriodEnd)
	fmt.Fprintf(&b, "🕐 生成时间: %s\n\n", r.ReportGeneratedAt)

	b.WriteString("📊 总体统计\n")
	b.WriteString(lightRule + "\n")
	fmt.Fprintf(&b, "反馈总数: %d\n", r.TotalFeedbacks)
	fmt.Fprintf(&b, "紧急反馈: %d\n", r.UrgentFeedbacks)
	fmt.Fprintf(&b, "低分反馈 (评分 ≤ %d): %d\n", model.CriticalRating, r.CriticalFeedbacks)
	fmt.Fprintf(&b, "平均评分: %s ⭐\n\n", r.AverageRating)

	b.WriteString("📈 评分分布\n")
	b.WriteString(lightRule + "\n")
	for rating := model.MaxRating; rating >= model.MinRating; rating-- {
		fmt.Fprintf(&b, "⭐ %d 星: %d\n", rating, r.RatingDistribution[rating])
	}

	b.WriteString("\n" + heavyRule + "\n")
	return b.String()
}

// ── 统计 ──

func (s *reportService) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	total, err := s.feedback.CountAllFeedbacks(ctx)
	if err != nil {
		return nil, err
	}
	urgent, err := s.feedback.CountUrgentFeedbacks(ctx)
	if err != nil {
		return nil, err
	}
	avg, err := s.feedback.CalculateOverallAverageRating(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		TotalFeedbacks:  total,
		UrgentFeedbacks: urgent,
		AverageRating:   avg,
	}, nil
}

// ── 邮件 ──

func (s *reportService) SendWeeklyReport(ctx context.Context) (*dto.SendReportResponse, error) {
	if len(s.mailCfg.Recipients) == 0 {
		return nil, mail.ErrNoRecipients
	}

	text, err := s.GenerateWeeklyReportText(ctx)
	if err != nil {
		return nil, err
	}

	sentAt := s.now().UTC()
	msg := &mail.Message{
		To:      s.mailCfg.Recipients,
		Subject: fmt.Sprintf("%s %s", weeklyMailSubject, sentAt.Format("2006-01-02")),
		Text:    text,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("周报邮件发送失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("周报邮件已发送", zap.Int("recipients", len(msg.To)))
	return &dto.SendReportResponse{
		Recipients: len(msg.To),
		SentAt:     sentAt.Format(dto.TimeFormat),
	}, nil
}
