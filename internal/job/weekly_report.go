package job

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"feedback-system/backend/internal/dto"
)

// DefaultWeeklyInterval 周报发送间隔
const DefaultWeeklyInterval = 7 * 24 * time.Hour

// ReportSender 周报发送方（由 ReportService 实现）
type ReportSender interface {
	SendWeeklyReport(ctx context.Context) (*dto.SendReportResponse, error)
}

// WeeklyReportJob 定时发送周报邮件
// 单次失败只记录日志，循环继续
type WeeklyReportJob struct {
	sender   ReportSender
	interval time.Duration
	logger   *zap.Logger
	started  atomic.Bool
}

// NewWeeklyReportJob 创建周报任务；interval<=0 时使用默认 7 天
func NewWeeklyReportJob(sender ReportSender, interval time.Duration, logger *zap.Logger) *WeeklyReportJob {
	if interval <= 0 {
		interval = DefaultWeeklyInterval
	}
	return &WeeklyReportJob{
		sender:   sender,
		interval: interval,
		logger:   logger.Named("weekly_report_job"),
	}
}

// Run 阻塞运行，直到 ctx 取消
func (j *WeeklyReportJob) Run(ctx context.Context) error {
	if !j.started.CompareAndSwap(false, true) {
		return errors.New("周报任务已启动")
	}

	j.logger.Info("周报任务已启动", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("周报任务已停止")
			return nil
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *WeeklyReportJob) runOnce(ctx context.Context) {
	res, err := j.sender.SendWeeklyReport(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		j.logger.Error("周报发送失败", zap.Error(err))
		return
	}
	j.logger.Info("周报发送完成", zap.Int("recipients", res.Recipients))
}
