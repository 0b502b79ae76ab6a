package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"feedback-system/backend/config"
	"feedback-system/backend/internal/dto"
	"feedback-system/backend/internal/model"
)

// DispatchState 单次通知投递状态：PREPARING → SENT | FAILED，均为终态
type DispatchState string

const (
	DispatchPreparing DispatchState = "PREPARING"
	DispatchSent      DispatchState = "SENT"
	DispatchFailed    DispatchState = "FAILED"
)

// NotificationService 紧急反馈通知接口
//
// 设计说明：
//   - 尽力而为、至多一次：不重试、不排队
//   - 投递在独立 goroutine 中执行，调用方从不等待其结果
//   - 投递失败只记录日志，不影响已持久化的反馈
type NotificationService interface {
	// DispatchUrgentFeedback 异步投递一条紧急反馈
	DispatchUrgentFeedback(fb *model.Feedback)
	// Wait 等待所有进行中的投递结束（仅用于优雅关闭与测试）
	Wait()
}

// urgentPayload 发往外部通知端点的固定结构
type urgentPayload struct {
	FeedbackID   string `json:"feedbackId"`
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
	Course       string `json:"course"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CreatedAt    string `json:"createdAt"`
}

func newUrgentPayload(fb *model.Feedback) urgentPayload {
	return urgentPayload{
		FeedbackID:   fb.FeedbackID,
		StudentName:  fb.StudentName,
		StudentEmail: fb.StudentEmail,
		Course:       fb.Course,
		Rating:       fb.Rating,
		Comment:      fb.Comment,
		CreatedAt:    fb.CreatedAt.Format(dto.TimeFormat),
	}
}

type notificationService struct {
	url     string
	timeout time.Duration
	client  *http.Client
	wg      sync.WaitGroup
	logger  *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(cfg *config.NotificationConfig, logger *zap.Logger) NotificationService {
	return &notificationService{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		client: &http.Client{
			Timeout: cfg.Timeout,
			// 不跟随重定向，3xx 按失败处理
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger.Named("notification"),
	}
}

func (s *notificationService) DispatchUrgentFeedback(fb *model.Feedback) {
	logger := s.logger.With(zap.String("feedback_id", fb.FeedbackID))
	logger.Info("准备发送紧急反馈通知", zap.String("state", string(DispatchPreparing)))

	// 在请求路径上完成序列化，goroutine 不再引用 fb
	body, err := json.Marshal(newUrgentPayload(fb))
	if err != nil {
		logger.Error("序列化通知内容失败",
			zap.String("state", string(DispatchFailed)),
			zap.Error(err),
		)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("通知投递 panic",
					zap.String("state", string(DispatchFailed)),
					zap.Any("panic", r),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.send(ctx, body, logger)
	}()
}

func (s *notificationService) Wait() {
	s.wg.Wait()
}

// send 同步执行一次投递并返回终态
func (s *notificationService) send(ctx context.Context, body []byte, logger *zap.Logger) DispatchState {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		logger.Error("构造通知请求失败",
			zap.String("state", string(DispatchFailed)),
			zap.Error(err),
		)
		return DispatchFailed
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error("紧急反馈通知发送失败",
			zap.String("state", string(DispatchFailed)),
			zap.String("url", s.url),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return DispatchFailed
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.Error("紧急反馈通知被拒绝",
			zap.String("state", string(DispatchFailed)),
			zap.String("url", s.url),
			zap.Int("status", resp.StatusCode),
		)
		return DispatchFailed
	}

	logger.Info("紧急反馈通知发送成功",
		zap.String("state", string(DispatchSent)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	return DispatchSent
}
