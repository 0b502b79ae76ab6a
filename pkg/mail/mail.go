package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ErrNoRecipients 未配置收件人
var ErrNoRecipients = errors.New("未配置收件人")

// Message 纯文本邮件
type Message struct {
	To      []string
	Subject string
	Text    string
}

// Sender 邮件发送接口
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// NewSender 根据 API Key 选择发送器：为空时仅记录日志（开发模式）
func NewSender(apiKey, from string, logger *zap.Logger) Sender {
	if apiKey == "" {
		logger.Warn("未配置邮件 API Key，周报仅写入日志")
		return &logSender{logger: logger}
	}
	return &resendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger,
	}
}

// ── Resend 发送器 ──

type resendSender struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

func (s *resendSender) Send(ctx context.Context, msg *Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	s.logger.Info("邮件发送成功", zap.String("id", sent.Id), zap.Strings("to", msg.To))
	return nil
}

// ── 日志发送器（开发模式） ──

type logSender struct {
	logger *zap.Logger
}

func (s *logSender) Send(_ context.Context, msg *Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	s.logger.Info("[开发模式] 邮件未实际发送",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("length", len(msg.Text)),
	)
	return nil
}
