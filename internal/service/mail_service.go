package service

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/mail"

	"github.com/cdmi123/progress-report/internal/config"
	"github.com/cdmi123/progress-report/pkg/logger"
	"github.com/cdmi123/progress-report/pkg/monitoring"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const (
	MailProviderConsole  = "console"
	MailProviderSendgrid = "sendgrid"

	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type EmailMessage struct {
	To          mail.Address
	Subject     string
	TextContent string
	HTMLContent string
}

// Mailer 发送单封邮件, 由调用方决定是否等待
type Mailer interface {
	Provider() string
	Send(ctx context.Context, msg EmailMessage) error
}

func NewMailer(cfg config.MailConfig) Mailer {
	from := mail.Address{Name: cfg.FromName, Address: cfg.FromEmail}
	if cfg.Provider == MailProviderSendgrid {
		return &sendgridMailer{
			key:        cfg.SendgridAPIKey,
			from:       sgmail.NewEmail(from.Name, from.Address),
			subjPrefix: cfg.SubjectPrefix,
		}
	}
	return &consoleMailer{from: from, subjPrefix: cfg.SubjectPrefix}
}

// consoleMailer 只写日志, 用于开发环境
type consoleMailer struct {
	from       mail.Address
	subjPrefix string
}

func (m *consoleMailer) Provider() string { return MailProviderConsole }

func (m *consoleMailer) Send(_ context.Context, msg EmailMessage) error {
	logger.Log.Info("Email",
		zap.String("from", m.from.String()),
		zap.String("to", msg.To.String()),
		zap.String("subject", m.subjPrefix+msg.Subject),
		zap.String("body", msg.TextContent))
	return nil
}

type sendgridMailer struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
}

func (m *sendgridMailer) Provider() string { return MailProviderSendgrid }

func (m *sendgridMailer) prepare(msg EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(
		sgmail.NewContent("text/plain", msg.TextContent),
		sgmail.NewContent("text/html", msg.HTMLContent),
	)
	return v3
}

func (m *sendgridMailer) Send(_ context.Context, msg EmailMessage) error {
	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return errors.Wrap(err, "sending email")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sending email - status: %d - body: %s", res.StatusCode, res.Body)
	}
	return nil
}

// Dispatch 在独立 goroutine 中发送, 结果只记录日志与指标, 不影响调用方
func Dispatch(m Mailer, msg EmailMessage) {
	if m == nil || msg.To.Address == "" {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("Email dispatch panicked", zap.Any("panic", r))
			}
		}()
		if err := m.Send(context.Background(), msg); err != nil {
			logger.Log.Error("Email error", zap.String("to", msg.To.Address), zap.Error(err))
			monitoring.NotificationsSent.WithLabelValues(m.Provider(), "failed").Inc()
			return
		}
		monitoring.NotificationsSent.WithLabelValues(m.Provider(), "sent").Inc()
	}()
}

// TopicCompletedMessage 学生完成主题后的通知
func TopicCompletedMessage(to mail.Address, studentName, topicTitle, date string) EmailMessage {
	return EmailMessage{
		To:          to,
		Subject:     fmt.Sprintf("Topic Completed by %s", studentName),
		TextContent: fmt.Sprintf("Dear Admin,\n%s has completed: %s on %s.", studentName, topicTitle, date),
		HTMLContent: fmt.Sprintf("<h3>Progress Update</h3><p>Dear Admin,</p><p><strong>%s</strong> has completed: <strong>%s</strong> on %s.</p>",
			html.EscapeString(studentName), html.EscapeString(topicTitle), html.EscapeString(date)),
	}
}
