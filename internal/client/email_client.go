package client

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// SMTPConfig SMTP 설정 구조체
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// emailClient SMTP를 통한 이메일 발송 채널
type emailClient struct {
	config SMTPConfig
	logger *zap.Logger
}

// NewEmailClient SMTP 이메일 채널 생성
func NewEmailClient(cfg SMTPConfig, logger *zap.Logger) Channel {
	return &emailClient{
		config: cfg,
		logger: logger,
	}
}

func (c *emailClient) Name() string {
	return "email"
}

func (c *emailClient) Send(ctx context.Context, msg OutboundMessage) error {
	if msg.Email == "" {
		return fmt.Errorf("수신자 이메일이 없습니다")
	}

	auth := smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)
	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)

	// 이메일 헤더 설정
	headers := make(map[string]string)
	headers["From"] = c.config.From
	headers["To"] = msg.Email
	headers["Subject"] = msg.Title
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=\"utf-8\""

	var message string
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + msg.Body

	if err := smtp.SendMail(addr, auth, c.config.From, []string{msg.Email}, []byte(message)); err != nil {
		c.logger.Error("이메일 발송 실패",
			zap.String("to", msg.Email),
			zap.String("subject", msg.Title),
			zap.Error(err),
		)
		return fmt.Errorf("이메일 발송 실패: %w", err)
	}

	c.logger.Info("이메일 발송 성공",
		zap.String("to", msg.Email),
		zap.String("subject", msg.Title),
	)
	return nil
}
