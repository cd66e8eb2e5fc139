package email

import (
	"context"
	"fmt"
	"net/smtp"

	"pttech-backend/internal/config"
	"pttech-backend/pkg/logger"
)

type VerificationData struct {
	Email      string
	VerifyLink string
	ExpiresIn  string
}

type OrderConfirmationData struct {
	Email       string
	OrderNumber string
	FinalPrice  string
}

type OrderStatusData struct {
	Email       string
	OrderNumber string
	Status      string
	Note        string
}

// Mailer sends transactional mail. The worker is the only caller; the API
// process just enqueues tasks.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, data VerificationData) error
	SendOrderConfirmation(ctx context.Context, data OrderConfirmationData) error
	SendOrderStatusUpdate(ctx context.Context, data OrderStatusData) error
}

type smtpMailer struct {
	addr string
	from string
}

func NewSMTPMailer(cfg config.EmailConfig) Mailer {
	return &smtpMailer{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		from: cfg.From,
	}
}

func (s *smtpMailer) SendVerificationEmail(ctx context.Context, data VerificationData) error {
	subject := "Xác thực tài khoản PTTech"
	body := fmt.Sprintf(`Chào bạn,

Vui lòng click vào link sau để xác thực tài khoản:
%s

Link có hiệu lực %s.

Nếu bạn không đăng ký tài khoản này, vui lòng bỏ qua email này.`, data.VerifyLink, data.ExpiresIn)

	return s.send(data.Email, subject, body)
}

func (s *smtpMailer) SendOrderConfirmation(ctx context.Context, data OrderConfirmationData) error {
	subject := fmt.Sprintf("Cảm ơn bạn đã đặt hàng - %s", data.OrderNumber)
	body := fmt.Sprintf(`Chào bạn,

Đơn hàng %s của bạn đã được tiếp nhận.
Tổng thanh toán: %s VND.

PTTech sẽ thông báo khi đơn hàng được xác nhận.`, data.OrderNumber, data.FinalPrice)

	return s.send(data.Email, subject, body)
}

func (s *smtpMailer) SendOrderStatusUpdate(ctx context.Context, data OrderStatusData) error {
	subject := fmt.Sprintf("Cập nhật đơn hàng %s", data.OrderNumber)
	body := fmt.Sprintf(`Chào bạn,

Đơn hàng %s vừa chuyển sang trạng thái: %s.
%s`, data.OrderNumber, data.Status, data.Note)

	return s.send(data.Email, subject, body)
}

func (s *smtpMailer) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body))

	if err := smtp.SendMail(s.addr, nil, s.from, []string{to}, msg); err != nil {
		logger.Error("send email failed", err)
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
