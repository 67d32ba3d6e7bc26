package mailer

import (
	"fmt"

	"arrow-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendResetToken(toEmail, token string) error
	SendInterestNotice(toEmail, investorEmail, pitchTitle string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	clientURL   string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName, clientURL string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		clientURL:   clientURL,
		logger:      log,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send mail", map[string]interface{}{
			"to": toEmail, "subject": subject, "error": err.Error(),
		})
		return err
	}

	s.logger.Info("MAILER", "Mail sent", map[string]interface{}{"to": toEmail, "subject": subject})
	return nil
}

func (s *emailService) SendResetToken(toEmail, token string) error {
	resetLink := fmt.Sprintf("%s/reset?token=%s", s.clientURL, token)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Password Reset Request</h2>
			<p>You requested to reset your Arrow password. Click the button below to proceed:</p>
			<a href="%s" style="background-color: #111827; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
			<p>Or copy this link:</p>
			<p>%s</p>
			<p>This link will expire in 1 hour.</p>
		</div>
	`, resetLink, resetLink)

	return s.send(toEmail, "Reset Your Password", body)
}

func (s *emailService) SendInterestNotice(toEmail, investorEmail, pitchTitle string) error {
	chatLink := fmt.Sprintf("%s/chat", s.clientURL)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>An investor is interested in %s</h2>
			<p><strong>%s</strong> opened a conversation about your pitch.</p>
			<a href="%s">Open your inbox</a>
		</div>
	`, pitchTitle, investorEmail, chatLink)

	return s.send(toEmail, fmt.Sprintf("New interest in %s", pitchTitle), body)
}
