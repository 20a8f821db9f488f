package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: Mehber <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		if err := smtp.SendMail(addr, auth, s.From, to, msg); err != nil {
			log.Printf("Failed to send email to %v: %v", to, err)
		} else {
			log.Printf("Email sent to %v: %s", to, subject)
		}
	}()
}

// SendWelcomeEmail delivers the activation code after signup.
func (s *MailService) SendWelcomeEmail(to string, code string) {
	body := fmt.Sprintf(`
		<p>Selam, and welcome to Mehber.</p>
		<p>Your activation code is: <strong>%s</strong></p>
		<p>Enter it after signing in to activate your account.</p>`, code)
	s.sendAsync([]string{to}, "Welcome to Mehber — activate your account", body)
}

// SendPasswordResetEmail delivers a password reset code.
func (s *MailService) SendPasswordResetEmail(to string, code string) {
	body := fmt.Sprintf(`
		<p>A password reset was requested for your Mehber account.</p>
		<p>Your reset code is: <strong>%s</strong></p>
		<p>If you did not request this, you can ignore this email.</p>`, code)
	s.sendAsync([]string{to}, "Mehber password reset", body)
}

// SendAnswerNotification tells a question's author their question was
// answered and published.
func (s *MailService) SendAnswerNotification(to, questionTitle, link string) {
	body := fmt.Sprintf(`
		<p>Your question <strong>%s</strong> has been answered and published.</p>
		<p><a href="%s">Read the answer</a></p>`, questionTitle, link)
	s.sendAsync([]string{to}, "Your question has been answered", body)
}

// SendReplyNotification tells a comment author someone replied to them.
func (s *MailService) SendReplyNotification(to, actorName, questionTitle, replyContent, link string) {
	body := fmt.Sprintf(`
		<p><strong>%s</strong> replied to your comment on <strong>%s</strong>:</p>
		<blockquote>%s</blockquote>
		<p><a href="%s">View the discussion</a></p>`, actorName, questionTitle, replyContent, link)
	s.sendAsync([]string{to}, "New reply to your comment", body)
}
