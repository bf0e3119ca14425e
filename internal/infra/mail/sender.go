package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from, bookURL string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		BookURL:  bookURL,
	}
}

// SendWelcome renders the welcome template and ships it over SMTP. Hot leads
// get the same email as everyone else for now; the category only shapes the
// subject line.
func (s *EmailSender) SendWelcome(to, name, category string) error {
	data := WelcomeEmailData{
		Name:     name,
		Category: category,
		BookURL:  s.BookURL,
	}

	tmplPath := filepath.Join("templates", "welcome.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("failed to read email template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	subject := fmt.Sprintf("Welcome, %s! Let's get your business working for you 🚀", name)
	if category == "hot" {
		subject = fmt.Sprintf("%s, let's talk this week", name)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send SMTP email: %w", err)
	}

	return nil
}
