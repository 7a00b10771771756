package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/aquarela/backend/internal/config"
	"github.com/aquarela/backend/pkg/validation"
)

// contactEmailTemplate renders the contact-form relay mail.
var contactEmailTemplate = template.Must(template.New("contact").Parse(`
<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
    <h2 style="color: #2563eb;">Nova Mensagem de Contacto</h2>
    <p><strong>Nome:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <div style="background-color: #f3f4f6; padding: 15px; border-radius: 8px; margin: 20px 0;">
        <p style="margin: 0;">{{.Message}}</p>
    </div>
    <p style="font-size: 12px; color: #666;">Recebido via formulário de contacto do site.</p>
</div>`))

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendContactMessage relays a contact-form submission to the configured
// recipient, with Reply-To pointing back at the visitor.
func (s *EmailService) SendContactMessage(name, email, message string) error {
	msg, err := s.buildContactMessage(name, email, message)
	if err != nil {
		return err
	}
	return s.sendSMTP(s.cfg.ContactRecipient, msg)
}

// buildContactMessage assembles the raw mail. The visitor name ends up in the
// Subject line, so it must not carry CRLF that would terminate the header.
func (s *EmailService) buildContactMessage(name, email, message string) ([]byte, error) {
	name = validation.SanitizeHeader(name)

	data := map[string]interface{}{
		"Name":    name,
		"Email":   email,
		"Message": template.HTML(template.HTMLEscapeString(message)),
	}

	var body bytes.Buffer
	if err := contactEmailTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("Nova Mensagem de %s - Portfólio", name)
	from := fmt.Sprintf("%s <%s>", s.cfg.SMTPFromName, s.cfg.SMTPFrom)

	msg := fmt.Sprintf("From: %s\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", s.cfg.ContactRecipient)
	msg += fmt.Sprintf("Reply-To: %s\r\n", email)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	msg += "\r\n"
	msg += body.String()

	return []byte(msg), nil
}

// sendSMTP sends an email via SMTP
func (s *EmailService) sendSMTP(to string, message []byte) error {
	// Setup authentication
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	// For TLS connection (port 465)
	if s.cfg.SMTPPort == 465 {
		tlsConfig := &tls.Config{
			ServerName: s.cfg.SMTPHost,
		}

		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Close()

		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err := client.Mail(s.cfg.SMTPFrom); err != nil {
			return err
		}
		if err := client.Rcpt(to); err != nil {
			return err
		}

		w, err := client.Data()
		if err != nil {
			return err
		}
		_, err = w.Write(message)
		if err != nil {
			return err
		}
		err = w.Close()
		if err != nil {
			return err
		}

		return client.Quit()
	}

	// For STARTTLS connection (port 587)
	return smtp.SendMail(addr, auth, s.cfg.SMTPFrom, []string{to}, message)
}
