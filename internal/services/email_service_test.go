package services

import (
	"strings"
	"testing"

	"github.com/aquarela/backend/internal/config"
)

func testEmailService() *EmailService {
	return NewEmailService(&config.Config{
		SMTPFrom:         "site@example.com",
		SMTPFromName:     "Site Teste",
		ContactRecipient: "dona@example.com",
	})
}

func TestContactMessageNeutralizesHeaderInjection(t *testing.T) {
	svc := testEmailService()

	msg, err := svc.buildContactMessage("Maria\r\nBcc: intruso@example.com", "maria@example.com", "Olá")
	if err != nil {
		t.Fatalf("buildContactMessage failed: %v", err)
	}

	headers := strings.SplitN(string(msg), "\r\n\r\n", 2)[0]
	for _, line := range strings.Split(headers, "\r\n") {
		if strings.HasPrefix(line, "Bcc:") {
			t.Fatalf("injected header survived as its own line: %q", line)
		}
	}
	if !strings.Contains(headers, "Subject: Nova Mensagem de Maria Bcc: intruso@example.com - Portfólio") {
		t.Errorf("name not collapsed into inert subject text:\n%s", headers)
	}
}

func TestContactMessageEscapesBodyHTML(t *testing.T) {
	svc := testEmailService()

	msg, err := svc.buildContactMessage("Maria", "maria@example.com", "<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("buildContactMessage failed: %v", err)
	}

	body := string(msg)
	if strings.Contains(body, "<script>") {
		t.Error("message body not HTML-escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("expected escaped markup in body")
	}
	if !strings.Contains(body, "Reply-To: maria@example.com") {
		t.Error("Reply-To header missing")
	}
}
