package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"maria@example.com", "a.b+c@sub.example.pt", " UPPER@EXAMPLE.COM "}
	for _, e := range valid {
		if !ValidateEmail(e) {
			t.Errorf("expected %q to be valid", e)
		}
	}
	invalid := []string{"", "semarroba", "a@b", "a @b.com"}
	for _, e := range invalid {
		if ValidateEmail(e) {
			t.Errorf("expected %q to be invalid", e)
		}
	}
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"about", "contact-intro", "hero2026"}
	for _, s := range valid {
		if !ValidateSlug(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	invalid := []string{"", "About", "has space", "-leading", "semi;colon"}
	for _, s := range invalid {
		if ValidateSlug(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  olá\x00mundo  "); got != "olámundo" {
		t.Errorf("SanitizeString = %q", got)
	}
}

func TestSanitizeHeader(t *testing.T) {
	if got := SanitizeHeader("Maria\r\nBcc: intruso@example.com"); got != "Maria Bcc: intruso@example.com" {
		t.Errorf("SanitizeHeader = %q", got)
	}
	if got := SanitizeHeader("  Maria  "); got != "Maria" {
		t.Errorf("SanitizeHeader = %q", got)
	}
}
