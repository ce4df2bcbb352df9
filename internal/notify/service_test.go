package notify

import (
	"strings"
	"testing"
)

func TestServiceIsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected bool
	}{
		{name: "empty config", config: Config{}, expected: false},
		{name: "missing host", config: Config{Port: "587", From: "x@example.com"}, expected: false},
		{name: "missing port", config: Config{Host: "smtp.example.com", From: "x@example.com"}, expected: false},
		{name: "missing from", config: Config{Host: "smtp.example.com", Port: "587"}, expected: false},
		{name: "fully configured", config: Config{Host: "smtp.example.com", Port: "587", From: "x@example.com"}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.config)
			if svc.IsConfigured() != tt.expected {
				t.Errorf("IsConfigured() = %v, want %v", svc.IsConfigured(), tt.expected)
			}
		})
	}
}

func TestSendFailsWhenUnconfigured(t *testing.T) {
	svc := NewService(Config{})
	if err := svc.SendHTMLEmail([]string{"to@example.com"}, "subject", "<p>hi</p>"); err == nil {
		t.Fatal("expected error when email is not configured")
	}
}

func TestTemplatesRender(t *testing.T) {
	html, err := renderTemplate(verificationEmailTemplate, verificationData{
		AppName:         "Casaplan",
		UserName:        "Dana",
		VerificationURL: "https://app.example/verify?token=abc",
	})
	if err != nil {
		t.Fatalf("render verification: %v", err)
	}
	if !strings.Contains(html, "Dana") || !strings.Contains(html, "verify?token=abc") {
		t.Fatal("verification template missing interpolations")
	}

	html, err = renderTemplate(newMaterialsEmailTemplate, newMaterialsData{
		AppName:      "Casaplan",
		ClientName:   "Sam",
		ProjectTitle: "Kitchen Renovation",
		SectionTitle: "Tiles & Countertops",
		WorkspaceURL: "https://app.example/projects/p1/workspace",
	})
	if err != nil {
		t.Fatalf("render new materials: %v", err)
	}
	if !strings.Contains(html, "Kitchen Renovation") || !strings.Contains(html, "Tiles &amp; Countertops") {
		t.Fatal("new materials template missing interpolations")
	}
}
