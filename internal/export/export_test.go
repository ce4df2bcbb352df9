package export

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFindChromiumMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if _, err := findChromium(); !errors.Is(err, ErrPDFDependencyMissing) {
		t.Fatalf("expected ErrPDFDependencyMissing, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Kitchen Renovation", "Kitchen-Renovation"},
		{"Bathroom v1.2", "Bathroom-v12"},
		{"Special!@#$%Chars", "SpecialChars"},
		{"", "workspace"},
		{"Very Long Title That Exceeds Fifty Characters Limit", "Very-Long-Title-That-Exceeds-Fifty-Characters-Limi"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := sanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPercentEncodeForDataURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello world", "hello%20world"},
		{"test+sign", "test%2Bsign"},
		{"special<>", "special%3C%3E"},
		{"normal-text.txt", "normal-text.txt"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := percentEncodeForDataURL(tt.input)
			if result != tt.expected {
				t.Errorf("percentEncodeForDataURL(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRenderWorkspaceHTML(t *testing.T) {
	price := "1450.00 EUR"
	data := TemplateData{
		ProjectTitle:     "Kitchen Renovation",
		ClientName:       "Sam",
		ProfessionalName: "Dana",
		GeneratedAt:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		IncludePrice:     true,
		Sections: []TemplateSection{
			{
				Title:       "Tiles & Countertops",
				Description: "Options we discussed on site",
				Attachments: []string{"floorplan.pdf"},
				Items: []TemplateItem{
					{
						Title:     "Carrara marble top",
						Type:      "product",
						StoreName: "StoneWorks",
						Price:     price,
						Reactions: []string{"Sam: love"},
						Comments:  []TemplateComment{{Author: "Sam", Content: "Can we see a sample?"}},
					},
				},
			},
		},
	}

	html, err := RenderWorkspaceHTML(data)
	if err != nil {
		t.Fatalf("RenderWorkspaceHTML() error = %v", err)
	}

	for _, want := range []string{
		"Kitchen Renovation",
		"Tiles &amp; Countertops",
		"Options we discussed on site",
		"floorplan.pdf",
		"Carrara marble top",
		"1450.00 EUR",
		"Sam: love",
		"Can we see a sample?",
		"Mar 14, 2026",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestRenderWorkspaceHTMLHidesPrice(t *testing.T) {
	data := TemplateData{
		ProjectTitle: "Kitchen Renovation",
		GeneratedAt:  time.Now(),
		IncludePrice: false,
		Sections: []TemplateSection{
			{Title: "Tiles", Items: []TemplateItem{{Title: "Marble top", Type: "product", Price: "1450.00 EUR"}}},
		},
	}

	html, err := RenderWorkspaceHTML(data)
	if err != nil {
		t.Fatalf("RenderWorkspaceHTML() error = %v", err)
	}
	if strings.Contains(html, "1450.00 EUR") {
		t.Error("price should be omitted when IncludePrice is false")
	}
}

func TestRenderWorkspaceHTMLEmpty(t *testing.T) {
	html, err := RenderWorkspaceHTML(TemplateData{ProjectTitle: "New Project", GeneratedAt: time.Now()})
	if err != nil {
		t.Fatalf("RenderWorkspaceHTML() error = %v", err)
	}
	if !strings.Contains(html, "No materials have been shared yet.") {
		t.Error("empty workspace should render placeholder text")
	}
}
