package attach

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		fileName string
		want     Kind
	}{
		{"kitchen.jpg", KindImage},
		{"kitchen.JPEG", KindImage},
		{"floorplan.png", KindImage},
		{"tiles.webp", KindImage},
		{"quote.pdf", KindDocument},
		{"measurements.xlsx", KindDocument},
		{"notes.txt", KindDocument},
		{"slides.pptx", KindDocument},
		{"archive.zip", KindOther},
		{"video.mp4", KindOther},
		{"README", KindOther},
		{"", KindOther},
	}

	for _, tc := range tests {
		if got := Classify(tc.fileName); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.fileName, got, tc.want)
		}
	}
}

func TestValidateUploadByMIME(t *testing.T) {
	if err := ValidateUpload("photo.jpg", "image/jpeg", 1024, 1<<20); err != nil {
		t.Fatalf("jpeg should be allowed: %v", err)
	}
	if err := ValidateUpload("quote.pdf", "application/pdf; charset=binary", 1024, 1<<20); err != nil {
		t.Fatalf("pdf with params should be allowed: %v", err)
	}
	err := ValidateUpload("script.sh", "application/x-sh", 10, 1<<20)
	if !errors.Is(err, ErrTypeNotAllowed) {
		t.Fatalf("expected ErrTypeNotAllowed, got %v", err)
	}
}

func TestValidateUploadExtensionFallback(t *testing.T) {
	// Missing or generic MIME types fall back to the extension table.
	if err := ValidateUpload("photo.png", "", 10, 0); err != nil {
		t.Fatalf("png by extension should be allowed: %v", err)
	}
	if err := ValidateUpload("sheet.xlsx", "application/octet-stream", 10, 0); err != nil {
		t.Fatalf("xlsx by extension should be allowed: %v", err)
	}
	err := ValidateUpload("malware.exe", "", 10, 0)
	if !errors.Is(err, ErrTypeNotAllowed) {
		t.Fatalf("exe must be rejected, got %v", err)
	}
}

func TestValidateUploadSizeLimit(t *testing.T) {
	err := ValidateUpload("photo.jpg", "image/jpeg", 2<<20, 1<<20)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	// Zero limit disables the size check.
	if err := ValidateUpload("photo.jpg", "image/jpeg", 2<<30, 0); err != nil {
		t.Fatalf("unlimited size should pass: %v", err)
	}
}
