// Package attach classifies section attachments and gates uploads.
package attach

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
	KindOther    Kind = "other"
)

var (
	// ErrTypeNotAllowed indicates the file type is outside the upload allow-list.
	ErrTypeNotAllowed = errors.New("file type not allowed")
	// ErrTooLarge indicates the file exceeds the configured size limit.
	ErrTooLarge = errors.New("file too large")
)

var imageExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".bmp": {},
}

var documentExts = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {},
	".ppt": {}, ".pptx": {}, ".txt": {},
}

var allowedMIMETypes = map[string]struct{}{
	"image/jpeg":         {},
	"image/png":          {},
	"image/gif":          {},
	"image/webp":         {},
	"image/bmp":          {},
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/vnd.ms-powerpoint":                                     {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"text/plain": {},
}

// Classify buckets a file name into image/document/other by extension.
// Used only for display grouping; it is not the upload gate.
func Classify(fileName string) Kind {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := imageExts[ext]; ok {
		return KindImage
	}
	if _, ok := documentExts[ext]; ok {
		return KindDocument
	}
	return KindOther
}

// ValidateUpload is the independent allow-list check that gates whether an
// upload is accepted at all. It checks the declared MIME type first and falls
// back to the extension when the MIME type is missing or generic. It must be
// called before the object store is touched.
func ValidateUpload(fileName, mimeType string, size, maxSize int64) error {
	if maxSize > 0 && size > maxSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, size, maxSize)
	}

	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt != "" && mt != "application/octet-stream" {
		if _, ok := allowedMIMETypes[mt]; ok {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrTypeNotAllowed, mt)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := imageExts[ext]; ok {
		return nil
	}
	if _, ok := documentExts[ext]; ok {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTypeNotAllowed, fileName)
}
