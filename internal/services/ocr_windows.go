//go:build windows

package services

import "fmt"

// OCRService has no tesseract binding on Windows. The server starts with
// receipt scanning disabled and POST /api/receipts/scan answers 503.
type OCRService struct{}

// NewOCRService reports that receipt photos cannot be read on this platform
func NewOCRService() (*OCRService, error) {
	return nil, fmt.Errorf("%w: tesseract is not linked into Windows builds", ErrOCRDisabled)
}

// ProcessImage never yields receipt text on Windows
func (s *OCRService) ProcessImage(imageBytes []byte) (*OCRResult, error) {
	return nil, ErrOCRDisabled
}

// Close is a no-op
func (s *OCRService) Close() error {
	return nil
}
