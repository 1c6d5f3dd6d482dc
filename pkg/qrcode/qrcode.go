package qrcode

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 300

// QRService renders upload-link QR codes for events.
type QRService struct {
	baseURL string // public frontend origin, e.g. "https://eventsnap.app"
}

func NewQRService(baseURL string) *QRService {
	return &QRService{
		baseURL: baseURL,
	}
}

// GeneratePNG renders the upload URL of the event as a PNG byte slice.
func (s *QRService) GeneratePNG(publicEventID string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	uploadURL := fmt.Sprintf("%s/upload/%s", s.baseURL, publicEventID)

	png, err := qrcode.Encode(uploadURL, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code PNG: %w", err)
	}

	return png, nil
}

// GenerateDataURL renders the QR as a base64 data URL so the frontend can
// embed it directly in an <img> tag.
func (s *QRService) GenerateDataURL(publicEventID string, size int) (string, error) {
	png, err := s.GeneratePNG(publicEventID, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// UploadURL returns the link encoded into the QR code.
func (s *QRService) UploadURL(publicEventID string) string {
	return fmt.Sprintf("%s/upload/%s", s.baseURL, publicEventID)
}
