package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// QRService manages the QR code images that point customers at a menu.
// A table number of 0 means the restaurant-level code. Artifact handling
// is best-effort: Delete is idempotent and callers treat Generate
// failures as non-fatal.
type QRService interface {
	// Generate renders the QR image and returns its path relative to the
	// static root (e.g. "qr/my-cafe-table-3.png")
	Generate(slug string, table int) (string, error)

	// Delete removes the QR image; a missing file is not an error
	Delete(slug string, table int) error
}

// FileQRService implements QRService with PNG files on local disk.
type FileQRService struct {
	BaseURL string // menu link target prefix, no trailing slash
	Dir     string // directory the PNGs are written to
}

var qrServiceInstance QRService

// InitQRService initializes the QR service with a file backend
func InitQRService(baseURL, dir string) QRService {
	qrServiceInstance = &FileQRService{BaseURL: baseURL, Dir: dir}
	return qrServiceInstance
}

// GetQRService returns the initialized QR service instance
func GetQRService() QRService {
	return qrServiceInstance
}

// SetQRService sets the QR service instance (primarily for testing)
func SetQRService(service QRService) {
	qrServiceInstance = service
}

// Generate renders a QR code linking to the restaurant's menu page, with
// the table number carried as a query parameter for table-level codes.
func (s *FileQRService) Generate(slug string, table int) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create QR directory: %w", err)
	}

	target := fmt.Sprintf("%s/api/v1/restaurants/%s/menu", s.BaseURL, slug)
	if table > 0 {
		target = fmt.Sprintf("%s?table=%d", target, table)
	}

	filename := qrFilename(slug, table)
	if err := qrcode.WriteFile(target, qrcode.Medium, qrImageSize, filepath.Join(s.Dir, filename)); err != nil {
		return "", fmt.Errorf("failed to write QR code: %w", err)
	}
	return "qr/" + filename, nil
}

// Delete removes the QR image for slug/table if it exists.
func (s *FileQRService) Delete(slug string, table int) error {
	err := os.Remove(filepath.Join(s.Dir, qrFilename(slug, table)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete QR code: %w", err)
	}
	return nil
}

func qrFilename(slug string, table int) string {
	if table > 0 {
		return fmt.Sprintf("%s-table-%d.png", slug, table)
	}
	return slug + ".png"
}
