package services

import (
	"fmt"
	"sync"
)

// MockQRService is a mock implementation of QRService for testing
type MockQRService struct {
	generated map[string]string // map of slug/table key to returned path
	deleted   []string
	failNext  bool
	mu        sync.RWMutex
}

// NewMockQRService creates a new mock QR service
func NewMockQRService() *MockQRService {
	return &MockQRService{
		generated: make(map[string]string),
	}
}

// SetAsMockForTesting sets this mock as the global QR service instance for testing
func (m *MockQRService) SetAsMockForTesting() {
	SetQRService(m)
}

// FailNextGenerate makes the next Generate call return an error, for
// exercising the best-effort artifact path.
func (m *MockQRService) FailNextGenerate() {
	m.mu.Lock()
	m.failNext = true
	m.mu.Unlock()
}

// Generate records the call and returns a deterministic fake path
func (m *MockQRService) Generate(slug string, table int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		m.failNext = false
		return "", fmt.Errorf("mock QR generation failure")
	}

	path := "qr/" + qrFilename(slug, table)
	m.generated[qrKey(slug, table)] = path
	return path, nil
}

// Delete records the call; deleting an absent code is not an error
func (m *MockQRService) Delete(slug string, table int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.generated, qrKey(slug, table))
	m.deleted = append(m.deleted, qrKey(slug, table))
	return nil
}

// Generated reports whether a QR code was generated for slug/table and is
// still present
func (m *MockQRService) Generated(slug string, table int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.generated[qrKey(slug, table)]
	return ok
}

// DeleteCount returns how many Delete calls the mock has seen
func (m *MockQRService) DeleteCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.deleted)
}

func qrKey(slug string, table int) string {
	return fmt.Sprintf("%s/%d", slug, table)
}
