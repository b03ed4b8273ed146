package qrpass

import (
	"context"
	"mime/multipart"
	"strings"
	"testing"
)

// memoryStorage keeps stored blobs in a map.
type memoryStorage struct {
	files map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: make(map[string][]byte)}
}

func (m *memoryStorage) SaveFile(_ context.Context, _ *multipart.FileHeader, _ string) (string, error) {
	return "", nil
}

func (m *memoryStorage) SaveBytes(_ context.Context, data []byte, filename, subPath string) (string, error) {
	key := subPath + "/" + filename
	m.files[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (m *memoryStorage) DeleteFile(_ context.Context, _ string) error {
	return nil
}

func TestGenerateStoresPass(t *testing.T) {
	storage := newMemoryStorage()
	g := NewGenerator("test-secret", storage)

	url, err := g.Generate(context.Background(), 42, 10, 1)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if url != "https://cdn.example.com/passes/enrollment-42.png" {
		t.Errorf("Generate() url = %q", url)
	}

	png, ok := storage.files["passes/enrollment-42.png"]
	if !ok {
		t.Fatal("pass PNG was not stored")
	}
	// PNG magic bytes
	if len(png) < 8 || png[1] != 'P' || png[2] != 'N' || png[3] != 'G' {
		t.Error("stored blob is not a PNG")
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	g := NewGenerator("test-secret", newMemoryStorage())

	payload := g.payload(42, 10, 1)
	enrollmentID, err := g.Verify(payload)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if enrollmentID != 42 {
		t.Errorf("Verify() enrollmentID = %d, want 42", enrollmentID)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	g := NewGenerator("test-secret", newMemoryStorage())
	payload := g.payload(42, 10, 1)

	// Swap the enrollment ID while keeping the original signature.
	tampered := strings.Replace(payload, "enrollment:42", "enrollment:43", 1)
	if _, err := g.Verify(tampered); err == nil {
		t.Error("Verify() accepted a tampered payload")
	}

	// A pass signed with a different secret must fail too.
	other := NewGenerator("other-secret", newMemoryStorage())
	if _, err := other.Verify(payload); err == nil {
		t.Error("Verify() accepted a foreign signature")
	}

	if _, err := g.Verify("not a payload"); err == nil {
		t.Error("Verify() accepted malformed input")
	}
}
