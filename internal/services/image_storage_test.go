package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Smallest valid PNG header is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestImageStorage_SaveAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	svc := NewImageStorageService(dir)

	name, err := svc.SaveImage(pngHeader)
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("filename %q should have .png extension", name)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	if err := svc.DeleteImage(name); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Errorf("file should be gone, stat err = %v", err)
	}
	if err := svc.DeleteImage(name); err != nil {
		t.Errorf("deleting a missing file should be a no-op, got %v", err)
	}
}

func TestImageStorage_Rejects(t *testing.T) {
	svc := NewImageStorageService(t.TempDir())

	if _, err := svc.SaveImage(nil); err == nil {
		t.Error("expected error for empty data")
	}
	if _, err := svc.SaveImage([]byte("just some text")); !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage, got %v", err)
	}
	if err := svc.DeleteImage("../escape.png"); err == nil {
		t.Error("expected error for path traversal")
	}
}
