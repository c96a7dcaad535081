package localfs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

func newStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	dir := t.TempDir()
	storage, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })
	return storage, dir
}

func TestSaveAndOpenRoundTrip(t *testing.T) {
	storage, dir := newStorage(t)

	if err := storage.Save(context.Background(), "n1_notice.pdf", strings.NewReader("%PDF-1.4")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rc, err := storage.Open(context.Background(), "n1_notice.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.4" {
		t.Fatalf("content = %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "n1_notice.pdf" {
		t.Fatalf("directory holds %v, want only the committed notice", entries)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("client went away") }

func TestFailedSaveLeavesNoStagedFile(t *testing.T) {
	storage, dir := newStorage(t)

	if err := storage.Save(context.Background(), "n2_notice.pdf", failingReader{}); err == nil {
		t.Fatalf("expected write error")
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("leftover files after failed save: %v", entries)
	}
}

func TestOpenMissingIsNotFound(t *testing.T) {
	storage, _ := newStorage(t)
	if _, err := storage.Open(context.Background(), "missing.pdf"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRejectsKeysOutsideBase(t *testing.T) {
	storage, _ := newStorage(t)
	for _, key := range []string{"", "../escape.pdf", filepath.Join("a", "b.pdf"), `a\b.pdf`, ".hidden"} {
		if err := storage.Save(context.Background(), key, strings.NewReader("x")); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("key %q: expected invalid input, got %v", key, err)
		}
	}
}
