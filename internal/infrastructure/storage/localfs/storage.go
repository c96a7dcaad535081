package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

const defaultDir = "./data/notices"

// Storage keeps uploaded notice files in one flat directory. All access goes
// through an os.Root, so keys cannot reach outside it even via symlinks.
type Storage struct {
	root *os.Root
}

func New(dir string) (*Storage, error) {
	if strings.TrimSpace(dir) == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create notice dir: %w", err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open notice dir: %w", err)
	}
	return &Storage{root: root}, nil
}

func (s *Storage) Close() error {
	return s.root.Close()
}

// Save stages the upload under a hidden name and renames it into place, so
// the worker never opens a half-written notice.
func (s *Storage) Save(_ context.Context, key string, data io.Reader) error {
	if err := checkKey(key); err != nil {
		return err
	}
	staged := ".upload-" + uuid.NewString()
	f, err := s.root.OpenFile(staged, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("stage notice: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.root.Remove(staged)
		}
	}()

	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write notice: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("flush notice: %w", err)
	}
	if err := s.root.Rename(staged, key); err != nil {
		return fmt.Errorf("commit notice: %w", err)
	}
	committed = true
	return nil
}

func (s *Storage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	f, err := s.root.Open(key)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, domain.WrapError(domain.ErrNotFound, "open stored notice", err)
	case err != nil:
		return nil, fmt.Errorf("open stored notice: %w", err)
	}
	return f, nil
}

// checkKey allows plain, visible file names only. Dot files are reserved for
// staged uploads.
func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, ".") || strings.ContainsAny(key, `/\`) {
		return domain.WrapError(domain.ErrInvalidInput, "check storage key", fmt.Errorf("invalid key %q", key))
	}
	return nil
}
