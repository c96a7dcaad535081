package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
	"github.com/seykim2025/kgoverment-proj/internal/core/ports"
)

// DefaultMaxUploadBytes bounds notice uploads before they are parsed.
const DefaultMaxUploadBytes int64 = 10 << 20

type IngestNoticeUseCase struct {
	repo     ports.NoticeRepository
	storage  ports.ObjectStorage
	queue    ports.MessageQueue
	parser   ports.DocumentParser
	maxBytes int64
}

// NewIngestNoticeUseCase wires notice upload. queue may be nil, in which case
// no ingestion event is published.
func NewIngestNoticeUseCase(
	repo ports.NoticeRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	parser ports.DocumentParser,
	maxBytes int64,
) *IngestNoticeUseCase {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &IngestNoticeUseCase{
		repo:     repo,
		storage:  storage,
		queue:    queue,
		parser:   parser,
		maxBytes: maxBytes,
	}
}

func (uc *IngestNoticeUseCase) Policy() domain.UploadPolicy {
	return domain.UploadPolicy{AllowedExtensions: []string{".pdf"}, MaxBytes: uc.maxBytes}
}

func (uc *IngestNoticeUseCase) Upload(ctx context.Context, filename string, data []byte) (*domain.Notice, *domain.ParsedDocument, error) {
	if err := uc.checkUpload(filename, data); err != nil {
		return nil, nil, err
	}

	parsed, err := uc.parser.Parse(ctx, data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse notice: %w", err)
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, bytes.NewReader(data)); err != nil {
		return nil, nil, fmt.Errorf("save to object storage: %w", err)
	}

	notice := &domain.Notice{
		ID:          id,
		Title:       noticeTitle(parsed, filename),
		Content:     parsed.Text,
		Filename:    filename,
		StoragePath: storageKey,
		PageCount:   parsed.PageCount,
		IssuedAt:    parsed.CreatedAt,
		Status:      domain.NoticeStatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, notice); err != nil {
		return nil, nil, fmt.Errorf("create notice metadata: %w", err)
	}

	if uc.queue != nil {
		if err := uc.queue.PublishNoticeIngested(ctx, notice.ID); err != nil {
			return nil, nil, fmt.Errorf("publish ingestion event: %w", err)
		}
	}

	return notice, &parsed, nil
}

func (uc *IngestNoticeUseCase) GetByID(ctx context.Context, id string) (*domain.Notice, error) {
	notice, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get notice: %w", err)
	}
	return notice, nil
}

func (uc *IngestNoticeUseCase) checkUpload(filename string, data []byte) error {
	const op = "check upload"
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return domain.WrapError(domain.ErrInvalidInput, op, errors.New("only PDF files can be uploaded"))
	}
	if len(data) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, op, errors.New("file is empty"))
	}
	if int64(len(data)) > uc.maxBytes {
		return domain.WrapError(domain.ErrInvalidInput, op, fmt.Errorf("file exceeds %d bytes", uc.maxBytes))
	}
	return nil
}

func noticeTitle(parsed domain.ParsedDocument, filename string) string {
	if parsed.Title != nil && strings.TrimSpace(*parsed.Title) != "" {
		return *parsed.Title
	}
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "notice.pdf"
	}
	return base
}
