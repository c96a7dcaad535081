package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/seykim2025/kgoverment-proj/internal/core/document"
	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
	"github.com/seykim2025/kgoverment-proj/internal/core/ports"
)

// ProcessNoticeUseCase extracts the labelled sections of an ingested notice.
type ProcessNoticeUseCase struct {
	repo    ports.NoticeRepository
	storage ports.ObjectStorage
	parser  ports.DocumentParser
}

func NewProcessNoticeUseCase(
	repo ports.NoticeRepository,
	storage ports.ObjectStorage,
	parser ports.DocumentParser,
) *ProcessNoticeUseCase {
	return &ProcessNoticeUseCase{
		repo:    repo,
		storage: storage,
		parser:  parser,
	}
}

func (uc *ProcessNoticeUseCase) ProcessByID(ctx context.Context, noticeID string) error {
	if err := uc.markStatus(ctx, noticeID, domain.NoticeStatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	sections, err := uc.processPipeline(ctx, noticeID)
	if err != nil {
		if failErr := uc.markFailed(ctx, noticeID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.persistSections(ctx, noticeID, sections); err != nil {
		if failErr := uc.markFailed(ctx, noticeID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, noticeID, domain.NoticeStatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	slog.Info("notice_processed", "notice_id", noticeID, "sections_found", !sections.Empty())
	return nil
}

func (uc *ProcessNoticeUseCase) processPipeline(ctx context.Context, noticeID string) (domain.NoticeSections, error) {
	notice, err := uc.loadNotice(ctx, noticeID)
	if err != nil {
		return domain.NoticeSections{}, err
	}

	text, err := uc.noticeText(ctx, notice)
	if err != nil {
		return domain.NoticeSections{}, err
	}

	return document.ExtractSections(text), nil
}

func (uc *ProcessNoticeUseCase) loadNotice(ctx context.Context, noticeID string) (*domain.Notice, error) {
	notice, err := uc.repo.GetByID(ctx, noticeID)
	if err != nil {
		return nil, fmt.Errorf("fetch notice by id: %w", err)
	}
	return notice, nil
}

// noticeText prefers the stored text and re-parses the source file otherwise.
func (uc *ProcessNoticeUseCase) noticeText(ctx context.Context, notice *domain.Notice) (string, error) {
	if strings.TrimSpace(notice.Content) != "" {
		return notice.Content, nil
	}
	if notice.StoragePath == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "load notice text", errors.New("notice has neither text nor source file"))
	}

	rc, err := uc.storage.Open(ctx, notice.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open notice source: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read notice source: %w", err)
	}
	parsed, err := uc.parser.Parse(ctx, data)
	if err != nil {
		return "", fmt.Errorf("parse notice source: %w", err)
	}
	if parsed.Text == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "load notice text", errors.New("empty extracted text"))
	}
	return parsed.Text, nil
}

func (uc *ProcessNoticeUseCase) persistSections(ctx context.Context, noticeID string, sections domain.NoticeSections) error {
	if err := uc.repo.SaveSections(ctx, noticeID, sections); err != nil {
		return fmt.Errorf("save sections: %w", err)
	}
	return nil
}

func (uc *ProcessNoticeUseCase) markStatus(ctx context.Context, noticeID string, status domain.NoticeStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, noticeID, status, errMessage)
}

func (uc *ProcessNoticeUseCase) markFailed(ctx context.Context, noticeID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, noticeID, domain.NoticeStatusFailed, processErr.Error())
}
