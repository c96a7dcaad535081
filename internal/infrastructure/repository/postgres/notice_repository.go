package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

type NoticeRepository struct {
	db *sql.DB
}

func NewNoticeRepository(db *sql.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

func (r *NoticeRepository) Create(ctx context.Context, n *domain.Notice) error {
	sections, err := marshalSections(n.Sections)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO notices (
	id, title, content, filename, storage_path, page_count, issued_at, sections, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`,
		n.ID, n.Title, n.Content, n.Filename, n.StoragePath, n.PageCount, n.IssuedAt, sections,
		string(n.Status), n.Error, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notice: %w", err)
	}
	return nil
}

func (r *NoticeRepository) GetByID(ctx context.Context, id string) (*domain.Notice, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, content, filename, storage_path, page_count, issued_at, sections, status, error_message, created_at, updated_at
FROM notices
WHERE id = $1
`, id)

	var (
		n           domain.Notice
		issuedAt    sql.NullString
		sectionsRaw []byte
		status      string
	)
	err := row.Scan(
		&n.ID, &n.Title, &n.Content, &n.Filename, &n.StoragePath, &n.PageCount, &issuedAt, &sectionsRaw,
		&status, &n.Error, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("notice", id)
		}
		return nil, fmt.Errorf("scan notice: %w", err)
	}
	if issuedAt.Valid {
		v := issuedAt.String
		n.IssuedAt = &v
	}
	if len(sectionsRaw) > 0 {
		var sections domain.NoticeSections
		if err := json.Unmarshal(sectionsRaw, &sections); err != nil {
			return nil, fmt.Errorf("unmarshal sections: %w", err)
		}
		n.Sections = &sections
	}
	n.Status = domain.NoticeStatus(status)
	return &n, nil
}

func (r *NoticeRepository) UpdateStatus(ctx context.Context, id string, status domain.NoticeStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE notices
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update notice status: %w", err)
	}
	return requireAffected(result, "notice", id)
}

func (r *NoticeRepository) SaveSections(ctx context.Context, id string, sections domain.NoticeSections) error {
	raw, err := marshalSections(&sections)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE notices
SET sections = $2, updated_at = $3
WHERE id = $1
`, id, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save notice sections: %w", err)
	}
	return requireAffected(result, "notice", id)
}

func marshalSections(sections *domain.NoticeSections) ([]byte, error) {
	if sections == nil {
		return nil, nil
	}
	raw, err := json.Marshal(sections)
	if err != nil {
		return nil, fmt.Errorf("marshal sections: %w", err)
	}
	return raw, nil
}
