package domain

import (
	"errors"
	"time"
	"unicode/utf8"
)

// MinNoticeContentLength is the shortest notice body accepted for assessment.
const MinNoticeContentLength = 10

var (
	errNoticeTitle   = errors.New("notice title is required")
	errNoticeContent = errors.New("notice content must be at least 10 characters")
)

// ParsedDocument is the normalized text of an uploaded notice.
type ParsedDocument struct {
	Text      string  `json:"text"`
	PageCount int     `json:"page_count"`
	Title     *string `json:"title"`
	CreatedAt *string `json:"created_at"`
}

// NoticeSections holds labelled passages pulled out of a notice body.
type NoticeSections struct {
	Title             string `json:"title,omitempty"`
	Budget            string `json:"budget,omitempty"`
	Period            string `json:"period,omitempty"`
	Eligibility       string `json:"eligibility,omitempty"`
	ApplicationWindow string `json:"application_window,omitempty"`
}

func (s NoticeSections) Empty() bool {
	return s == NoticeSections{}
}

type NoticeStatus string

const (
	NoticeStatusUploaded   NoticeStatus = "uploaded"
	NoticeStatusProcessing NoticeStatus = "processing"
	NoticeStatusReady      NoticeStatus = "ready"
	NoticeStatusFailed     NoticeStatus = "failed"
)

type Notice struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Filename    string          `json:"filename,omitempty"`
	StoragePath string          `json:"storage_path,omitempty"`
	PageCount   int             `json:"page_count"`
	IssuedAt    *string         `json:"issued_at,omitempty"`
	Sections    *NoticeSections `json:"sections,omitempty"`
	Status      NoticeStatus    `json:"status"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Validate checks the constraints a notice must meet before it is assessed.
func (n Notice) Validate() error {
	if utf8.RuneCountInString(n.Title) < 1 {
		return WrapError(ErrInvalidInput, "validate notice", errNoticeTitle)
	}
	if utf8.RuneCountInString(n.Content) < MinNoticeContentLength {
		return WrapError(ErrInvalidInput, "validate notice", errNoticeContent)
	}
	return nil
}

// UploadPolicy describes which notice files are accepted.
type UploadPolicy struct {
	AllowedExtensions []string `json:"allowed_extensions"`
	MaxBytes          int64    `json:"max_bytes"`
}

// InstructionPair is the system and user instruction sent to a judgment engine.
type InstructionPair struct {
	System string
	User   string
}
