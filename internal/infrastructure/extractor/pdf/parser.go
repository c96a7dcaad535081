package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	ledongpdf "github.com/ledongthuc/pdf"

	"github.com/seykim2025/kgoverment-proj/internal/core/document"
	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

const defaultWorkers = 4

// Parser extracts normalized text from PDF grant notices.
type Parser struct {
	workers int
}

func NewParser(workers int) *Parser {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Parser{workers: workers}
}

func (p *Parser) Parse(ctx context.Context, data []byte) (domain.ParsedDocument, error) {
	reader, err := openReader(data)
	if err != nil {
		return domain.ParsedDocument{}, domain.WrapError(domain.ErrMalformedDocument, "open pdf", err)
	}

	src := newPageSource(data, reader)
	pages, err := document.ExtractPages(ctx, src, p.workers)
	if err != nil {
		return domain.ParsedDocument{}, fmt.Errorf("extract pdf pages: %w", err)
	}

	parsed := domain.ParsedDocument{
		Text:      document.JoinPages(pages),
		PageCount: len(pages),
		CreatedAt: creationDate(reader),
	}
	if len(pages) > 0 {
		if title, ok := document.ExtractTitle(pages[0]); ok {
			parsed.Title = &title
		}
	}
	return parsed, nil
}

// openReader guards against panics the pdf package raises on corrupt input.
func openReader(data []byte) (reader *ledongpdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader, err = nil, fmt.Errorf("corrupt pdf: %v", r)
		}
	}()
	if len(data) == 0 {
		return nil, errors.New("empty pdf")
	}
	reader, err = ledongpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	if reader.NumPage() < 1 {
		return nil, errors.New("pdf has no pages")
	}
	return reader, nil
}

// pageSource hands each goroutine its own reader; a pdf.Reader is not safe
// for concurrent use.
type pageSource struct {
	numPage int
	readers sync.Pool
}

func newPageSource(data []byte, first *ledongpdf.Reader) *pageSource {
	src := &pageSource{numPage: first.NumPage()}
	src.readers.New = func() any {
		reader, err := openReader(data)
		if err != nil {
			return nil
		}
		return reader
	}
	src.readers.Put(first)
	return src
}

func (s *pageSource) NumPage() int { return s.numPage }

func (s *pageSource) PageText(num int) (text string, err error) {
	reader, _ := s.readers.Get().(*ledongpdf.Reader)
	if reader == nil {
		return "", errors.New("reopen pdf")
	}
	defer s.readers.Put(reader)
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: %v", num, r)
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", fmt.Errorf("page %d rows: %w", num, err)
	}

	var b strings.Builder
	for _, row := range rows {
		for _, fragment := range row.Content {
			b.WriteString(fragment.S)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
