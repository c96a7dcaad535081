package document

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PageSource yields the text of individual pages of an opened document.
// Pages are numbered from 1.
type PageSource interface {
	NumPage() int
	PageText(page int) (string, error)
}

// ExtractPages reads every page of src using up to workers goroutines. The
// returned slice is indexed by page order regardless of completion order. A
// page that fails to extract contributes an empty string.
func ExtractPages(ctx context.Context, src PageSource, workers int) ([]string, error) {
	total := src.NumPage()
	pages := make([]string, total)
	if total == 0 {
		return pages, nil
	}
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < total; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := src.PageText(i + 1)
			if err != nil {
				return nil
			}
			pages[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}
