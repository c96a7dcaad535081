package document

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePages struct {
	texts  []string
	fail   map[int]bool
	jitter bool
}

func (f fakePages) NumPage() int { return len(f.texts) }

func (f fakePages) PageText(page int) (string, error) {
	if f.jitter {
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
	}
	if f.fail[page] {
		return "", errors.New("broken content stream")
	}
	return f.texts[page-1], nil
}

func TestExtractPagesKeepsPageOrder(t *testing.T) {
	texts := make([]string, 40)
	for i := range texts {
		texts[i] = fmt.Sprintf("page-%02d", i+1)
	}

	for _, workers := range []int{1, 4, 16} {
		pages, err := ExtractPages(context.Background(), fakePages{texts: texts, jitter: true}, workers)
		require.NoError(t, err)
		assert.Equal(t, texts, pages, "workers=%d", workers)

		joined := JoinPages(pages)
		last := -1
		for i := range texts {
			idx := strings.Index(joined, texts[i])
			require.Greater(t, idx, last, "page %d out of order", i+1)
			last = idx
		}
	}
}

func TestExtractPagesFailedPageIsEmpty(t *testing.T) {
	src := fakePages{texts: []string{"one", "two", "three"}, fail: map[int]bool{2: true}}

	pages, err := ExtractPages(context.Background(), src, 2)

	require.NoError(t, err)
	assert.Len(t, pages, 3)
	assert.Equal(t, []string{"one", "", "three"}, pages)
}

func TestExtractPagesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExtractPages(ctx, fakePages{texts: []string{"a", "b"}}, 1)

	assert.ErrorIs(t, err, context.Canceled)
}
