package ingest

import (
	"context"
	"sort"
	"testing"

	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkDegradesFailedPage(t *testing.T) {
	fake := &fakeExtractor{
		text:   func(i int) string { return []string{"one", "", "three"}[i] },
		failOn: map[int]bool{1: true},
	}
	walker := NewWalker(fake, 3, logger_i.Discard())

	results := walker.Walk(context.Background(), &Document{pageCount: 3}, Options{})
	require.Len(t, results, 3)
	assert.Equal(t, 1, Failed(results))

	pages := Pages(results)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i+1, p.PageNumber)
	}
	assert.Equal(t, "one", pages[0].Text)
	assert.Equal(t, 1, pages[0].ImageCount)
	assert.Equal(t, contentModel.EmptyPage(2), pages[1])
	assert.Equal(t, "three", pages[2].Text)

	seen := append([]int(nil), fake.seen...)
	sort.Ints(seen)
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestWalkZeroPages(t *testing.T) {
	walker := NewWalker(&fakeExtractor{}, 4, logger_i.Discard())
	results := walker.Walk(context.Background(), &Document{}, Options{})
	assert.Empty(t, results)
	assert.Empty(t, Pages(results))
}

func TestWalkCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakeExtractor{}
	results := NewWalker(fake, 1, logger_i.Discard()).Walk(ctx, &Document{pageCount: 2}, Options{})

	assert.Equal(t, 2, Failed(results))
	assert.Empty(t, fake.seen)
}

func TestPagesSetsImageCountFromImages(t *testing.T) {
	results := []PageResult{{Page: contentModel.PageRecord{PageNumber: 7, Text: "x", TextLength: 1, ImageCount: 5}}}
	pages := Pages(results)
	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Equal(t, 0, pages[0].ImageCount)
	assert.NotNil(t, pages[0].Images)
}
