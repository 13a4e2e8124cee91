package service

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDatasets() fstest.MapFS {
	return fstest.MapFS{
		"data/shadydealer.csv": {Data: []byte(
			"Title,URL,Author\n" +
				"Squirrels Unionize,https://example.edu/squirrels,Jane Roe\n" +
				",https://example.edu/untitled,\n",
		)},
		"data/scav.csv": {Data: []byte(
			"Item,Description,Points\n" +
				"Item 42.,Build a trebuchet,25 points\n",
		)},
	}
}

func newTestTrivia(t *testing.T, pick func(int) int) *TriviaService {
	t.Helper()
	svc, err := NewTriviaService(TriviaServiceOptions{
		FS:          testDatasets(),
		ArticlePath: "data/shadydealer.csv",
		ScavPath:    "data/scav.csv",
		Pick:        pick,
	})
	require.NoError(t, err)
	return svc
}

func TestTriviaService_RandomArticle(t *testing.T) {
	svc := newTestTrivia(t, func(int) int { return 0 })

	article, err := svc.RandomArticle()
	require.NoError(t, err)
	assert.Equal(t, "Squirrels Unionize", article.Title)
	assert.Equal(t, "https://example.edu/squirrels", article.URL)
	assert.Equal(t, "Jane Roe", article.Author)
}

func TestTriviaService_RandomArticle_FillsMissingFields(t *testing.T) {
	svc := newTestTrivia(t, func(int) int { return 1 })

	article, err := svc.RandomArticle()
	require.NoError(t, err)
	assert.Equal(t, "Untitled", article.Title)
	assert.Equal(t, "Unknown", article.Author)
}

func TestTriviaService_RandomScavItem(t *testing.T) {
	svc := newTestTrivia(t, func(int) int { return 0 })

	item, err := svc.RandomScavItem()
	require.NoError(t, err)
	assert.Equal(t, "Item 42.", item.Number)
	assert.Equal(t, "Build a trebuchet", item.Description)
	assert.Equal(t, "25 points", item.Points)
}

func TestNewTriviaService_MissingFile(t *testing.T) {
	_, err := NewTriviaService(TriviaServiceOptions{
		FS:          fstest.MapFS{},
		ArticlePath: "data/shadydealer.csv",
		ScavPath:    "data/scav.csv",
	})
	require.Error(t, err)
}

func TestNewTriviaService_EmptyDataset(t *testing.T) {
	fsys := fstest.MapFS{
		"articles.csv": {Data: []byte("Title,URL,Author\n")},
		"scav.csv":     {Data: []byte("Item,Description,Points\n")},
	}
	svc, err := NewTriviaService(TriviaServiceOptions{
		FS:          fsys,
		ArticlePath: "articles.csv",
		ScavPath:    "scav.csv",
	})
	require.NoError(t, err)

	_, err = svc.RandomArticle()
	require.Error(t, err)
	_, err = svc.RandomScavItem()
	require.Error(t, err)
}
