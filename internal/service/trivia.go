package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"strings"

	"github.com/uchiverify/uchiverify/internal/domain/campus"
)

// TriviaServiceOptions groups dependencies for TriviaService.
type TriviaServiceOptions struct {
	FS          fs.FS
	ArticlePath string
	ScavPath    string
	// Pick overrides the random index choice (tests only).
	Pick func(n int) int
}

// TriviaService serves random rows from the embedded campus datasets:
// the student-paper article archive and the scavenger hunt item list.
// Both files are loaded once at startup.
type TriviaService struct {
	articles []campus.Article
	scav     []campus.ScavItem
	pick     func(n int) int
}

// NewTriviaService loads and parses both datasets.
func NewTriviaService(opts TriviaServiceOptions) (*TriviaService, error) {
	articles, err := loadArticles(opts.FS, opts.ArticlePath)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	scav, err := loadScavItems(opts.FS, opts.ScavPath)
	if err != nil {
		return nil, fmt.Errorf("load scav items: %w", err)
	}

	pick := opts.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return &TriviaService{articles: articles, scav: scav, pick: pick}, nil
}

// RandomArticle returns one article at random.
func (s *TriviaService) RandomArticle() (campus.Article, error) {
	if len(s.articles) == 0 {
		return campus.Article{}, errors.New("article dataset is empty")
	}
	return s.articles[s.pick(len(s.articles))], nil
}

// RandomScavItem returns one scavenger hunt item at random.
func (s *TriviaService) RandomScavItem() (campus.ScavItem, error) {
	if len(s.scav) == 0 {
		return campus.ScavItem{}, errors.New("scav dataset is empty")
	}
	return s.scav[s.pick(len(s.scav))], nil
}

func loadArticles(fsys fs.FS, path string) ([]campus.Article, error) {
	rows, err := readCSVRecords(fsys, path)
	if err != nil {
		return nil, err
	}
	articles := make([]campus.Article, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, campus.Article{
			Title:  fieldOr(row, "Title", "Untitled"),
			URL:    fieldOr(row, "URL", ""),
			Author: fieldOr(row, "Author", "Unknown"),
		})
	}
	return articles, nil
}

func loadScavItems(fsys fs.FS, path string) ([]campus.ScavItem, error) {
	rows, err := readCSVRecords(fsys, path)
	if err != nil {
		return nil, err
	}
	items := make([]campus.ScavItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, campus.ScavItem{
			Number:      fieldOr(row, "Item", "UNK ITEM."),
			Description: fieldOr(row, "Description", ""),
			Points:      fieldOr(row, "Points", "[UNK POINTS]"),
		})
	}
	return items, nil
}

// readCSVRecords parses a headered CSV into column-name keyed rows.
func readCSVRecords(fsys fs.FS, path string) ([]map[string]string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = strings.TrimSpace(value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func fieldOr(row map[string]string, key, fallback string) string {
	if v := row[key]; v != "" {
		return v
	}
	return fallback
}
