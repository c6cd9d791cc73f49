// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// ErrEmptyCatalog is returned when a source yields no usable item.
var ErrEmptyCatalog = errors.New("catalog has no valid items")

// styles.csv column names.
const (
	colID          = "id"
	colGender      = "gender"
	colMaster      = "masterCategory"
	colSub         = "subCategory"
	colArticleType = "articleType"
	colColour      = "baseColour"
	colSeason      = "season"
	colYear        = "year"
	colUsage       = "usage"
	colDisplayName = "productDisplayName"
)

// LoadStats reports what a load kept and dropped.
type LoadStats struct {
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
}

// Loader reads catalog sources. A bad record is skipped with a warning and
// never fails the load.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader creates a Loader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logger.With().Str("component", "catalog").Logger()}
}

// LoadFile loads a .csv or .json catalog, then attaches image URLs from
// imagesPath when it is non-empty.
func (l *Loader) LoadFile(path, imagesPath string) (*Catalog, LoadStats, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	var items []Item
	var stats LoadStats
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		items, stats, err = l.ReadCSV(f)
	case ".json":
		items, stats, err = l.ReadJSON(f)
	default:
		return nil, LoadStats{}, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, stats, err
	}

	if imagesPath != "" {
		if err := l.attachImagesFile(items, imagesPath); err != nil {
			l.logger.Warn().Err(err).Str("path", imagesPath).Msg("Image index not loaded")
		}
	}

	cat := New(items, path)
	l.logger.Info().
		Str("source", path).
		Int("loaded", stats.Loaded).
		Int("skipped", stats.Skipped).
		Msg("Catalog loaded")
	return cat, stats, nil
}

// ReadCSV parses a styles.csv export. Columns are located by header name.
// Rows with more fields than the header are folded into the last column,
// which in styles.csv is the free-text display name.
func (l *Loader) ReadCSV(r io.Reader) ([]Item, LoadStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("read catalog header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := cols[colID]; !ok {
		return nil, LoadStats{}, fmt.Errorf("catalog header has no %q column", colID)
	}

	var (
		items []Item
		stats LoadStats
		seen  = make(map[string]struct{})
		line  = 1
	)
	for {
		record, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			l.logger.Warn().Err(err).Int("line", line).Msg("Skipping unreadable catalog record")
			stats.Skipped++
			continue
		}
		if len(record) < len(header) {
			l.logger.Warn().Int("line", line).Int("fields", len(record)).Msg("Skipping short catalog record")
			stats.Skipped++
			continue
		}
		if len(record) > len(header) {
			last := len(header) - 1
			record = append(record[:last], strings.Join(record[last:], ","))
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		item := Item{
			ID:             field(colID),
			Gender:         field(colGender),
			MasterCategory: field(colMaster),
			SubCategory:    field(colSub),
			ArticleType:    field(colArticleType),
			BaseColour:     field(colColour),
			Season:         field(colSeason),
			Usage:          field(colUsage),
			DisplayName:    field(colDisplayName),
			Year:           parseYear(field(colYear)),
		}
		if !l.accept(&item, seen, line) {
			stats.Skipped++
			continue
		}
		items = append(items, item)
		stats.Loaded++
	}

	if len(items) == 0 {
		return nil, stats, ErrEmptyCatalog
	}
	return items, stats, nil
}

// jsonItem mirrors the styles.csv column names.
type jsonItem struct {
	ID             flexString  `json:"id"`
	Gender         string      `json:"gender"`
	MasterCategory string      `json:"masterCategory"`
	SubCategory    string      `json:"subCategory"`
	ArticleType    string      `json:"articleType"`
	BaseColour     string      `json:"baseColour"`
	Season         string      `json:"season"`
	Usage          string      `json:"usage"`
	DisplayName    string      `json:"productDisplayName"`
	Year           flexString  `json:"year"`
	ImageURL       string      `json:"imageUrl"`
}

// ReadJSON parses a JSON array of catalog records.
func (l *Loader) ReadJSON(r io.Reader) ([]Item, LoadStats, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, LoadStats{}, fmt.Errorf("decode catalog: %w", err)
	}

	var (
		items []Item
		stats LoadStats
		seen  = make(map[string]struct{})
	)
	for i, msg := range raw {
		var rec jsonItem
		if err := json.Unmarshal(msg, &rec); err != nil {
			l.logger.Warn().Err(err).Int("index", i).Msg("Skipping malformed catalog record")
			stats.Skipped++
			continue
		}
		item := Item{
			ID:             strings.TrimSpace(string(rec.ID)),
			Gender:         strings.TrimSpace(rec.Gender),
			MasterCategory: strings.TrimSpace(rec.MasterCategory),
			SubCategory:    strings.TrimSpace(rec.SubCategory),
			ArticleType:    strings.TrimSpace(rec.ArticleType),
			BaseColour:     strings.TrimSpace(rec.BaseColour),
			Season:         strings.TrimSpace(rec.Season),
			Usage:          strings.TrimSpace(rec.Usage),
			DisplayName:    strings.TrimSpace(rec.DisplayName),
			Year:           parseYear(string(rec.Year)),
			ImageURL:       rec.ImageURL,
		}
		if !l.accept(&item, seen, i) {
			stats.Skipped++
			continue
		}
		items = append(items, item)
		stats.Loaded++
	}

	if len(items) == 0 {
		return nil, stats, ErrEmptyCatalog
	}
	return items, stats, nil
}

// flexString decodes a JSON string or number into its text form.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (l *Loader) accept(item *Item, seen map[string]struct{}, pos int) bool {
	if item.ID == "" {
		l.logger.Warn().Int("record", pos).Msg("Skipping catalog record without id")
		return false
	}
	if _, dup := seen[item.ID]; dup {
		l.logger.Warn().Int("record", pos).Str("item_id", item.ID).Msg("Skipping duplicate catalog id")
		return false
	}
	seen[item.ID] = struct{}{}
	return true
}

// AttachImages reads an images.csv index (filename,image_url without header,
// filename "<id>.jpg") and sets ImageURL on matching items.
func (l *Loader) AttachImages(items []Item, r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	urls := make(map[string]string)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read image index: %w", err)
		}
		if len(record) < 2 || record[0] == "filename" {
			continue
		}
		id := strings.TrimSuffix(record[0], filepath.Ext(record[0]))
		urls[id] = strings.TrimSpace(record[1])
	}

	attached := 0
	for i := range items {
		if u, ok := urls[items[i].ID]; ok {
			items[i].ImageURL = u
			attached++
		}
	}
	l.logger.Debug().Int("images", attached).Msg("Image URLs attached")
	return nil
}

func (l *Loader) attachImagesFile(items []Item, path string) error {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return fmt.Errorf("open image index: %w", err)
	}
	defer func() { _ = f.Close() }()
	return l.AttachImages(items, f)
}

func parseYear(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return int(f)
	}
	return 0
}
