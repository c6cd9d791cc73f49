// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const stylesCSV = `id,gender,masterCategory,subCategory,articleType,baseColour,season,year,usage,productDisplayName
15970,Men,Apparel,Topwear,Shirts,Navy Blue,Fall,2011,Casual,Turtle Check Men Navy Blue Shirt
39386,Men,Apparel,Bottomwear,Jeans,Blue,Summer,2012,Casual,Peter England Men Party Blue Jeans
,Women,Apparel,Topwear,Tops,Red,Summer,2012,Casual,Missing id row
59263,Women,Accessories,Watches,Watches,Silver,Winter,2016,Casual,Titan Women Silver Watch
21379,Men,Apparel,Bottomwear,Track Pants,Black,Fall,2011,Casual,Manchester United Men Solid Black Track Pants, Size M
15970,Men,Apparel,Topwear,Shirts,White,Fall,2011,Casual,Duplicate id row
53759,Men,Apparel
1855,Men,Apparel,Topwear,Tshirts,Grey,,,, 
`

func newTestLoader() *Loader {
	return NewLoader(zerolog.Nop())
}

func TestReadCSV_SkipsBadRecords(t *testing.T) {
	t.Parallel()

	items, stats, err := newTestLoader().ReadCSV(strings.NewReader(stylesCSV))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if stats.Loaded != 5 {
		t.Errorf("Loaded = %d, want 5", stats.Loaded)
	}
	if stats.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3 (missing id, duplicate, short row)", stats.Skipped)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	if got := strings.Join(ids, ","); got != "15970,39386,59263,21379,1855" {
		t.Errorf("ids = %s", got)
	}
}

func TestReadCSV_FieldMapping(t *testing.T) {
	t.Parallel()

	items, _, err := newTestLoader().ReadCSV(strings.NewReader(stylesCSV))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	shirt := items[0]
	if shirt.BaseColour != "Navy Blue" || shirt.ArticleType != "Shirts" || shirt.Year != 2011 {
		t.Errorf("unexpected first item %+v", shirt)
	}

	trackPants := items[3]
	if trackPants.DisplayName != "Manchester United Men Solid Black Track Pants, Size M" {
		t.Errorf("extra fields not folded into display name: %q", trackPants.DisplayName)
	}

	sparse := items[4]
	if sparse.Season != "" || sparse.Usage != "" || sparse.Year != 0 {
		t.Errorf("missing attributes should stay empty, got %+v", sparse)
	}
	if sparse.ValueOrUnknown(AttrSeason) != Unknown {
		t.Errorf("ValueOrUnknown(season) = %q, want %q", sparse.ValueOrUnknown(AttrSeason), Unknown)
	}
}

func TestReadCSV_HeaderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"no id column", "gender,articleType\nMen,Shirts\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, _, err := newTestLoader().ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadCSV_NoValidRows(t *testing.T) {
	t.Parallel()

	input := "id,gender\n,Men\n"
	_, stats, err := newTestLoader().ReadCSV(strings.NewReader(input))
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("error = %v, want ErrEmptyCatalog", err)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
}

func TestReadJSON(t *testing.T) {
	t.Parallel()

	input := `[
		{"id": 1163, "gender": "Men", "articleType": "Tshirts", "baseColour": "Blue", "year": 2011, "productDisplayName": "Nike Sahara Team India Fanwear Round Neck Jersey"},
		{"id": "1164", "gender": "Women", "articleType": "Tops", "year": "2012.0"},
		{"gender": "Men"},
		"not an object"
	]`

	items, stats, err := newTestLoader().ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if stats.Loaded != 2 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want 2 loaded / 2 skipped", stats)
	}
	if items[0].ID != "1163" || items[0].Year != 2011 {
		t.Errorf("numeric id/year not converted: %+v", items[0])
	}
	if items[1].ID != "1164" || items[1].Year != 2012 {
		t.Errorf("string id/year not converted: %+v", items[1])
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stylesPath := filepath.Join(dir, "styles.csv")
	imagesPath := filepath.Join(dir, "images.csv")
	if err := os.WriteFile(stylesPath, []byte(stylesCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	images := "filename,link\n15970.jpg,http://img.example/15970.jpg\n"
	if err := os.WriteFile(imagesPath, []byte(images), 0o600); err != nil {
		t.Fatal(err)
	}

	cat, stats, err := newTestLoader().LoadFile(stylesPath, imagesPath)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cat.Len() != stats.Loaded {
		t.Errorf("Len() = %d, want %d", cat.Len(), stats.Loaded)
	}
	shirt, ok := cat.Get("15970")
	if !ok {
		t.Fatal("item 15970 missing")
	}
	if shirt.ImageURL != "http://img.example/15970.jpg" {
		t.Errorf("ImageURL = %q", shirt.ImageURL)
	}

	if _, _, err := newTestLoader().LoadFile(filepath.Join(dir, "styles.xml"), ""); err == nil {
		t.Error("expected error for missing file")
	}

	xmlPath := filepath.Join(dir, "styles.xml")
	if err := os.WriteFile(xmlPath, []byte("<x/>"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := newTestLoader().LoadFile(xmlPath, ""); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
