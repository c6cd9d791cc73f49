// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package catalog

import "testing"

func testCatalog() *Catalog {
	return New([]Item{
		{ID: "1", Gender: "Men", ArticleType: "Tshirts", BaseColour: "Black", Usage: "Casual", Season: "Summer", Year: 2011, DisplayName: "Roadster Men Black Tshirt"},
		{ID: "2", Gender: "Men", ArticleType: "Jeans", BaseColour: "Blue", Usage: "Casual", Season: "Fall", Year: 2012, DisplayName: "Levis Men Blue Jeans"},
		{ID: "3", Gender: "Women", ArticleType: "Dresses", BaseColour: "Red", Usage: "Party", Season: "Winter", Year: 2012, DisplayName: "Mango Women Red Dress"},
		{ID: "4", Gender: "Unisex", ArticleType: "Backpacks", BaseColour: "Black", Usage: "Casual", Season: "Fall", Year: 2016, DisplayName: "Wildcraft Unisex Black Backpack"},
		{ID: "2", Gender: "Men", ArticleType: "Shirts", DisplayName: "duplicate"},
		{ID: "", Gender: "Men"},
	}, "test")
}

func TestNew_DeduplicatesAndIndexes(t *testing.T) {
	t.Parallel()

	c := testCatalog()
	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}
	it, ok := c.Get("2")
	if !ok || it.ArticleType != "Jeans" {
		t.Errorf("Get(2) = %+v, %v; want first occurrence", it, ok)
	}
	if c.Contains("99") {
		t.Error("Contains(99) = true")
	}

	var nilCat *Catalog
	if nilCat.Len() != 0 || nilCat.Contains("1") {
		t.Error("nil catalog should be empty")
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	c := testCatalog()
	tests := []struct {
		name    string
		query   Query
		wantIDs []string
	}{
		{"no filters", Query{}, []string{"1", "2", "3", "4"}},
		{"gender", Query{Genders: []string{"men"}}, []string{"1", "2"}},
		{"category", Query{Categories: []string{"Jeans", "Dresses"}}, []string{"2", "3"}},
		{"colour", Query{Colours: []string{"Black"}}, []string{"1", "4"}},
		{"usage", Query{Usages: []string{"Party"}}, []string{"3"}},
		{"search display name", Query{Search: "levis"}, []string{"2"}},
		{"search colour", Query{Search: "RED"}, []string{"3"}},
		{"combined", Query{Genders: []string{"Men", "Unisex"}, Colours: []string{"Black"}}, []string{"1", "4"}},
		{"blank filter values ignored", Query{Colours: []string{" "}}, []string{"1", "2", "3", "4"}},
		{"newest first", Query{Sort: SortNewest}, []string{"4", "3", "2", "1"}},
		{"by name", Query{Sort: SortName}, []string{"2", "3", "1", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			page := c.Filter(tt.query)
			if len(page.Items) != len(tt.wantIDs) {
				t.Fatalf("got %d items, want %d", len(page.Items), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if page.Items[i].ID != id {
					t.Errorf("item[%d] = %s, want %s", i, page.Items[i].ID, id)
				}
			}
		})
	}
}

func TestFilter_Paging(t *testing.T) {
	t.Parallel()

	c := testCatalog()

	page := c.Filter(Query{Page: 2, Limit: 3})
	if page.TotalCount != 4 || page.TotalPages != 2 || page.CurrentPage != 2 {
		t.Errorf("page meta = %+v", page)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "4" {
		t.Errorf("page 2 items = %+v", page.Items)
	}

	beyond := c.Filter(Query{Page: 10, Limit: 3})
	if len(beyond.Items) != 0 {
		t.Errorf("expected empty page beyond range, got %d", len(beyond.Items))
	}
}

func TestAttribute_String(t *testing.T) {
	t.Parallel()

	want := []string{"gender", "masterCategory", "subCategory", "articleType", "baseColour", "season", "usage"}
	for i, a := range Attributes {
		if a.String() != want[i] {
			t.Errorf("Attributes[%d].String() = %q, want %q", i, a.String(), want[i])
		}
	}
}
