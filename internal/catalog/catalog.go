// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package catalog

import (
	"sort"
	"strings"
	"time"
)

// Catalog is an immutable, indexed set of items in load order.
type Catalog struct {
	items    []Item
	index    map[string]int
	source   string
	loadedAt time.Time
}

// New builds a catalog from items. Later duplicates of an id are dropped.
func New(items []Item, source string) *Catalog {
	c := &Catalog{
		items:    make([]Item, 0, len(items)),
		index:    make(map[string]int, len(items)),
		source:   source,
		loadedAt: time.Now(),
	}
	for i := range items {
		if items[i].ID == "" {
			continue
		}
		if _, dup := c.index[items[i].ID]; dup {
			continue
		}
		c.index[items[i].ID] = len(c.items)
		c.items = append(c.items, items[i])
	}
	return c
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns the items in load order. The slice must not be modified.
func (c *Catalog) Items() []Item {
	if c == nil {
		return nil
	}
	return c.items
}

// Get looks up an item by id.
func (c *Catalog) Get(id string) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Contains reports whether id is in the catalog.
func (c *Catalog) Contains(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[id]
	return ok
}

// Source describes where the catalog was loaded from.
func (c *Catalog) Source() string { return c.source }

// LoadedAt returns when the catalog was built.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// Sort orders for Query.
const (
	SortDefault = ""
	SortNewest  = "newest"
	SortName    = "name"
)

// Query filters and pages the catalog. Empty fields do not filter.
type Query struct {
	Genders    []string
	Categories []string // matched against article type
	Colours    []string
	Usages     []string
	Search     string
	Sort       string
	Page       int
	Limit      int
}

// Page is one page of a Query result.
type Page struct {
	Items       []Item `json:"items"`
	TotalCount  int    `json:"total_count"`
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
}

const defaultPageSize = 12

var seasonOrder = map[string]int{"Spring": 0, "Summer": 1, "Fall": 2, "Winter": 3}

// Filter applies q and returns the requested page.
func (c *Catalog) Filter(q Query) Page {
	if q.Limit <= 0 {
		q.Limit = defaultPageSize
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	genders := toSet(q.Genders)
	categories := toSet(q.Categories)
	colours := toSet(q.Colours)
	usages := toSet(q.Usages)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	matched := make([]Item, 0)
	for i := range c.Items() {
		it := &c.items[i]
		if !inSet(genders, it.Gender) ||
			!inSet(categories, it.ArticleType) ||
			!inSet(colours, it.BaseColour) ||
			!inSet(usages, it.Usage) {
			continue
		}
		if search != "" && !matchesSearch(it, search) {
			continue
		}
		matched = append(matched, *it)
	}

	switch q.Sort {
	case SortNewest:
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].Year != matched[j].Year {
				return matched[i].Year > matched[j].Year
			}
			return seasonRank(matched[i].Season) > seasonRank(matched[j].Season)
		})
	case SortName:
		sort.SliceStable(matched, func(i, j int) bool {
			return strings.ToLower(matched[i].DisplayName) < strings.ToLower(matched[j].DisplayName)
		})
	}

	total := len(matched)
	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	return Page{
		Items:       matched[start:end],
		TotalCount:  total,
		TotalPages:  (total + q.Limit - 1) / q.Limit,
		CurrentPage: q.Page,
	}
}

func matchesSearch(it *Item, term string) bool {
	return strings.Contains(strings.ToLower(it.DisplayName), term) ||
		strings.Contains(strings.ToLower(it.ArticleType), term) ||
		strings.Contains(strings.ToLower(it.BaseColour), term)
}

func seasonRank(season string) int {
	if r, ok := seasonOrder[season]; ok {
		return r
	}
	return -1
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[strings.ToLower(v)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// inSet is true for a nil set, otherwise a case-insensitive membership test.
func inSet(set map[string]struct{}, v string) bool {
	if set == nil {
		return true
	}
	_, ok := set[strings.ToLower(v)]
	return ok
}
