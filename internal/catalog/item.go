// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

// Package catalog holds the product catalog: the immutable item records the
// recommender scores, loaders for styles.csv and JSON exports, and the
// filter/search queries behind the product listing endpoints.
package catalog

import "strings"

// Unknown is the reserved value for a missing categorical attribute.
const Unknown = "unknown"

// UnisexGender matches shoppers of any gender.
const UnisexGender = "Unisex"

// Item is one sellable product. Items are created at load time and never
// mutated afterwards.
type Item struct {
	// ID is unique across the catalog.
	ID string `json:"id"`

	Gender         string `json:"gender"`
	MasterCategory string `json:"master_category"`
	SubCategory    string `json:"sub_category"`
	ArticleType    string `json:"article_type"`
	BaseColour     string `json:"base_colour"`
	Season         string `json:"season"`
	Usage          string `json:"usage"`

	// DisplayName is the human-readable product title.
	DisplayName string `json:"display_name"`

	// Year is the catalog year, 0 when unknown.
	Year int `json:"year,omitempty"`

	// ImageURL is set when an images index was supplied.
	ImageURL string `json:"image_url,omitempty"`
}

// Attribute names one categorical field of an Item.
type Attribute int

const (
	AttrGender Attribute = iota
	AttrMasterCategory
	AttrSubCategory
	AttrArticleType
	AttrBaseColour
	AttrSeason
	AttrUsage
)

// Attributes lists the categorical attributes in their stable encoding order.
var Attributes = []Attribute{
	AttrGender,
	AttrMasterCategory,
	AttrSubCategory,
	AttrArticleType,
	AttrBaseColour,
	AttrSeason,
	AttrUsage,
}

// String returns the styles.csv column name of the attribute.
func (a Attribute) String() string {
	switch a {
	case AttrGender:
		return "gender"
	case AttrMasterCategory:
		return "masterCategory"
	case AttrSubCategory:
		return "subCategory"
	case AttrArticleType:
		return "articleType"
	case AttrBaseColour:
		return "baseColour"
	case AttrSeason:
		return "season"
	case AttrUsage:
		return "usage"
	default:
		return "invalid"
	}
}

// Value returns the raw value of attribute a, possibly empty.
//
//nolint:gocritic // hugeParam: Item is read-only and passed by value throughout
func (it Item) Value(a Attribute) string {
	switch a {
	case AttrGender:
		return it.Gender
	case AttrMasterCategory:
		return it.MasterCategory
	case AttrSubCategory:
		return it.SubCategory
	case AttrArticleType:
		return it.ArticleType
	case AttrBaseColour:
		return it.BaseColour
	case AttrSeason:
		return it.Season
	case AttrUsage:
		return it.Usage
	default:
		return ""
	}
}

// ValueOrUnknown returns the trimmed attribute value, or Unknown when blank.
//
//nolint:gocritic // hugeParam: Item is read-only and passed by value throughout
func (it Item) ValueOrUnknown(a Attribute) string {
	v := strings.TrimSpace(it.Value(a))
	if v == "" {
		return Unknown
	}
	return v
}

// Words returns the lower-cased words of the display name.
//
//nolint:gocritic // hugeParam: Item is read-only and passed by value throughout
func (it Item) Words() []string {
	return strings.Fields(strings.ToLower(it.DisplayName))
}
