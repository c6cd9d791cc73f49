// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package recommend

import "strings"

// complementaryTypes maps an article type to the types that complete an outfit with it.
var complementaryTypes = map[string][]string{
	"Shirts":   {"Jeans", "Trousers", "Shorts"},
	"Tshirts":  {"Jeans", "Shorts", "Skirts"},
	"Tops":     {"Jeans", "Skirts", "Shorts", "Trousers"},
	"Jeans":    {"Shirts", "Tshirts", "Tops", "Sweaters"},
	"Trousers": {"Shirts", "Blazers", "Sweaters"},
	"Skirts":   {"Tops", "Tshirts", "Blouses"},
	"Dresses":  {"Jackets", "Cardigans"},
	"Sweaters": {"Jeans", "Trousers"},
	"Jackets":  {"Jeans", "Trousers", "Dresses"},
	"Blazers":  {"Trousers", "Shirts"},
}

// colourCompatibility maps a base colour to colours it pairs with.
var colourCompatibility = map[string][]string{
	"Black":     {"White", "Red", "Blue", "Grey", "Pink"},
	"White":     {"Black", "Blue", "Red", "Brown", "Navy Blue"},
	"Blue":      {"White", "Grey", "Brown", "Black"},
	"Red":       {"Black", "White", "Navy Blue"},
	"Grey":      {"Black", "Blue", "Pink", "Purple"},
	"Green":     {"White", "Beige", "Grey", "Black"},
	"Pink":      {"White", "Grey", "Navy Blue", "Black"},
	"Navy Blue": {"White", "Red", "Pink", "Grey"},
	"Brown":     {"White", "Blue", "Beige"},
	"Beige":     {"Brown", "Black", "Blue", "Green"},
	"Purple":    {"White", "Grey", "Black"},
	"Yellow":    {"White", "Grey", "Navy Blue", "Black"},
	"Orange":    {"White", "Blue", "Black"},
}

// quizStyles maps a style option to keywords matched against usage and display name.
var quizStyles = map[string][]string{
	"minimalist": {"Minimalist", "Clean", "Simple"},
	"casual":     {"Casual", "Everyday", "Relaxed"},
	"formal":     {"Formal", "Business", "Elegant"},
	"athletic":   {"Sports", "Active", "Athletic"},
	"bohemian":   {"Bohemian", "Boho", "Ethnic"},
}

// quizPalettes maps a colour option to the base colours it accepts.
var quizPalettes = map[string][]string{
	"neutral":    {"Black", "White", "Grey", "Navy Blue", "Beige", "Brown"},
	"vibrant":    {"Red", "Blue", "Green", "Yellow", "Orange", "Purple", "Pink"},
	"pastel":     {"Pink", "Light Blue", "Mint", "Lavender", "Peach", "Sky Blue"},
	"monochrome": {"Black", "White", "Grey"},
	"earth":      {"Brown", "Beige", "Olive", "Khaki", "Green", "Tan"},
}

// quizOccasions maps an occasion option to keywords matched against usage.
var quizOccasions = map[string][]string{
	"everyday": {"Casual"},
	"work":     {"Formal", "Office"},
	"special":  {"Ethnic", "Formal", "Party"},
	"athletic": {"Sports", "Active"},
}

// IsComplementary reports whether candidate completes an outfit with base.
func IsComplementary(baseType, candidateType string) bool {
	return contains(complementaryTypes[baseType], candidateType)
}

// ColoursCompatible reports whether candidate pairs with base.
func ColoursCompatible(baseColour, candidateColour string) bool {
	return contains(colourCompatibility[baseColour], candidateColour)
}

// StyleKeywords returns the keywords for a quiz style option.
func StyleKeywords(option string) []string {
	return quizStyles[strings.ToLower(option)]
}

// PaletteColours returns the base colours for a quiz palette option.
func PaletteColours(option string) []string {
	return quizPalettes[strings.ToLower(option)]
}

// OccasionKeywords returns the usage keywords for a quiz occasion option.
func OccasionKeywords(option string) []string {
	return quizOccasions[strings.ToLower(option)]
}

// QuizOption describes a selectable quiz answer.
type QuizOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// QuizQuestion describes a quiz question and its options.
type QuizQuestion struct {
	ID          string       `json:"id"`
	Question    string       `json:"question"`
	Description string       `json:"description"`
	Options     []QuizOption `json:"options"`
}

// QuizQuestions returns the onboarding questionnaire.
func QuizQuestions() []QuizQuestion {
	return []QuizQuestion{
		{
			ID:          QuestionStyle,
			Question:    "What's your preferred style?",
			Description: "This helps us understand your overall fashion aesthetic.",
			Options: []QuizOption{
				{ID: "casual", Label: "Casual & Comfortable"},
				{ID: "formal", Label: "Formal & Elegant"},
				{ID: "athletic", Label: "Athletic & Sporty"},
				{ID: "minimalist", Label: "Minimalist & Clean"},
				{ID: "bohemian", Label: "Bohemian & Free-spirited"},
			},
		},
		{
			ID:          QuestionColour,
			Question:    "Which color palette speaks to you?",
			Description: "Colors play a big role in defining your personal style.",
			Options: []QuizOption{
				{ID: "neutral", Label: "Neutral Tones"},
				{ID: "vibrant", Label: "Vibrant & Bold"},
				{ID: "pastel", Label: "Soft Pastels"},
				{ID: "monochrome", Label: "Black & White"},
				{ID: "earth", Label: "Earth Tones"},
			},
		},
		{
			ID:          QuestionOccasion,
			Question:    "What are you primarily shopping for?",
			Description: "This helps us recommend items that fit your lifestyle needs.",
			Options: []QuizOption{
				{ID: "everyday", Label: "Everyday Casual"},
				{ID: "work", Label: "Work & Professional"},
				{ID: "special", Label: "Special Events"},
				{ID: "athletic", Label: "Workout & Active"},
				{ID: "lounge", Label: "Loungewear & Comfort"},
			},
		},
		{
			ID:          QuestionFit,
			Question:    "What fit do you typically prefer?",
			Description: "Fit preference is recorded but does not affect scoring.",
			Options: []QuizOption{
				{ID: "loose", Label: "Loose & Relaxed"},
				{ID: "regular", Label: "Regular & Classic"},
				{ID: "fitted", Label: "Fitted & Tailored"},
				{ID: "oversized", Label: "Oversized & Trendy"},
			},
		},
	}
}

// ValidQuizAnswer reports whether option is a known choice for question.
func ValidQuizAnswer(question, option string) bool {
	for _, q := range QuizQuestions() {
		if q.ID != question {
			continue
		}
		for _, o := range q.Options {
			if o.ID == option {
				return true
			}
		}
		return false
	}
	return false
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
