package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// Movie is the single record type the encyclopedia manages. The name acts as
// the primary key in both backends: MongoDB keeps it as a plain document
// field, DynamoDB uses it as the partition key.
type Movie struct {
	Name        string   `bson:"name" dynamodbav:"name" json:"name"`
	Year        string   `bson:"year" dynamodbav:"year" json:"year,omitempty"`
	Rating      float64  `bson:"rating" dynamodbav:"rating" json:"rating"`
	Certificate string   `bson:"certificate" dynamodbav:"certificate" json:"certificate,omitempty"`
	Genre       []string `bson:"genre" dynamodbav:"genre" json:"genre,omitempty"`
	Casts       []string `bson:"casts" dynamodbav:"casts" json:"casts,omitempty"`
	Directors   []string `bson:"directors" dynamodbav:"directors" json:"directors,omitempty"`
}

// PrimaryGenre returns the first genre entry, used as a denormalized index
// field in the DynamoDB table. "None" when the movie has no genres.
func (m Movie) PrimaryGenre() string {
	if len(m.Genre) == 0 {
		return "None"
	}
	return m.Genre[0]
}

// ParseRating converts user or CSV input into the canonical float64 rating.
func ParseRating(s string) (float64, error) {
	rating, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rating %q: must be numeric", s)
	}
	return rating, nil
}

// FormatRating renders a rating without trailing zeros ("8.5", not "8.500000").
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64)
}

// SplitList breaks a comma-delimited field ("Action,Drama") into its entries,
// trimming whitespace and dropping empty elements.
func SplitList(field string) []string {
	parts := strings.Split(field, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
