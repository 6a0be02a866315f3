package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// The query builders are pure; the driver calls themselves are exercised
// against a live server in integration environments.

func TestSubstringFilter(t *testing.T) {
	filter := substringFilter("genre", "sci")

	require.Len(t, filter, 1)
	assert.Equal(t, "genre", filter[0].Key)

	match := filter[0].Value.(bson.D)
	assert.Equal(t, bson.D{
		{Key: "$regex", Value: "sci"},
		{Key: "$options", Value: "i"},
	}, match)
}

func TestSubstringFilter_QuotesRegexMetacharacters(t *testing.T) {
	filter := substringFilter("name", "Mission: Impossible (1996)")

	match := filter[0].Value.(bson.D)
	assert.Equal(t, `Mission: Impossible \(1996\)`, match[0].Value)
}

func TestUpdateDocument(t *testing.T) {
	doc := updateDocument(map[string]any{"rating": 9.0, "certificate": "R"})

	assert.Equal(t, bson.M{"rating": 9.0, "certificate": "R"}, doc)
}
