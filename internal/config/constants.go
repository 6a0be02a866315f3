package config

// Backend connection defaults
const (
	// DefaultMongoURI is the local MongoDB instance used when none is configured
	DefaultMongoURI = "mongodb://localhost:27017/"

	// DefaultMongoDatabase holds the encyclopedia's single collection
	DefaultMongoDatabase = "movie_encyclopedia_db"

	// DefaultMongoCollection is the movie collection name
	DefaultMongoCollection = "movies"

	// DefaultDynamoTable is the DynamoDB table name, created on first use
	DefaultDynamoTable = "Movies"

	// DefaultAWSRegion is used when the environment does not set one
	DefaultAWSRegion = "us-west-2"
)
