package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		Backend string // "mongodb" or "dynamodb"; empty means prompt
		Mongo
		Dynamo
		Search
		Audit
	}

	Mongo struct {
		URI        string
		Database   string
		Collection string
	}
	Dynamo struct {
		Table    string
		Region   string
		Endpoint string // override for local emulators; empty in production
	}
	Search struct {
		Limit int
	}
	Audit struct {
		Enabled bool
		Dir     string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("backend", "")
	v.SetDefault("mongodb_uri", DefaultMongoURI)
	v.SetDefault("mongodb_database", DefaultMongoDatabase)
	v.SetDefault("mongodb_collection", DefaultMongoCollection)
	v.SetDefault("dynamodb_table", DefaultDynamoTable)
	v.SetDefault("aws_default_region", DefaultAWSRegion)
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("search_limit", 20)
	v.SetDefault("audit_enabled", false)
	v.SetDefault("audit_dir", "./audit")

	return &Config{
		Backend: v.GetString("BACKEND"),
		Mongo: Mongo{
			URI:        v.GetString("MONGODB_URI"),
			Database:   v.GetString("MONGODB_DATABASE"),
			Collection: v.GetString("MONGODB_COLLECTION"),
		},
		Dynamo: Dynamo{
			Table:    v.GetString("DYNAMODB_TABLE"),
			Region:   v.GetString("AWS_DEFAULT_REGION"),
			Endpoint: v.GetString("DYNAMODB_ENDPOINT"),
		},
		Search: Search{
			Limit: v.GetInt("SEARCH_LIMIT"),
		},
		Audit: Audit{
			Enabled: v.GetBool("AUDIT_ENABLED"),
			Dir:     v.GetString("AUDIT_DIR"),
		},
	}
}
