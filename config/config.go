/*
config.go - Startup configuration

PURPOSE:
  Resolves every runtime option once at process startup into an
  explicit struct. Nothing later in the request path reads the
  environment; handlers and stores receive what they need through
  construction.

SOURCES:
  Environment variables (viper, with an optional .env file for local
  development). Command-line flags in cmd/server may override the port
  and storage driver.

VARIABLES:
  PORT                    HTTP port (default 8080)
  ADMIN_KEY               Shared secret for admin endpoints (empty
                          disables them: requests get 401)
  COUNT_BLOB_DRIVER       memory | fs | sqlite | s3 (default fs)
  COUNT_BLOB_FS_ROOT      fs driver root directory
  COUNT_BLOB_SQLITE_PATH  sqlite driver database file
  COUNT_BLOB_S3_BUCKET    s3 driver bucket (required for s3)
  COUNT_BLOB_S3_REGION    s3 region (default us-east-1)
  COUNT_BLOB_S3_ENDPOINT  custom endpoint (MinIO)
  COUNT_BLOB_S3_ACCESS_KEY_ID / COUNT_BLOB_S3_SECRET_ACCESS_KEY
                          static credentials (default AWS chain if unset)
  COUNT_BLOB_S3_PATH_STYLE true for path-style addressing
*/
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the resolved process configuration.
type Config struct {
	Port     int
	AdminKey string
	Storage  Storage
}

// Storage selects and configures the key-value backend.
type Storage struct {
	Driver        string
	FSRoot        string
	SQLitePath    string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKeyID string
	S3SecretKey   string
	S3PathStyle   bool
}

// Load reads configuration from the environment (and a .env file when
// present) and validates the combination once.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // .env is optional
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("COUNT_BLOB_DRIVER", "fs")
	v.SetDefault("COUNT_BLOB_FS_ROOT", "./countdata")
	v.SetDefault("COUNT_BLOB_SQLITE_PATH", "count.db")
	v.SetDefault("COUNT_BLOB_S3_REGION", "us-east-1")

	cfg := &Config{
		Port:     v.GetInt("PORT"),
		AdminKey: v.GetString("ADMIN_KEY"),
		Storage: Storage{
			Driver:        v.GetString("COUNT_BLOB_DRIVER"),
			FSRoot:        v.GetString("COUNT_BLOB_FS_ROOT"),
			SQLitePath:    v.GetString("COUNT_BLOB_SQLITE_PATH"),
			S3Bucket:      v.GetString("COUNT_BLOB_S3_BUCKET"),
			S3Region:      v.GetString("COUNT_BLOB_S3_REGION"),
			S3Endpoint:    v.GetString("COUNT_BLOB_S3_ENDPOINT"),
			S3AccessKeyID: v.GetString("COUNT_BLOB_S3_ACCESS_KEY_ID"),
			S3SecretKey:   v.GetString("COUNT_BLOB_S3_SECRET_ACCESS_KEY"),
			S3PathStyle:   v.GetBool("COUNT_BLOB_S3_PATH_STYLE"),
		},
	}

	if cfg.Storage.Driver == "s3" && cfg.Storage.S3Bucket == "" {
		return nil, fmt.Errorf("COUNT_BLOB_S3_BUCKET required when COUNT_BLOB_DRIVER=s3")
	}
	return cfg, nil
}
