package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds daemon configuration, loaded from VIDSTORE_* environment
// variables. Every database setting has a default, so a bare environment
// points the store at a local MySQL.
type Config struct {
	// Database settings
	DBName            string        // VIDSTORE_DB_NAME (default "video_database")
	DBHost            string        // VIDSTORE_DB_HOST (default "localhost")
	DBUser            string        // VIDSTORE_DB_USER (default "root")
	DBPassword        string        // VIDSTORE_DB_PASSWORD (default empty)
	DBPort            int           // VIDSTORE_DB_PORT (default 3306)
	DBConnectAttempts int           // VIDSTORE_DB_CONNECT_ATTEMPTS (default 3)
	DBRetryDelay      time.Duration // VIDSTORE_DB_RETRY_DELAY (default 1s)

	HTTPAddr  string // VIDSTORE_HTTP_ADDR (default ":8080")
	NATSURL   string // VIDSTORE_NATS_URL (optional, empty = no events)
	AuthToken string // VIDSTORE_AUTH_TOKEN (optional, empty = auth disabled)

	// Snapshot settings
	SyncInterval   time.Duration // VIDSTORE_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // VIDSTORE_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // VIDSTORE_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // VIDSTORE_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // VIDSTORE_SYNC_S3_KEY (default "vidstore/videos.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		DBName:         envOrDefault("VIDSTORE_DB_NAME", "video_database"),
		DBHost:         envOrDefault("VIDSTORE_DB_HOST", "localhost"),
		DBUser:         envOrDefault("VIDSTORE_DB_USER", "root"),
		DBPassword:     os.Getenv("VIDSTORE_DB_PASSWORD"),
		HTTPAddr:       envOrDefault("VIDSTORE_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("VIDSTORE_NATS_URL"),
		AuthToken:      os.Getenv("VIDSTORE_AUTH_TOKEN"),
		SyncS3Bucket:   os.Getenv("VIDSTORE_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("VIDSTORE_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("VIDSTORE_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("VIDSTORE_SYNC_S3_KEY", "vidstore/videos.jsonl"),
	}

	var err error
	if c.DBPort, err = envInt("VIDSTORE_DB_PORT", 3306); err != nil {
		return nil, err
	}
	if c.DBConnectAttempts, err = envInt("VIDSTORE_DB_CONNECT_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if c.DBRetryDelay, err = envDuration("VIDSTORE_DB_RETRY_DELAY", time.Second); err != nil {
		return nil, err
	}
	if c.SyncInterval, err = envDuration("VIDSTORE_SYNC_INTERVAL", 3*time.Minute); err != nil {
		return nil, err
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
