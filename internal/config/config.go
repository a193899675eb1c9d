package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         string
	DatabasePath string
	LogLevel     string

	Backup BackupConfig
}

// BackupConfig holds the S3 snapshot backup settings. Backups are disabled
// unless bucket, access key, and secret key are all set.
type BackupConfig struct {
	Endpoint   string
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Passphrase string
	Interval   time.Duration
}

func Load() *Config {
	return &Config{
		Port:         getEnv("GIFTTRACKER_PORT", "8080"),
		DatabasePath: getEnv("GIFTTRACKER_DB_PATH", "gifttracker.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Backup: BackupConfig{
			Endpoint:   getEnv("BACKUP_S3_ENDPOINT", ""),
			Bucket:     getEnv("BACKUP_S3_BUCKET", ""),
			Region:     getEnv("BACKUP_S3_REGION", "auto"),
			AccessKey:  getEnv("BACKUP_S3_ACCESS_KEY", ""),
			SecretKey:  getEnv("BACKUP_S3_SECRET_KEY", ""),
			Passphrase: getEnv("BACKUP_PASSPHRASE", ""),
			Interval:   time.Duration(getIntEnv("BACKUP_INTERVAL_HOURS", 24)) * time.Hour,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
