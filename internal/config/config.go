package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AllowedImageExtensions is the fixed set of image extensions accepted on upload.
var AllowedImageExtensions = []string{"jpg", "jpeg", "png", "gif"}

type Config struct {
	ListenAddr        string
	DBPath            string
	UploadDir         string
	AllowedExtensions []string
	MaxUploadMB       int64
	LogLevel          string
	LogFile           string
}

// Load reads configuration from the environment. Variables from envFile are
// loaded first when the file exists; values already set in the environment
// take precedence over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return &Config{
		ListenAddr:        getEnv("LISTEN_ADDR", ":8080"),
		DBPath:            getEnv("DB_PATH", "smartphones.db"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		AllowedExtensions: AllowedImageExtensions,
		MaxUploadMB:       getEnvInt64("MAX_UPLOAD_MB", 16),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           getEnv("LOG_FILE", ""),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}
