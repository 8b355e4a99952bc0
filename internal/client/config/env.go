package config

import (
	"os"
	"strconv"

	"github.com/dmitrijs2005/worktracker/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A dotenv file given
// with -env supplies values for variables the process does not set. Panics
// when that file cannot be read.
func parseEnv(cfg *Config) {
	var fromFile map[string]string
	if path := flagx.EnvFileFlag(); path != "" {
		var err error
		if fromFile, err = godotenv.Read(path); err != nil {
			panic(err)
		}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fromFile[key]
	}

	setString(&cfg.ServerEndpointAddr, lookup("WORKTRACKER_SERVER"))
	setString(&cfg.LogLevel, lookup("WORKTRACKER_LOG_LEVEL"))
	setString(&cfg.LocalDB, lookup("WORKTRACKER_LOCAL_DB"))
	setString(&cfg.TelegramToken, lookup("TELEGRAM_TOKEN"))
	setString(&cfg.S3Endpoint, lookup("S3_ENDPOINT"))
	setString(&cfg.S3Region, lookup("S3_REGION"))
	setString(&cfg.S3Bucket, lookup("S3_BUCKET"))
	setString(&cfg.S3AccessKey, lookup("S3_ACCESS_KEY"))
	setString(&cfg.S3SecretKey, lookup("S3_SECRET_KEY"))
	setString(&cfg.S3PublicBaseURL, lookup("S3_PUBLIC_BASE_URL"))

	if v := lookup("WORKTRACKER_OFFLINE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Offline = b
		}
	}
}
