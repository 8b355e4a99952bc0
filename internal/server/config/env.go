package config

import (
	"os"

	"github.com/dmitrijs2005/worktracker/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with environment variables. Values from the dotenv
// file given with -env apply only where the process environment is silent.
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

	setString(&cfg.EndpointAddrGRPC, lookup("WORKTRACKER_GRPC_ADDR"))
	setString(&cfg.DatabaseDriver, lookup("DATABASE_DRIVER"))
	setString(&cfg.DatabaseDSN, lookup("DATABASE_DSN"))
	setString(&cfg.LogLevel, lookup("WORKTRACKER_LOG_LEVEL"))
	setString(&cfg.LogFormat, lookup("WORKTRACKER_LOG_FORMAT"))
}
