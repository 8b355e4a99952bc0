package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/worktracker/internal/flagx"
	"github.com/dmitrijs2005/worktracker/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is an intermediate DTO used only for reading config files.
// timex.Duration accepts both "10s" strings and integer nanoseconds.
type fileConfig struct {
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDriver   string         `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN      string         `json:"database_dsn" yaml:"database_dsn"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel         string         `json:"log_level" yaml:"log_level"`
	LogFormat        string         `json:"log_format" yaml:"log_format"`
}

// parseFile loads the file named by -c or -config into cfg. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON. Empty fields keep
// their current value. Panics if the file cannot be read or decoded.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	setString(&cfg.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&cfg.DatabaseDriver, fc.DatabaseDriver)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	if fc.ShutdownTimeout.Duration > 0 {
		cfg.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
