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

// fileConfig is a DTO used exclusively for unmarshalling config files.
// Zero values leave the corresponding Config field untouched.
type fileConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	Offline            *bool          `json:"offline" yaml:"offline"`
	LocalDB            string         `json:"local_db" yaml:"local_db"`
	LogLevel           string         `json:"log_level" yaml:"log_level"`
	LogFormat          string         `json:"log_format" yaml:"log_format"`
	TelegramToken      string         `json:"telegram_token" yaml:"telegram_token"`
	S3                 struct {
		Endpoint      string         `json:"endpoint" yaml:"endpoint"`
		Region        string         `json:"region" yaml:"region"`
		Bucket        string         `json:"bucket" yaml:"bucket"`
		AccessKey     string         `json:"access_key" yaml:"access_key"`
		SecretKey     string         `json:"secret_key" yaml:"secret_key"`
		PublicBaseURL string         `json:"public_base_url" yaml:"public_base_url"`
		LinkExpiry    timex.Duration `json:"link_expiry" yaml:"link_expiry"`
	} `json:"s3" yaml:"s3"`
}

// parseFile overlays Config with values loaded from the file named by -c or
// -config. Panics on read or decode errors.
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

	setString(&cfg.ServerEndpointAddr, fc.ServerEndpointAddr)
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.Offline != nil {
		cfg.Offline = *fc.Offline
	}
	setString(&cfg.LocalDB, fc.LocalDB)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.TelegramToken, fc.TelegramToken)
	setString(&cfg.S3Endpoint, fc.S3.Endpoint)
	setString(&cfg.S3Region, fc.S3.Region)
	setString(&cfg.S3Bucket, fc.S3.Bucket)
	setString(&cfg.S3AccessKey, fc.S3.AccessKey)
	setString(&cfg.S3SecretKey, fc.S3.SecretKey)
	setString(&cfg.S3PublicBaseURL, fc.S3.PublicBaseURL)
	if fc.S3.LinkExpiry.Duration > 0 {
		cfg.S3LinkExpiry = fc.S3.LinkExpiry.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
