package config

import (
	"time"

	"github.com/dmitrijs2005/worktracker/internal/client/attachments"
)

// Config holds runtime settings for the worktracker client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the document store gRPC endpoint.
//   - RequestTimeout: per-call deadline for remote writes and reads.
//   - Offline: do not contact the server.
//   - LocalDB: SQLite file used while offline; empty keeps data in memory only.
//   - TelegramToken: bot token for "done" notifications; empty logs them.
//   - S3*: attachment storage for certificate scans; empty bucket disables uploads.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	Offline            bool
	LocalDB            string

	LogLevel  string
	LogFormat string

	TelegramToken string

	S3Endpoint      string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
	S3LinkExpiry    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3Region = "us-east-1"
	c.S3LinkExpiry = 7 * 24 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file, the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// UploadsEnabled reports whether attachment storage is configured.
func (c *Config) UploadsEnabled() bool {
	return c.S3Bucket != ""
}

// Attachments returns the S3 settings for the attachment uploader.
func (c *Config) Attachments() attachments.Config {
	return attachments.Config{
		Region:        c.S3Region,
		AccessKey:     c.S3AccessKey,
		SecretKey:     c.S3SecretKey,
		Endpoint:      c.S3Endpoint,
		Bucket:        c.S3Bucket,
		PublicBaseURL: c.S3PublicBaseURL,
		LinkExpiry:    c.S3LinkExpiry,
	}
}
