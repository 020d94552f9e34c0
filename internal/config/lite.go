// Package config loads server settings. The full server reads YAML and
// environment through viper; the lite binary that Claude Desktop launches over
// stdio reads only CLINICAL_* environment variables, since Claude Desktop
// passes configuration through the env block of its server entry.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LiteConfig configures the single-user MCP server: SQLite audit trail under
// DataDir, in-process summary cache, embedded or file-backed trial catalog.
type LiteConfig struct {
	DataDir string // holds audit.db and exports/

	// AuditDisabled skips the SQLite trail so no patient inputs touch disk.
	AuditDisabled bool

	CacheMaxItems int           // trial summaries kept in the LRU
	CacheTTL      time.Duration // trial records rarely change

	TrialsFile string // YAML catalog replacing the embedded trials.yaml

	Transport string // stdio or http
	HTTPPort  int

	// stdout belongs to the stdio transport, so logs always go to stderr.
	LogLevel  string
	LogFormat string
}

// DefaultLiteConfig returns the settings used when no CLINICAL_* variable is set.
func DefaultLiteConfig() *LiteConfig {
	homeDir, _ := os.UserHomeDir()

	return &LiteConfig{
		DataDir:       filepath.Join(homeDir, ".clinical-scoring"),
		CacheMaxItems: 1000,
		CacheTTL:      24 * time.Hour,
		Transport:     "stdio",
		HTTPPort:      8080,
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// envBinding applies one variable. It returns false when the value is unusable,
// in which case the default stays.
type envBinding struct {
	name  string
	apply func(cfg *LiteConfig, value string) bool
}

var liteEnv = []envBinding{
	{"CLINICAL_DATA_DIR", func(c *LiteConfig, v string) bool { c.DataDir = v; return true }},
	{"CLINICAL_AUDIT", func(c *LiteConfig, v string) bool {
		switch strings.ToLower(v) {
		case "off", "false", "0", "disabled":
			c.AuditDisabled = true
		case "on", "true", "1", "enabled":
			c.AuditDisabled = false
		default:
			return false
		}
		return true
	}},
	{"CLINICAL_CACHE_MAX_ITEMS", func(c *LiteConfig, v string) bool { return positiveInt(v, &c.CacheMaxItems) }},
	{"CLINICAL_CACHE_TTL", func(c *LiteConfig, v string) bool {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return false
		}
		c.CacheTTL = d
		return true
	}},
	{"CLINICAL_TRIALS_FILE", func(c *LiteConfig, v string) bool { c.TrialsFile = v; return true }},
	{"CLINICAL_TRANSPORT", func(c *LiteConfig, v string) bool { c.Transport = strings.ToLower(v); return true }},
	{"CLINICAL_HTTP_PORT", func(c *LiteConfig, v string) bool { return positiveInt(v, &c.HTTPPort) }},
	{"CLINICAL_LOG_LEVEL", func(c *LiteConfig, v string) bool { c.LogLevel = v; return true }},
	{"CLINICAL_LOG_FORMAT", func(c *LiteConfig, v string) bool { c.LogFormat = v; return true }},
}

// LiteEnvVars lists the variables LoadLiteConfig reads.
func LiteEnvVars() []string {
	names := make([]string, len(liteEnv))
	for i, b := range liteEnv {
		names[i] = b.name
	}
	return names
}

// LoadLiteConfig overlays CLINICAL_* variables on the defaults. Empty or
// malformed values leave the default in place.
func LoadLiteConfig() *LiteConfig {
	cfg := DefaultLiteConfig()
	for _, b := range liteEnv {
		if v := strings.TrimSpace(os.Getenv(b.name)); v != "" {
			b.apply(cfg, v)
		}
	}
	return cfg
}

func positiveInt(v string, dst *int) bool {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return false
	}
	*dst = n
	return true
}

// Validate rejects settings the lite server cannot start with.
func (c *LiteConfig) Validate() error {
	if c.DataDir == "" && !c.AuditDisabled {
		return fmt.Errorf("data directory is required while the audit trail is enabled")
	}
	switch c.Transport {
	case "stdio":
	case "http":
		if c.HTTPPort < 1 || c.HTTPPort > 65535 {
			return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
		}
	default:
		return fmt.Errorf("unsupported transport %q: use stdio or http", c.Transport)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid log format %q: use json or text", c.LogFormat)
	}
	if c.CacheMaxItems <= 0 {
		return fmt.Errorf("cache size must be positive, got %d", c.CacheMaxItems)
	}
	return nil
}

// AuditDBPath returns the SQLite audit database location.
func (c *LiteConfig) AuditDBPath() string {
	return filepath.Join(c.DataDir, "audit.db")
}

// ExportDir returns the exports directory under DataDir.
func (c *LiteConfig) ExportDir() string {
	return filepath.Join(c.DataDir, "exports")
}

// EnsureDataDir creates DataDir and its exports directory.
func (c *LiteConfig) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
		return err
	}
	return os.MkdirAll(c.ExportDir(), 0o700)
}
