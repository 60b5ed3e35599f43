// Package config loads the roomnav.json project configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/roomnav-dev/roomnav/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "roomnav.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultStaticDir is the default static file directory.
	DefaultStaticDir = "public"

	// DefaultTemplatesDir is the default template/stylesheet directory.
	DefaultTemplatesDir = "templates"

	// DefaultCatalogPath is the default room catalog file.
	DefaultCatalogPath = "rooms.toml"

	// DefaultDBPath is the default SQLite database path.
	// Empty selects the in-memory store.
	DefaultDBPath = ""

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "roomnav"
)

// Config represents the complete roomnav.json configuration.
type Config struct {
	// Name is the event/project name, shown as the default page title.
	Name string `json:"name,omitempty"`

	// Server contains listener configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Static contains static file serving configuration.
	Static StaticConfig `json:"static,omitempty"`

	// Templates selects where page assets are fetched from.
	Templates TemplatesConfig `json:"templates,omitempty"`

	// Catalog is the path to the TOML room catalog.
	Catalog string `json:"catalog,omitempty"`

	// DB is the SQLite database path; empty keeps readings in memory.
	DB string `json:"db,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores where the config was loaded from.
	configPath string
}

// ServerConfig contains listener configuration.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `json:"dir,omitempty"`

	// Prefix is the URL prefix for static files (default "/").
	Prefix string `json:"prefix,omitempty"`
}

// TemplatesConfig selects the asset store backend. When S3.Bucket is
// set the S3 store wins; otherwise Dir is served from disk.
type TemplatesConfig struct {
	Dir string    `json:"dir,omitempty"`
	S3  *S3Config `json:"s3,omitempty"`
}

// S3Config configures the S3-backed asset store.
type S3Config struct {
	Bucket string `json:"bucket"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`
}

// MetricsConfig contains Prometheus configuration.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Name: "roomnav",
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Static: StaticConfig{
			Dir:    DefaultStaticDir,
			Prefix: "/",
		},
		Templates: TemplatesConfig{
			Dir: DefaultTemplatesDir,
		},
		Catalog: DefaultCatalogPath,
		DB:      DefaultDBPath,
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
		},
	}
}

// Load reads roomnav.json from path. A missing file yields the default
// configuration; a malformed file is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigFileName
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		cfg.configPath = path
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap("E401", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap("E401", err)
	}
	cfg.applyDefaults()
	cfg.configPath = path
	return cfg, nil
}

// applyDefaults fills zero values left by a sparse config file.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Static.Dir == "" {
		c.Static.Dir = DefaultStaticDir
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = "/"
	}
	if c.Templates.Dir == "" {
		c.Templates.Dir = DefaultTemplatesDir
	}
	if c.Catalog == "" {
		c.Catalog = DefaultCatalogPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// Dir returns the directory the config was loaded from.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}
