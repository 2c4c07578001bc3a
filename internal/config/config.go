// Package config loads the small JSON-plus-environment-overrides
// configuration cmd/fitcalc reads at startup: where to load a catalog
// bundle from, and what address pkg/fitserver should listen on. A struct
// with defaults, Load/Save, and a remembered configPath — no
// routes/static/build sub-configs, since this isn't a web-framework
// deployment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/evefit/fitcalc/pkg/fitsession"
)

// ConfigFileName is the name of the configuration file Load looks for.
const ConfigFileName = "fitcalc.json"

// DefaultAddress is the default fitserver listen address.
const DefaultAddress = ":8080"

// CatalogSourceKind selects which catalogstore backend loads the catalog.
type CatalogSourceKind string

const (
	// CatalogSourceFile loads a bundle from a local JSON file.
	CatalogSourceFile CatalogSourceKind = "file"
	// CatalogSourceS3 loads a bundle from an S3 object.
	CatalogSourceS3 CatalogSourceKind = "s3"
)

// CatalogConfig names where the static-data bundle comes from.
type CatalogConfig struct {
	// Source selects the backend: "file" or "s3".
	Source CatalogSourceKind `json:"source,omitempty"`

	// Path is the local file path, used when Source == "file".
	Path string `json:"path,omitempty"`

	// Bucket/Key/Region locate the S3 object, used when Source == "s3".
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key,omitempty"`
	Region string `json:"region,omitempty"`
}

// ServerConfig configures the listen address and session-eviction policy
// cmd/fitcalc's serve subcommand hands to pkg/fitserver.
type ServerConfig struct {
	Address         string        `json:"address,omitempty"`
	MaxFits         int           `json:"maxFits,omitempty"`
	IdleTimeout     time.Duration `json:"idleTimeout,omitempty"`
	CleanupInterval time.Duration `json:"cleanupInterval,omitempty"`
}

// Config is the complete fitcalc.json configuration schema.
type Config struct {
	Catalog CatalogConfig `json:"catalog,omitempty"`
	Server  ServerConfig  `json:"server,omitempty"`

	// configPath stores the path Config was loaded from, for Save.
	configPath string
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Catalog: CatalogConfig{Source: CatalogSourceFile, Path: "catalog.json"},
		Server: ServerConfig{
			Address:         DefaultAddress,
			MaxFits:         fitsession.DefaultManagerConfig().MaxFits,
			IdleTimeout:     fitsession.DefaultManagerConfig().IdleTimeout,
			CleanupInterval: fitsession.DefaultManagerConfig().CleanupInterval,
		},
	}
}

// Load reads fitcalc.json from dir, then applies FITCALC_*-prefixed
// environment overrides. A missing file is not an error: Load returns
// defaults in that case, since a fresh checkout has no config file yet.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	cfg, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = New()
		} else {
			return nil, err
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFile reads configuration from an explicit file path, with no
// environment-override pass (used directly by tests and by Load).
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.configPath = path
	return cfg, nil
}

// Save writes the configuration back to the path it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("config: no path to save to")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path, recording it for future Save
// calls.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	c.configPath = path
	return nil
}

// Path returns the file Config was loaded from or saved to, or "".
func (c *Config) Path() string { return c.configPath }

// applyEnvOverrides applies a small fixed set of env vars, each only when
// non-empty.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("FITCALC_CATALOG_SOURCE"); v != "" {
		c.Catalog.Source = CatalogSourceKind(v)
	}
	if v := os.Getenv("FITCALC_CATALOG_PATH"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("FITCALC_CATALOG_BUCKET"); v != "" {
		c.Catalog.Bucket = v
	}
	if v := os.Getenv("FITCALC_CATALOG_KEY"); v != "" {
		c.Catalog.Key = v
	}
	if v := os.Getenv("FITCALC_CATALOG_REGION"); v != "" {
		c.Catalog.Region = v
	}
	if v := os.Getenv("FITCALC_SERVER_ADDRESS"); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv("FITCALC_SERVER_MAX_FITS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.MaxFits = n
		}
	}
}
