// Package config provides configuration management for s3up.
// It supports YAML and TOML configuration files, environment variables, and
// sensible defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Credential environment variables required at startup.
const (
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
)

// Config represents the complete s3up configuration. Values from a config
// file override defaults, environment variables override the file, and
// command-line flags override everything.
type Config struct {
	// Upload configures key mapping and file selection
	Upload UploadConfig `yaml:"upload" toml:"upload"`

	// Storage configures how the bucket is reached
	Storage StorageConfig `yaml:"storage" toml:"storage"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output" toml:"output"`
}

// UploadConfig holds key mapping and file selection settings.
type UploadConfig struct {
	// Prefix is prepended to every derived object key
	Prefix string `yaml:"prefix" toml:"prefix"`
	// ACL is the canned access-control policy applied to uploaded objects
	ACL string `yaml:"acl" toml:"acl"`
	// Ignore is the list of prefix-match ignore patterns
	Ignore []string `yaml:"ignore" toml:"ignore"`
	// Workers bounds concurrent uploads
	Workers int `yaml:"workers" toml:"workers"`
}

// StorageConfig holds bucket connection settings.
type StorageConfig struct {
	// Region is the bucket's region
	Region string `yaml:"region" toml:"region"`
	// EndpointURL points at an S3-compatible endpoint (MinIO etc.)
	EndpointURL string `yaml:"endpoint_url" toml:"endpoint_url"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Quiet suppresses progress output
	Quiet bool `yaml:"quiet" toml:"quiet"`
	// Verbose enables notice-level output such as ignored-file notices
	Verbose bool `yaml:"verbose" toml:"verbose"`
	// Color controls color output (auto, never)
	Color string `yaml:"color" toml:"color"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Upload: UploadConfig{
			ACL:     "private",
			Ignore:  []string{"^."},
			Workers: 8,
		},
		Storage: StorageConfig{
			Region: "us-east-1",
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// Config file names probed in the working directory, in order.
var configFileNames = []string{".s3up.yml", ".s3up.yaml", ".s3up.toml"}

// Load loads the configuration for a working directory, merging file values
// over defaults and environment overrides over both. A missing config file
// is not an error.
func Load(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			// A present-but-unreadable config must not silently fall back
			// to defaults.
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		return LoadFromPath(path)
	}

	cfg := Default()
	cfg.applyEnvironment()
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file. The format is
// chosen by extension: .toml is TOML, everything else is YAML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// applyEnvironment applies environment variable overrides.
// Variables follow the pattern S3UP_<KEY>; the region also honors the
// conventional AWS_REGION.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("S3UP_PREFIX"); v != "" {
		c.Upload.Prefix = v
	}
	if v := os.Getenv("S3UP_ACL"); v != "" {
		c.Upload.ACL = v
	}
	if v := os.Getenv("S3UP_IGNORE"); v != "" {
		c.Upload.Ignore = splitList(v)
	}
	if v := os.Getenv("S3UP_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Upload.Workers = n
		}
	}

	if v := os.Getenv("AWS_REGION"); v != "" {
		c.Storage.Region = v
	}
	if v := os.Getenv("S3UP_REGION"); v != "" {
		c.Storage.Region = v
	}
	if v := os.Getenv("S3UP_ENDPOINT_URL"); v != "" {
		c.Storage.EndpointURL = v
	}
}

// Credentials returns the access key pair from the environment. Both
// variables must be set; a missing one is a fatal configuration error for
// the caller.
func Credentials() (accessKeyID, secretAccessKey string, err error) {
	accessKeyID = os.Getenv(EnvAccessKeyID)
	secretAccessKey = os.Getenv(EnvSecretAccessKey)

	var missing []string
	if accessKeyID == "" {
		missing = append(missing, EnvAccessKeyID)
	}
	if secretAccessKey == "" {
		missing = append(missing, EnvSecretAccessKey)
	}
	if len(missing) > 0 {
		return "", "", errors.New("missing credentials: set " + strings.Join(missing, " and "))
	}
	return accessKeyID, secretAccessKey, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
