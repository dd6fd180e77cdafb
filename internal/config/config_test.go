package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Upload.ACL != "private" {
		t.Errorf("default ACL = %q, want private", cfg.Upload.ACL)
	}
	if len(cfg.Upload.Ignore) != 1 || cfg.Upload.Ignore[0] != "^." {
		t.Errorf("default ignore = %v, want [^.]", cfg.Upload.Ignore)
	}
	if cfg.Upload.Workers <= 0 {
		t.Errorf("default workers = %d, want positive", cfg.Upload.Workers)
	}
	if cfg.Storage.Region == "" {
		t.Error("default region should be set")
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Upload.ACL != "private" {
		t.Errorf("ACL = %q, want private", cfg.Upload.ACL)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	content := `
upload:
  prefix: releases
  acl: public-read
  ignore: ["^.", "node_modules"]
storage:
  region: eu-west-1
output:
  verbose: true
`
	if err := os.WriteFile(filepath.Join(dir, ".s3up.yml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Upload.Prefix != "releases" {
		t.Errorf("prefix = %q, want releases", cfg.Upload.Prefix)
	}
	if cfg.Upload.ACL != "public-read" {
		t.Errorf("acl = %q, want public-read", cfg.Upload.ACL)
	}
	if len(cfg.Upload.Ignore) != 2 {
		t.Errorf("ignore = %v, want two patterns", cfg.Upload.Ignore)
	}
	if cfg.Storage.Region != "eu-west-1" {
		t.Errorf("region = %q, want eu-west-1", cfg.Storage.Region)
	}
	if !cfg.Output.Verbose {
		t.Error("verbose should be true")
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[upload]
prefix = "assets"
workers = 4

[storage]
endpoint_url = "http://localhost:9000"
`
	if err := os.WriteFile(filepath.Join(dir, ".s3up.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Upload.Prefix != "assets" {
		t.Errorf("prefix = %q, want assets", cfg.Upload.Prefix)
	}
	if cfg.Upload.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Upload.Workers)
	}
	if cfg.Storage.EndpointURL != "http://localhost:9000" {
		t.Errorf("endpoint = %q, want http://localhost:9000", cfg.Storage.EndpointURL)
	}
	// Unset file values keep defaults
	if cfg.Upload.ACL != "private" {
		t.Errorf("acl = %q, want private default", cfg.Upload.ACL)
	}
}

func TestLoad_YAMLBeforeTOML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".s3up.yml"), []byte("upload:\n  prefix: from-yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".s3up.toml"), []byte("[upload]\nprefix = \"from-toml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Upload.Prefix != "from-yaml" {
		t.Errorf("prefix = %q, want from-yaml (yml probed first)", cfg.Upload.Prefix)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".s3up.yml"), []byte("upload: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected parse error for malformed config")
	}
}

func TestLoad_StatErrorSurfaces(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	if err := os.Mkdir(locked, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(locked, ".s3up.yml"), []byte("upload:\n  prefix: p\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Without execute permission the config file cannot be statted.
	if err := os.Chmod(locked, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	if _, err := Load(locked); err == nil {
		t.Error("expected error when the config file cannot be statted")
	}
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv("S3UP_PREFIX", "env-prefix")
	t.Setenv("S3UP_ACL", "authenticated-read")
	t.Setenv("S3UP_IGNORE", "^.,tmp")
	t.Setenv("S3UP_WORKERS", "3")
	t.Setenv("S3UP_REGION", "ap-southeast-2")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Upload.Prefix != "env-prefix" {
		t.Errorf("prefix = %q, want env-prefix", cfg.Upload.Prefix)
	}
	if cfg.Upload.ACL != "authenticated-read" {
		t.Errorf("acl = %q, want authenticated-read", cfg.Upload.ACL)
	}
	if len(cfg.Upload.Ignore) != 2 || cfg.Upload.Ignore[1] != "tmp" {
		t.Errorf("ignore = %v, want [^. tmp]", cfg.Upload.Ignore)
	}
	if cfg.Upload.Workers != 3 {
		t.Errorf("workers = %d, want 3", cfg.Upload.Workers)
	}
	if cfg.Storage.Region != "ap-southeast-2" {
		t.Errorf("region = %q, want ap-southeast-2", cfg.Storage.Region)
	}
}

func TestCredentials(t *testing.T) {
	t.Setenv(EnvAccessKeyID, "AKIAEXAMPLE")
	t.Setenv(EnvSecretAccessKey, "secret")

	id, secret, err := Credentials()
	if err != nil {
		t.Fatalf("Credentials failed: %v", err)
	}
	if id != "AKIAEXAMPLE" || secret != "secret" {
		t.Errorf("Credentials() = %q, %q", id, secret)
	}
}

func TestCredentials_Missing(t *testing.T) {
	t.Setenv(EnvAccessKeyID, "")
	t.Setenv(EnvSecretAccessKey, "")

	_, _, err := Credentials()
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
	for _, want := range []string{EnvAccessKeyID, EnvSecretAccessKey} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not name %s", err, want)
		}
	}
}

func TestCredentials_OneMissing(t *testing.T) {
	t.Setenv(EnvAccessKeyID, "AKIAEXAMPLE")
	t.Setenv(EnvSecretAccessKey, "")

	_, _, err := Credentials()
	if err == nil {
		t.Fatal("expected error for missing secret")
	}
	if !strings.Contains(err.Error(), EnvSecretAccessKey) {
		t.Errorf("error %q does not name %s", err, EnvSecretAccessKey)
	}
}
