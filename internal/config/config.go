// Package config resolves the CLI's environment-driven defaults: home
// directory, default signing identity, and default log id.
package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvHome overrides the directory holding the default block store
	// and identity databases.
	EnvHome = "IPFSLOG_HOME"
	// EnvIdentity overrides the default signer identity used when a
	// command does not pass --identity explicitly.
	EnvIdentity = "IPFSLOG_IDENTITY"
	// EnvLogID overrides the default log ID used when a command does
	// not pass --log explicitly.
	EnvLogID = "IPFSLOG_LOG"

	defaultHomeDir = ".ipfslog"
	blockstoreFile = "blocks.db"
	identityFile   = "identities.db"
)

// Config holds the resolved paths and defaults a CLI invocation needs.
type Config struct {
	HomeDir      string
	DefaultIdent string
	DefaultLogID string
}

// Load resolves Config from the environment, creating HomeDir if it
// uses the default location and does not yet exist.
func Load() (*Config, error) {
	home := EnvOr(EnvHome, "")
	usingDefault := home == ""
	if usingDefault {
		dir, err := os.UserHomeDir()
		if err != nil {
			dir = "."
		}
		home = filepath.Join(dir, defaultHomeDir)
	}
	if usingDefault {
		if err := os.MkdirAll(home, 0o755); err != nil {
			return nil, err
		}
	}

	return &Config{
		HomeDir:      home,
		DefaultIdent: EnvOr(EnvIdentity, ""),
		DefaultLogID: EnvOr(EnvLogID, ""),
	}, nil
}

// BlockstorePath returns the path to this home's block store database.
func (c *Config) BlockstorePath() string {
	return filepath.Join(c.HomeDir, blockstoreFile)
}

// IdentityStorePath returns the path to this home's identity database.
func (c *Config) IdentityStorePath() string {
	return filepath.Join(c.HomeDir, identityFile)
}

// EnvOr returns the environment variable key's value, or def if unset
// or empty.
func EnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
