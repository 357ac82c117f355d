package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/fieldplan/internal/constants"
	"github.com/julianstephens/fieldplan/internal/keyring"
	"github.com/julianstephens/fieldplan/internal/logger"
	"github.com/julianstephens/fieldplan/internal/storage/postgres"
	"github.com/julianstephens/fieldplan/internal/storage/sqlite"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
	_ Provider = (*JSONStore)(nil)
	_ Migrator = (*sqlite.Store)(nil)
	_ Migrator = (*postgres.Store)(nil)
)

// Backend names the kind of store a config value selects.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendJSON     Backend = "json"
)

// DetectBackend picks a backend from a --config value.
func DetectBackend(config string) Backend {
	switch {
	case postgres.IsConnString(config):
		return BackendPostgres
	case strings.EqualFold(filepath.Ext(config), ".json"):
		return BackendJSON
	default:
		return BackendSQLite
	}
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Open returns the provider selected by config without connecting to it.
// A PostgreSQL connection string given in FIELDPLAN_DB_CONNECTION takes
// precedence over config; otherwise a password-free URL in config is
// upgraded to the keyring's connection string when one is stored.
func Open(config string) (Provider, error) {
	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		logger.Debug("Using PostgreSQL connection from environment", "var", constants.EnvDBConnection)
		return postgres.New(env), nil
	}

	switch DetectBackend(config) {
	case BackendPostgres:
		if err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store credentials with '%s keyring set' or %s instead",
					err, constants.AppName, constants.EnvDBConnection)
			}
			return nil, err
		}
		connStr, err := keyring.GetConnectionString()
		switch {
		case err == nil:
			logger.Debug("Using PostgreSQL connection from keyring")
			return postgres.New(connStr), nil
		case errors.Is(err, keyring.ErrNotFound):
		default:
			logger.Warn("Keyring lookup failed, falling back to --config", "error", err)
		}
		return postgres.New(config), nil

	case BackendJSON:
		path, err := ExpandPath(config)
		if err != nil {
			return nil, err
		}
		return NewJSONStore(path), nil

	default:
		path, err := ExpandPath(config)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	}
}
