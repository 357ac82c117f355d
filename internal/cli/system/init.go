package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/constants"
	"github.com/julianstephens/fieldplan/internal/storage"
	"github.com/julianstephens/fieldplan/internal/storage/postgres"
	"github.com/julianstephens/fieldplan/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing database before initialization."`
	Source string `help:"Database path, JSON file or PostgreSQL connection string to copy activities and settings from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}
	return nil
}

// reset removes a file-backed store so Init starts from an empty schema.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if postgres.IsConnString(ctx.Store.GetConfigPath()) {
		return fmt.Errorf("--force is not supported for PostgreSQL; drop the schema manually")
	}

	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	if c.Source != "" {
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context) error {
	source, err := openSource(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	fmt.Println("  Migrating settings...")
	settings, err := source.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Migrating activities...")
	acts, err := source.GetAllActivities()
	if err != nil {
		return fmt.Errorf("failed to get activities from source: %w", err)
	}
	if err := ctx.Store.SaveActivities(acts); err != nil {
		return fmt.Errorf("failed to save activities to destination: %w", err)
	}
	fmt.Printf("    Migrated %d activities\n", len(acts))
	return nil
}

// openSource picks a provider for --source. Unlike storage.Open it ignores
// the environment and keyring, which describe the destination.
func openSource(source string) (storage.Provider, error) {
	switch storage.DetectBackend(source) {
	case storage.BackendPostgres:
		if err := postgres.ValidateConnString(source); err != nil {
			return nil, fmt.Errorf("invalid source connection string: %w", err)
		}
		return postgres.New(source), nil
	case storage.BackendJSON:
		path, err := storage.ExpandPath(source)
		if err != nil {
			return nil, err
		}
		return storage.NewJSONStore(path), nil
	default:
		path, err := storage.ExpandPath(source)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	}
}
