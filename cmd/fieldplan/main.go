package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/cli/activities"
	"github.com/julianstephens/fieldplan/internal/cli/backups"
	"github.com/julianstephens/fieldplan/internal/cli/settings"
	"github.com/julianstephens/fieldplan/internal/cli/system"
	"github.com/julianstephens/fieldplan/internal/cli/transfer"
	"github.com/julianstephens/fieldplan/internal/cli/views"
	"github.com/julianstephens/fieldplan/internal/constants"
	"github.com/julianstephens/fieldplan/internal/errors"
	"github.com/julianstephens/fieldplan/internal/logger"
	"github.com/julianstephens/fieldplan/internal/scheduler"
	"github.com/julianstephens/fieldplan/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database path, JSON file or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring or FIELDPLAN_DB_CONNECTION." default:"${default_config}" env:"FIELDPLAN_CONFIG"`
	Debug    bool   `help:"Log debug output to stderr." env:"FIELDPLAN_DEBUG"`
	LogLevel string `help:"Minimum level written to the log file (debug, info, warn, error)." default:"warn" env:"FIELDPLAN_LOG_LEVEL"`

	Init     system.InitCmd       `cmd:"" help:"Initialize fieldplan storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive chart." default:"1"`
	Chart    views.ChartCmd       `cmd:"" help:"Print the Gantt chart for a month."`
	Upcoming views.UpcomingCmd    `cmd:"" help:"List activities in the next few days."`
	Validate system.ValidateCmd   `cmd:"" help:"Check activities for conflicts."`
	Activity struct {
		Add     activities.AddCmd     `cmd:"" help:"Add an activity."`
		Edit    activities.EditCmd    `cmd:"" help:"Edit an activity."`
		Move    activities.MoveCmd    `cmd:"" help:"Reschedule an activity, keeping its duration."`
		Delete  activities.DeleteCmd  `cmd:"" help:"Delete an activity."`
		Restore activities.RestoreCmd `cmd:"" help:"Restore a deleted activity."`
		List    activities.ListCmd    `cmd:"" help:"List activities."`
	} `cmd:"" help:"Manage activities."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Show or change application settings."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage PostgreSQL credentials in the OS keyring."`
	Export   transfer.ExportCmd   `cmd:"" help:"Export activities as CSV or YAML."`
	Import   transfer.ImportCmd   `cmd:"" help:"Import activities from YAML."`
	DebugCmd system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

// Commands that manage their own storage lifecycle, or need none.
var noPreload = []string{"init", "doctor", "keyring"}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Farm activity planner with a drag-to-reschedule Gantt chart"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, Level: CLI.LogLevel, Dir: logDir(CLI.Config)}); err != nil {
		errors.Fatal(err)
	}
	defer logger.Close()

	store, err := storage.Open(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	if preload(ctx.Command()) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		Store:     store,
		Scheduler: scheduler.New(time.Now(), constants.DefaultColumnWidth),
	}
	logger.Debug("Running command", "command", ctx.Command(), "config", store.GetConfigPath())

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

func preload(command string) bool {
	for _, name := range noPreload {
		if command == name || strings.HasPrefix(command, name+" ") {
			return false
		}
	}
	return true
}

// logDir keeps logs next to a file store, or in the default config
// directory for PostgreSQL.
func logDir(config string) string {
	path := config
	if storage.DetectBackend(config) == storage.BackendPostgres {
		path = constants.DefaultConfigPath
	}
	expanded, err := storage.ExpandPath(path)
	if err != nil {
		return "."
	}
	return filepath.Dir(expanded)
}
