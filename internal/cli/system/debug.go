package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/logger"
	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/utils"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" name:"db-path" help:"Show the database and log file paths."`
	DumpActivity DebugDumpActivityCmd `cmd:"" help:"Dump an activity as JSON, including its chart geometry."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
		"log":  logger.Path(),
	})
}

type DebugDumpActivityCmd struct {
	ID string `arg:"" help:"ID or unique ID prefix of the activity to dump."`
}

type activityDump struct {
	Activity models.Activity `json:"activity"`
	Window   struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"window"`
	Visible     bool `json:"visible"`
	ColumnStart int  `json:"column_start,omitempty"`
	ColumnSpan  int  `json:"column_span,omitempty"`
}

func (cmd *DebugDumpActivityCmd) Run(ctx *cli.Context) error {
	a, err := ctx.FindActivity(cmd.ID, true)
	if err != nil {
		return err
	}

	dump := activityDump{Activity: a}
	if !a.IsDeleted() {
		if err := ctx.LoadScheduler(); err != nil {
			return err
		}
		if err := ctx.Scheduler.JumpToActivity(a.ID); err != nil {
			return err
		}
		w := ctx.Scheduler.Window()
		dump.Window.First = utils.DateKey(w.First())
		dump.Window.Last = utils.DateKey(w.Last())
		bar, visible, err := ctx.Scheduler.Geometry(a.ID)
		if err != nil {
			return err
		}
		dump.Visible = visible
		dump.ColumnStart = bar.ColumnStart
		dump.ColumnSpan = bar.ColumnSpan
	}
	return printJSON(dump)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(settings)
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
