package activities

import (
	"fmt"
	"strings"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/utils"
)

type AddCmd struct {
	Crop     string `arg:"" help:"Crop the activity belongs to (one chart row per crop)."`
	Kind     string `short:"k" help:"Activity kind, e.g. Nursery, Transplanting, Harvest. Defaults to the default_kind setting."`
	Start    string `short:"s" help:"Start date (YYYY-MM-DD, 'today' or 'tomorrow')." required:""`
	Duration int    `short:"d" help:"Duration in days, counting the start day." required:""`
	Field    string `short:"f" help:"Field the crop is planted in."`
	Season   string `help:"Season label."`
}

func (c *AddCmd) Validate() error {
	if strings.TrimSpace(c.Crop) == "" {
		return models.ErrMissingSubject
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be greater than zero")
	}
	return nil
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadScheduler(); err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	start, err := cli.ParseDateArg(c.Start, today)
	if err != nil {
		return err
	}

	kind := c.Kind
	if strings.TrimSpace(kind) == "" {
		kind = ctx.Settings().DefaultKind
	}

	a, err := models.NewActivity(c.Crop, models.ActivityKind(kind), utils.DateKey(start), c.Duration)
	if err != nil {
		return fmt.Errorf("invalid activity: %w", err)
	}
	a.FieldName = strings.TrimSpace(c.Field)
	a.Season = strings.TrimSpace(c.Season)

	if err := ctx.Scheduler.Add(a); err != nil {
		return err
	}
	if err := ctx.Store.AddActivity(a); err != nil {
		return fmt.Errorf("failed to save activity: %w", err)
	}

	fmt.Printf("Added activity: %s %s, %s to %s (ID: %s)\n", a.SubjectName, a.Kind, a.StartDate, a.EndDate, a.ID)
	return nil
}
