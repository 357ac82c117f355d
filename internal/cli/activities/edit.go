package activities

import (
	"fmt"
	"strings"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/models"
)

type EditCmd struct {
	ID       string  `arg:"" help:"Activity ID or unique ID prefix."`
	Crop     *string `help:"New crop name."`
	Kind     *string `short:"k" help:"New activity kind."`
	Start    *string `short:"s" help:"New start date (YYYY-MM-DD, 'today' or 'tomorrow')."`
	Duration *int    `short:"d" help:"New duration in days."`
	Field    *string `short:"f" help:"New field name."`
	Season   *string `help:"New season label."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadScheduler(); err != nil {
		return err
	}
	found, err := ctx.FindActivity(c.ID, false)
	if err != nil {
		return err
	}

	a, err := c.apply(ctx, found)
	if err != nil {
		return err
	}
	if a == found {
		fmt.Println("No changes specified.")
		return nil
	}

	if err := ctx.Scheduler.Update(a); err != nil {
		return fmt.Errorf("invalid activity: %w", err)
	}
	if err := ctx.Store.UpdateActivity(a); err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}

	fmt.Printf("Updated activity: %s %s, %s to %s (ID: %s)\n", a.SubjectName, a.Kind, a.StartDate, a.EndDate, a.ID)
	return nil
}

func (c *EditCmd) apply(ctx *cli.Context, a models.Activity) (models.Activity, error) {
	if c.Crop != nil {
		a.SubjectName = strings.TrimSpace(*c.Crop)
	}
	if c.Kind != nil {
		a.Kind = models.ActivityKind(strings.TrimSpace(*c.Kind))
	}
	if c.Field != nil {
		a.FieldName = strings.TrimSpace(*c.Field)
	}
	if c.Season != nil {
		a.Season = strings.TrimSpace(*c.Season)
	}
	if c.Duration != nil {
		if err := a.SetDuration(*c.Duration); err != nil {
			return a, err
		}
	}
	if c.Start != nil {
		today, err := ctx.Today()
		if err != nil {
			return a, err
		}
		start, err := cli.ParseDateArg(*c.Start, today)
		if err != nil {
			return a, err
		}
		a.Reschedule(start)
	}
	return a, nil
}
