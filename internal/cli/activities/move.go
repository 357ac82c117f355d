package activities

import (
	"fmt"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/utils"
)

// MoveCmd reschedules an activity, keeping its duration.
type MoveCmd struct {
	ID   string `arg:"" help:"Activity ID or unique ID prefix."`
	Days int    `help:"Shift by this many days (negative moves earlier)." xor:"target"`
	To   string `help:"New start date (YYYY-MM-DD, 'today' or 'tomorrow')." xor:"target"`
}

func (c *MoveCmd) Validate() error {
	if c.Days == 0 && c.To == "" {
		return fmt.Errorf("one of --days or --to is required")
	}
	return nil
}

func (c *MoveCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadScheduler(); err != nil {
		return err
	}
	found, err := ctx.FindActivity(c.ID, false)
	if err != nil {
		return err
	}

	days := c.Days
	if c.To != "" {
		today, err := ctx.Today()
		if err != nil {
			return err
		}
		to, err := cli.ParseDateArg(c.To, today)
		if err != nil {
			return err
		}
		start, err := found.Start()
		if err != nil {
			return err
		}
		days = utils.DaysBetween(start, to)
	}
	if days == 0 {
		fmt.Println("Activity already starts on that date.")
		return nil
	}

	a, err := ctx.Scheduler.Shift(found.ID, days)
	if err != nil {
		return err
	}
	if err := ctx.Store.UpdateActivity(a); err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}

	fmt.Printf("Moved %s %s: %s to %s (was %s to %s)\n",
		a.SubjectName, a.Kind, a.StartDate, a.EndDate, found.StartDate, found.EndDate)
	return nil
}
