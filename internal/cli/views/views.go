package views

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/constants"
	"github.com/julianstephens/fieldplan/internal/tui/components/gantt"
	"github.com/julianstephens/fieldplan/internal/tui/components/upcoming"
	"github.com/julianstephens/fieldplan/internal/utils"
)

type ChartCmd struct {
	Month string `short:"m" help:"Month to show (YYYY-MM). Defaults to the current month."`
	Plain bool   `help:"Draw bars with ASCII characters and no colour."`

	out io.Writer
}

func (c *ChartCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadScheduler(); err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	if c.Month != "" {
		month, err := utils.ParseMonth(c.Month)
		if err != nil {
			return err
		}
		ctx.Scheduler.JumpTo(month)
	}

	opts := gantt.Options{
		ColumnWidth: ctx.Settings().ColumnWidth,
		LabelWidth:  constants.RowLabelWidth,
		Today:       today,
		Plain:       c.Plain,
	}
	_, err = fmt.Fprintln(writer(c.out), gantt.Render(ctx.Scheduler.Layout(), opts))
	return err
}

type UpcomingCmd struct {
	Days int    `short:"n" help:"Number of days to look ahead. Defaults to the upcoming_days setting."`
	From string `help:"First day of the look-ahead (YYYY-MM-DD, 'today' or 'tomorrow')." default:"today"`

	out io.Writer
}

func (c *UpcomingCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadScheduler(); err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	from, err := cli.ParseDateArg(c.From, today)
	if err != nil {
		return err
	}

	days := c.Days
	if days == 0 {
		days = ctx.Settings().UpcomingDays
	}
	if days < 0 {
		return fmt.Errorf("--days must be positive")
	}

	_, err = fmt.Fprintln(writer(c.out), upcoming.Content(ctx.Scheduler.Upcoming(from, days), from, days))
	return err
}

func writer(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
