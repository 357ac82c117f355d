package activities

import (
	"fmt"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/utils"
)

type ListCmd struct {
	All     bool   `short:"a" help:"Include deleted activities."`
	Crop    string `help:"Only show activities for this crop."`
	Month   string `short:"m" help:"Only show activities touching this month (YYYY-MM)."`
	ShowIDs bool   `help:"Show full activity IDs." name:"show-ids"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	var (
		acts []models.Activity
		err  error
	)
	if c.All {
		acts, err = ctx.Store.GetAllActivitiesIncludingDeleted()
	} else {
		acts, err = ctx.Store.GetAllActivities()
	}
	if err != nil {
		return fmt.Errorf("failed to get activities: %w", err)
	}

	acts, err = c.filter(acts)
	if err != nil {
		return err
	}
	if len(acts) == 0 {
		fmt.Println("No activities found")
		return nil
	}

	fmt.Println("Activities:")
	for _, a := range acts {
		id := cli.ShortID(a.ID)
		if c.ShowIDs {
			id = string(a.ID)
		}
		status := ""
		if a.IsDeleted() {
			status = " [deleted]"
		}
		fmt.Printf("  %s  %-14s %-16s %s to %s (%dd)%s\n",
			id, a.SubjectName, a.Kind, a.StartDate, a.EndDate, a.DurationDays, status)
		if a.FieldName != "" || a.Season != "" {
			fmt.Printf("      Field: %s  Season: %s\n", orDash(a.FieldName), orDash(a.Season))
		}
	}
	return nil
}

func (c *ListCmd) filter(acts []models.Activity) ([]models.Activity, error) {
	var out []models.Activity
	var from, to string
	if c.Month != "" {
		month, err := utils.ParseMonth(c.Month)
		if err != nil {
			return nil, err
		}
		from = utils.DateKey(utils.FirstOfMonth(month))
		to = utils.DateKey(utils.LastOfMonth(month))
	}
	for _, a := range acts {
		if c.Crop != "" && a.SubjectName != c.Crop {
			continue
		}
		// Date keys sort lexically in calendar order.
		if c.Month != "" && (a.EndDate < from || a.StartDate > to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
