package settings

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/models"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	ColumnWidth  *int    `help:"Terminal cells per day in the chart."`
	UpcomingDays *int    `help:"Days ahead shown by 'upcoming'."`
	Timezone     *string `help:"IANA timezone used for today, or Local."`
	DefaultKind  *string `help:"Activity kind preselected when adding."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	changes := map[string]string{}
	if c.ColumnWidth != nil {
		changes[models.SettingColumnWidth] = strconv.Itoa(*c.ColumnWidth)
	}
	if c.UpcomingDays != nil {
		changes[models.SettingUpcomingDays] = strconv.Itoa(*c.UpcomingDays)
	}
	if c.Timezone != nil {
		changes[models.SettingTimezone] = *c.Timezone
	}
	if c.DefaultKind != nil {
		changes[models.SettingDefaultKind] = *c.DefaultKind
	}

	if len(changes) == 0 {
		if c.List {
			printSettings(settings)
		} else {
			fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		}
		return nil
	}

	for _, key := range models.SettingKeys {
		value, ok := changes[key]
		if !ok {
			continue
		}
		if err := models.ApplySetting(&settings, key, value); err != nil {
			return err
		}
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	if c.List {
		printSettings(settings)
	}
	return nil
}

func printSettings(s models.Settings) {
	fmt.Println("Current Settings:")
	fmt.Printf("  Column Width:   %d cells per day\n", s.ColumnWidth)
	fmt.Printf("  Upcoming Days:  %d\n", s.UpcomingDays)
	fmt.Printf("  Timezone:       %s\n", s.Timezone)
	fmt.Printf("  Default Kind:   %s\n", s.DefaultKind)
}
