package activities

import (
	"fmt"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/constants"
)

type DeleteCmd struct {
	ID string `arg:"" help:"Activity ID or unique ID prefix."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	a, err := ctx.FindActivity(c.ID, false)
	if err != nil {
		return fmt.Errorf("failed to find activity %s: %w", c.ID, err)
	}

	if err := ctx.Store.DeleteActivity(a.ID); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	fmt.Printf("Deleted activity: %s %s (ID: %s)\n", a.SubjectName, a.Kind, a.ID)
	fmt.Printf("Use '%s activity restore %s' to undo.\n", constants.AppName, cli.ShortID(a.ID))
	return nil
}

type RestoreCmd struct {
	ID string `arg:"" help:"ID or unique ID prefix of a deleted activity."`
}

func (c *RestoreCmd) Run(ctx *cli.Context) error {
	a, err := ctx.FindActivity(c.ID, true)
	if err != nil {
		return fmt.Errorf("failed to find activity %s: %w", c.ID, err)
	}
	if !a.IsDeleted() {
		return fmt.Errorf("activity %s is not deleted", a.ID)
	}

	if err := ctx.Store.RestoreActivity(a.ID); err != nil {
		return fmt.Errorf("failed to restore activity: %w", err)
	}

	fmt.Printf("Restored activity: %s %s (ID: %s)\n", a.SubjectName, a.Kind, a.ID)
	return nil
}
