package system

import (
	"fmt"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Recompute stale end dates."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	acts, err := ctx.Store.GetAllActivities()
	if err != nil {
		return fmt.Errorf("failed to load activities: %w", err)
	}

	fmt.Println("Validating activities...")
	result := validation.Validate(acts)
	fmt.Println()
	fmt.Println(result.FormatReport())

	if !cmd.Fix || !result.HasConflicts() {
		return nil
	}

	fixed, actions := validation.Fix(acts, result)
	if len(actions) == 0 {
		fmt.Println("\nNo automatic fixes available.")
		return nil
	}

	fmt.Println("\nApplied fixes:")
	for i, a := range fixed {
		if err := ctx.Store.UpdateActivity(a); err != nil {
			return fmt.Errorf("failed to save fixed activity %s: %w", a.ID, err)
		}
		fmt.Printf("- %s\n", actions[i].Action)
	}
	return nil
}
