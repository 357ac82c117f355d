package transfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/export"
	"github.com/julianstephens/fieldplan/internal/logger"
)

type ExportCmd struct {
	Format string `short:"f" enum:"csv,yaml" default:"csv" help:"Output format (csv or yaml)."`
	Output string `short:"o" type:"path" help:"File to write. Defaults to stdout."`

	out io.Writer
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	acts, err := ctx.Store.GetAllActivities()
	if err != nil {
		return fmt.Errorf("failed to load activities: %w", err)
	}

	w := c.out
	if w == nil {
		w = os.Stdout
	}
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}

	switch c.Format {
	case "yaml":
		err = export.WriteYAML(w, acts)
	default:
		err = export.WriteCSV(w, acts)
	}
	if err != nil {
		return err
	}

	logger.Info("Exported activities", "count", len(acts), "format", c.Format, "output", c.Output)
	if c.Output != "" {
		fmt.Printf("Exported %d activities to %s\n", len(acts), c.Output)
	}
	return nil
}

type ImportCmd struct {
	File    string `arg:"" type:"existingfile" help:"YAML plan or CSV table to import (CSV is chosen by the .csv extension)."`
	Replace bool   `help:"Replace the current plan instead of appending to it."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.File, err)
	}
	defer f.Close()

	read := export.ReadYAML
	if strings.EqualFold(filepath.Ext(c.File), ".csv") {
		read = export.ReadCSV
	}
	imported, err := read(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	if c.Replace {
		// Load rejects duplicate ids before anything is written.
		if err := ctx.Scheduler.Load(imported); err != nil {
			return err
		}
		if err := ctx.Store.SaveActivities(imported); err != nil {
			return fmt.Errorf("failed to save activities: %w", err)
		}
		fmt.Printf("Replaced plan with %d activities from %s\n", len(imported), c.File)
		return nil
	}

	if err := ctx.LoadScheduler(); err != nil {
		return err
	}
	for _, a := range imported {
		if err := ctx.Scheduler.Add(a); err != nil {
			return fmt.Errorf("activity %s (%s): %w", cli.ShortID(a.ID), a.Label(), err)
		}
	}
	for _, a := range imported {
		if err := ctx.Store.AddActivity(a); err != nil {
			return fmt.Errorf("failed to add activity %s: %w", cli.ShortID(a.ID), err)
		}
	}
	fmt.Printf("Imported %d activities from %s\n", len(imported), c.File)
	return nil
}
