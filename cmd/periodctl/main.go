package main

import (
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/apodata/apodata/backend-go/internal/display"
	"github.com/apodata/apodata/backend-go/internal/period"
	"github.com/apodata/apodata/backend-go/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load(".env")

	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("periodctl failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "periodctl",
		Usage: "Resolve and format dashboard periods from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "tz",
				Usage:   "Timezone today is taken in",
				Value:   "Europe/Paris",
				EnvVars: []string{"APP_TIMEZONE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "resolve",
				Usage: "Resolve a preset into a date range",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "preset", Usage: "Preset tag, e.g. this_month", Required: true},
					&cli.StringFlag{Name: "today", Usage: "Reference date (YYYY-MM-DD), defaults to the current date"},
					&cli.StringFlag{Name: "start", Usage: "Start date for custom"},
					&cli.StringFlag{Name: "end", Usage: "End date for custom"},
				},
				Action: resolveCmd,
			},
			{
				Name:  "compare",
				Usage: "Derive the comparison range of a primary range",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Usage: "Comparison tag, e.g. previous_period", Value: string(period.DefaultComparison)},
					&cli.StringFlag{Name: "start", Usage: "Primary start date (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "end", Usage: "Primary end date (YYYY-MM-DD)", Required: true},
				},
				Action: compareCmd,
			},
			{
				Name:  "format",
				Usage: "Format a YYYY-MM-DD date for display",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Required: true},
				},
				Action: formatCmd,
			},
			{
				Name:   "options",
				Usage:  "List presets and comparison types",
				Action: optionsCmd,
			},
		},
	}
}

func today(c *cli.Context) (civil.Date, error) {
	if raw := c.String("today"); raw != "" {
		return period.ParseDate(raw)
	}
	loc, err := time.LoadLocation(c.String("tz"))
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid timezone %q: %w", c.String("tz"), err)
	}
	return period.Today(time.Now(), loc), nil
}

func resolveCmd(c *cli.Context) error {
	preset, err := period.ParsePreset(c.String("preset"))
	if err != nil {
		return err
	}
	ref, err := today(c)
	if err != nil {
		return err
	}

	resolved := period.ResolvePrimary(preset, ref, c.String("start"), c.String("end"))
	fmt.Fprintf(c.App.Writer, "range:  %s\nstart:  %s\nend:    %s\nlabel:  %s\n",
		resolved.Preset, resolved.StartDate, resolved.EndDate, resolved.Label)
	return nil
}

func compareCmd(c *cli.Context) error {
	typ, err := period.ParseComparison(c.String("type"))
	if err != nil {
		return err
	}
	primary, err := period.ParseRange(c.String("start"), c.String("end"))
	if err != nil {
		return err
	}

	resolved, err := period.ResolveComparison(typ, primary)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "primary:    %s (%d days)\ncomparison: %s (%d days)\nlabel:      %s\n",
		display.RangeLabel(c.String("start"), c.String("end")), primary.Days()+1,
		display.RangeLabel(resolved.StartDate, resolved.EndDate), resolved.Range.Days()+1,
		resolved.Label)
	return nil
}

func formatCmd(c *cli.Context) error {
	raw := c.String("date")
	fmt.Fprintf(c.App.Writer, "short:   %s\ntooltip: %s\n", display.FormatDateString(raw), display.FormatTooltip(raw))
	return nil
}

func optionsCmd(c *cli.Context) error {
	ranges, comparisons := period.Options()
	fmt.Fprintln(c.App.Writer, "ranges:")
	for _, o := range ranges {
		fmt.Fprintf(c.App.Writer, "  %-20s %s\n", o.Value, o.Label)
	}
	fmt.Fprintln(c.App.Writer, "comparisons:")
	for _, o := range comparisons {
		fmt.Fprintf(c.App.Writer, "  %-20s %s\n", o.Value, o.Label)
	}
	return nil
}
