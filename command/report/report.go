package report

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"fuel-dashboard/connectors/config"
	ccsv "fuel-dashboard/connectors/csv"
	"fuel-dashboard/domain/fuel"
)

// NewCommand returns the report subcommand: one pipeline pass over a local
// CSV file, rendered to stdout.
func NewCommand(load func() (*config.Config, error)) *cobra.Command {
	var (
		file    string
		date    string
		asJSON  bool
		weekday string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute the dashboard for a CSV file and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			switch weekday {
			case "":
			case "on":
				cfg.Pipeline.ApplyWeekdayFilter = true
			case "off":
				cfg.Pipeline.ApplyWeekdayFilter = false
			default:
				return fmt.Errorf("report: --weekdays must be on or off, got %q", weekday)
			}
			var selected *time.Time
			if date != "" {
				d, err := fuel.ParseDate(date)
				if err != nil {
					return err
				}
				selected = &d
			}
			return Run(cmd.OutOrStdout(), file, cfg, selected, asJSON)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to analyse")
	cmd.Flags().StringVar(&date, "date", "", "report date for sector breakdowns (YYYY-MM-DD, default latest)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the dashboard as JSON")
	cmd.Flags().StringVar(&weekday, "weekdays", "", "override pipeline.apply_weekday_filter (on|off)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// Run reads path, runs the pipeline and writes the result to w.
func Run(w io.Writer, path string, cfg *config.Config, date *time.Time, asJSON bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	raw, err := ccsv.ReadTable(f)
	if err != nil {
		slog.Error("report.read.error", "file", path, "error", err)
		return fmt.Errorf("error processing %s: %w", path, err)
	}
	d := fuel.Run(raw, cfg.Pipeline, date)
	slog.Info("report.done", "file", path, "rows", len(raw), "working", d.Rows)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	return Render(w, d)
}

// Render writes a plain text rendition of the dashboard.
func Render(w io.Writer, d fuel.Dashboard) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	section(tw, "Metrics")
	for _, t := range d.Tiles {
		fmt.Fprintf(tw, "%s\t%s\n", t.Label, t.Value)
	}

	section(tw, d.CapacityBySector.Title)
	for _, b := range d.CapacityBySector.Bars {
		fmt.Fprintf(tw, "%s\t%s\n", b.Category, b.Text)
	}

	for _, ts := range d.Trends {
		section(tw, ts.Title)
		for _, p := range ts.Points {
			fmt.Fprintf(tw, "%s\t%s\n", p.Date.Format(fuel.DateLayout), fuel.FormatNumber(p.Value))
		}
	}

	if !d.Dates.Empty {
		section(tw, "Dates")
		fmt.Fprintf(tw, "range\t%s .. %s (%d dates)\n", d.Dates.Min.Format(fuel.DateLayout), d.Dates.Max.Format(fuel.DateLayout), len(d.Dates.Dates))
	}

	for _, pc := range d.Sectors {
		section(tw, pc.Title)
		fmt.Fprintf(tw, "Post\tTank Capacity\tAvailable Storage Space\tDays of Supply\n")
		for i, post := range pc.Posts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", post, cell(pc.TankCapacity[i]), cell(pc.AvailableSpace[i]), cell(pc.DaysOfSupply[i]))
		}
	}
	if len(d.NoData) > 0 {
		section(tw, "No data on selected date")
		fmt.Fprintln(tw, strings.Join(d.NoData, ", "))
	}
	for _, n := range d.Notices {
		fmt.Fprintf(tw, "\nnotice: %s\n", n)
	}
	return tw.Flush()
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n== %s ==\n", title)
}

func cell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fuel.FormatNumber(*v)
}
