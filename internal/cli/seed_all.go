package cli

import (
	"context"
	"fmt"

	"github.com/ormstarter/ormstarter/internal/batch"
	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/spf13/cobra"
)

var seedAllVerbose bool

var seedAllCmd = &cobra.Command{
	Use:   "seed-all",
	Short: "Run every template's seed script",
	Long: `Run the seed command of each template, one after another, from the
templates root. Databases must exist and migrations must have run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		report, err := seedAll(cmd.Context(), a, seedAllVerbose)
		if err != nil {
			return err
		}
		return a.strictErr(report)
	},
}

func init() {
	seedAllCmd.Flags().BoolVarP(&seedAllVerbose, "verbose", "v", false, "Show seed command output")
	rootCmd.AddCommand(seedAllCmd)
}

func seedAll(ctx context.Context, a *app, verbose bool) (*batch.Report, error) {
	out := a.out
	fmt.Fprintln(out, styleHeading("\n🌱 Seeding All Databases\n"))
	fmt.Fprintln(out, styleWarn("Make sure your databases are set up and migrations are run!\n"))

	s := a.seeder(verbose)
	s.Hooks = batch.Hooks{
		Start: func(d *registry.Descriptor) {
			fmt.Fprintf(out, "Seeding %s...\n", d.Label)
		},
		Done: func(o batch.Outcome) {
			if o.OK() {
				fmt.Fprintln(out, styleSuccess(fmt.Sprintf("  ✓ %s seeded successfully", o.Key)))
			} else {
				fmt.Fprintln(out, styleError(fmt.Sprintf("  ✗ %s seeding failed", o.Key)))
			}
		},
	}

	report, err := s.SeedAll(ctx)
	if err != nil {
		return report, err
	}

	fmt.Fprintln(out, styleHeading("\n📊 Seeding Results:\n"))
	if ok := report.Succeeded(); len(ok) > 0 {
		fmt.Fprintln(out, styleOK("✅ Successfully seeded:"))
		for _, o := range ok {
			fmt.Fprintln(out, styleSuccess("  ✓ "+o.Key))
		}
	}
	if failed := report.Failed(); len(failed) > 0 {
		fmt.Fprintln(out, styleFailed("\n❌ Failed to seed:"))
		for _, o := range failed {
			fmt.Fprintln(out, styleError("  ✗ "+o.Key))
			if o.Message != "" {
				fmt.Fprintln(out, styleMuted("    "+o.Message))
			}
		}
		fmt.Fprintln(out, styleWarn("\n💡 Common issues:"))
		fmt.Fprintln(out, "  • Database not created or accessible")
		fmt.Fprintln(out, "  • Migrations not run")
		fmt.Fprintln(out, "  • Incorrect database credentials in .env")
	}

	fmt.Fprintln(out, styleInfo(printer.Sprintf("\n📈 Success Rate: %d/%d", len(report.Succeeded()), report.Total())))
	return report, nil
}
