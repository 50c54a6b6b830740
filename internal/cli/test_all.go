package cli

import (
	"context"
	"fmt"

	"github.com/ormstarter/ormstarter/internal/batch"
	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/spf13/cobra"
)

var testAllVerbose bool

var testAllCmd = &cobra.Command{
	Use:   "test-all",
	Short: "Start each template and check its API",
	Long: `Start every template in turn with PORT set to its own port, wait for
the server to report it is listening, then request GET /users once. The
server is stopped before the next template starts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		report, err := testAll(cmd.Context(), a, testAllVerbose)
		if err != nil {
			return err
		}
		return a.strictErr(report)
	},
}

func init() {
	testAllCmd.Flags().BoolVarP(&testAllVerbose, "verbose", "v", false, "Show server output")
	rootCmd.AddCommand(testAllCmd)
}

func testAll(ctx context.Context, a *app, verbose bool) (*batch.Report, error) {
	out := a.out
	fmt.Fprintln(out, styleHeading("\n🧪 Testing All ORM Templates\n"))

	t := a.tester(verbose)
	t.Hooks = batch.Hooks{
		Start: func(d *registry.Descriptor) {
			fmt.Fprintf(out, "Testing %s on port %d...\n", d.Key, d.Port)
		},
		Done: func(o batch.Outcome) {
			switch o.Status {
			case batch.StatusSuccess:
				fmt.Fprintln(out, styleSuccess(fmt.Sprintf("  ✓ %s - API working", o.Key)))
			case batch.StatusTimeout:
				fmt.Fprintln(out, styleError(fmt.Sprintf("  ✗ %s - timeout", o.Key)))
			case batch.StatusAPIError:
				fmt.Fprintln(out, styleError(fmt.Sprintf("  ✗ %s - API failed: %s", o.Key, o.Message)))
			default:
				fmt.Fprintln(out, styleError(fmt.Sprintf("  ✗ %s - %s", o.Key, o.Message)))
			}
		},
	}

	report, err := t.TestAll(ctx)
	if err != nil {
		return report, err
	}

	fmt.Fprintln(out, styleHeading("\n📊 Test Results Summary:\n"))
	if ok := report.Succeeded(); len(ok) > 0 {
		fmt.Fprintln(out, styleOK("✅ Working ORMs:"))
		for _, o := range ok {
			fmt.Fprintln(out, styleSuccess("  ✓ "+o.Key))
		}
	}
	failed := report.Failed()
	if len(failed) > 0 {
		fmt.Fprintln(out, styleFailed("\n❌ Failed ORMs:"))
		for _, o := range failed {
			fmt.Fprintln(out, styleError(fmt.Sprintf("  ✗ %s - %s", o.Key, o.Status)))
			if o.Message != "" {
				fmt.Fprintln(out, styleMuted("    "+o.Message))
			}
		}
	}

	fmt.Fprintln(out, styleInfo(printer.Sprintf("\n📈 Success Rate: %d/%d (%d%%)", len(report.Succeeded()), report.Total(), report.Percent())))

	if len(failed) > 0 {
		fmt.Fprintln(out, styleWarn("\n💡 Tips for failed ORMs:"))
		fmt.Fprintln(out, "  • Check database connection settings in .env")
		fmt.Fprintln(out, "  • Run migrations: npm run <orm>:migrate")
		fmt.Fprintln(out, "  • Check if ports are available")
		fmt.Fprintln(out, "  • Install dependencies: npm install")
	}
	return report, nil
}
