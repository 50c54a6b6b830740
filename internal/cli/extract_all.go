package cli

import (
	"context"
	"fmt"

	"github.com/ormstarter/ormstarter/internal/scaffold"
	"github.com/spf13/cobra"
)

var extractAllYes bool

var extractAllCmd = &cobra.Command{
	Use:   "extract-all [output-root]",
	Short: "Extract every template into one directory",
	Long: `Extract all templates into <output-root>/<template>-starter. A failed
template is reported and the others are still extracted.

The output root defaults to the output_dir setting (./extracted-templates).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtractAll,
}

func init() {
	extractAllCmd.Flags().BoolVarP(&extractAllYes, "yes", "y", false, "Skip the prompt and confirmation")
	rootCmd.AddCommand(extractAllCmd)
}

func runExtractAll(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, styleHeading("\n🚀 Extract All ORM Templates\n"))

	root := a.settings.OutputDir
	if len(args) > 0 {
		root = args[0]
	}

	if !extractAllYes {
		ui := a.ui()
		if len(args) == 0 {
			if root, err = ui.Input("Output directory for all templates", root); err != nil {
				return err
			}
		}
		ok, err := ui.Confirm(fmt.Sprintf("This will extract all %d ORM templates. Continue?", a.registry.Len()), true)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, styleWarn("Extraction cancelled"))
			return nil
		}
	}

	results, err := extractAll(cmd.Context(), a, root)
	if err != nil {
		return err
	}
	if ok, total := scaffold.Summarize(results); ok < total && a.settings.Strict {
		return fmt.Errorf("%d of %d templates failed to extract", total-ok, total)
	}
	return nil
}

func extractAll(ctx context.Context, a *app, root string) ([]*scaffold.Result, error) {
	out := a.out
	results := a.extractor().ExtractAll(ctx, root)
	if err := ctx.Err(); err != nil {
		return results, err
	}

	fmt.Fprintln(out, styleOK("✅ Extraction Results:\n"))
	for _, r := range results {
		if r.OK() {
			fmt.Fprintln(out, styleSuccess(fmt.Sprintf("✓ %s → %s", r.TemplateKey, r.Destination)))
		} else {
			fmt.Fprintln(out, styleError(fmt.Sprintf("✗ %s → %v", r.TemplateKey, r.Err)))
		}
		printWarnings(a, r.Warnings)
	}

	ok, total := scaffold.Summarize(results)
	fmt.Fprintln(out, styleInfo(printer.Sprintf("\n📊 Successfully extracted %d/%d templates", ok, total)))

	if ok > 0 {
		fmt.Fprintln(out, styleWarn("\n📋 Next steps for each template:"))
		for i, step := range []string{
			"cd <template-directory>",
			"npm install",
			"cp .env.example .env",
			"Configure database in .env",
			"Run migrations/setup as needed",
			"npm run dev",
		} {
			fmt.Fprintf(out, "%d. %s\n", i+1, step)
		}
	}
	return results, nil
}
