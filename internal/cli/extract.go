package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/ormstarter/ormstarter/internal/scaffold"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [template] [destination]",
	Short: "Extract one template into a standalone project",
	Long: `Copy a template's sources into a new directory and generate its
package.json, .env.example and README.md.

When the template is omitted you are asked to pick one. The destination
defaults to ./<template>-starter.`,
	Args:      cobra.MaximumNArgs(2),
	ValidArgs: registry.SupportedKeys,
	RunE:      runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	var key, dest string
	if len(args) > 0 {
		key = args[0]
	}
	if len(args) > 1 {
		dest = args[1]
	}

	if key == "" {
		if key, err = selectTemplate(a, "Which template would you like to extract?"); err != nil {
			return err
		}
	}
	return extractOne(cmd.Context(), a, key, dest)
}

// selectTemplate asks the user to pick a template and returns its key.
func selectTemplate(a *app, label string) (string, error) {
	templates := a.registry.All()
	items := make([]string, len(templates))
	for i, d := range templates {
		items[i] = fmt.Sprintf("%s - %s", d.Key, d.Description)
	}
	idx, err := a.ui().Select(label, items)
	if err != nil {
		return "", err
	}
	return templates[idx].Key, nil
}

func extractOne(ctx context.Context, a *app, key, dest string) error {
	out := a.out
	fmt.Fprintf(out, "Extracting %s template...\n", key)

	r := a.extractor().Extract(ctx, key, dest)
	printWarnings(a, r.Warnings)
	if r.Err != nil {
		if errors.Is(r.Err, registry.ErrTemplateNotFound) {
			fmt.Fprintf(out, "%s %s\n", styleWarn("Available templates:"), strings.Join(a.registry.Keys(), ", "))
		}
		return fmt.Errorf("extracting %s: %w", key, r.Err)
	}

	d, err := a.registry.Lookup(key)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, styleSuccess(fmt.Sprintf("\n✅ Template extracted to: %s", r.Destination)))
	fmt.Fprintln(out, styleWarn("\nNext steps:"))
	for i, step := range scaffold.NextSteps(d, r.Destination) {
		fmt.Fprintf(out, "%d. %s\n", i+1, step)
	}
	return nil
}

func printWarnings(a *app, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(a.errOut, "%s %s\n", styleWarn("warning:"), w)
	}
}
