package cli

import (
	"encoding/json"
	"fmt"
	goruntime "runtime"

	"github.com/ormstarter/ormstarter/internal/branding"
	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print the version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build info as JSON")
	rootCmd.AddCommand(versionCmd)
}

// buildInfo is what version reports.
type buildInfo struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	Date      string   `json:"date"`
	GoVersion string   `json:"go"`
	Templates []string `json:"templates"`
}

func currentBuildInfo() buildInfo {
	return buildInfo{
		Version:   buildVersion,
		Commit:    buildCommit,
		Date:      buildDate,
		GoVersion: goruntime.Version(),
		Templates: registry.SupportedKeys,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		info := currentBuildInfo()

		switch {
		case versionShort:
			fmt.Fprintln(out, info.Version)
		case versionJSON:
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding build info: %w", err)
			}
			fmt.Fprintln(out, string(data))
		default:
			fmt.Fprintf(out, "%s %s (%s, built %s, %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date, info.GoVersion)
			fmt.Fprintln(out, printer.Sprintf("%d templates bundled", len(info.Templates)))
		}
		return nil
	},
}
