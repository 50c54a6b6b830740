package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Long:  `List every ORM template with its destination name and port.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a template for display.
type listEntry struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Main        string `json:"main"`
	Port        int    `json:"port"`
	Typed       bool   `json:"typed"`
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	var entries []listEntry
	for _, d := range a.registry.All() {
		entries = append(entries, listEntry{
			Key:         d.Key,
			Name:        d.Name,
			Label:       d.Label,
			Description: d.Description,
			Main:        d.Main,
			Port:        d.Port,
			Typed:       d.Typed,
		})
	}

	if listJSON {
		return printListJSON(a.out, entries)
	}
	return printListTable(a.out, entries)
}

func printListTable(out io.Writer, entries []listEntry) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tLABEL\tPORT\tTYPED")
	for _, e := range entries {
		typed := "-"
		if e.Typed {
			typed = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", e.Key, e.Name, e.Label, e.Port, typed)
	}
	return w.Flush()
}

func printListJSON(out io.Writer, entries []listEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
