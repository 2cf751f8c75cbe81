package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"modelhost/internal/registry"
	"modelhost/pkg/types"
)

func newModelsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "models",
		Short:   "List models found in the models directory",
		Example: "  modelhost models --models-dir ./models --json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := registry.NewCatalog(a.cfg.ModelsDir, a.cfg.ModelExtensions)
			if err := cat.Rescan(); err != nil {
				return err
			}
			return printModels(cmd.OutOrStdout(), cat.List(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func printModels(w io.Writer, models []types.Model, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(types.ModelsResponse{Models: models})
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tSIZE\tPATH")
	for _, m := range models {
		size := "-"
		if m.Kind == types.KindFile {
			size = humanBytes(m.SizeBytes)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.Kind, size, m.Path)
	}
	return tw.Flush()
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
