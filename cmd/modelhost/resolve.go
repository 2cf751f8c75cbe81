package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"modelhost/internal/manager"
	"modelhost/internal/registry"
)

func newResolveCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "resolve [model-id]",
		Short: "Show the command line a model would be started with",
		Long: "With a model id, print that model's launch plan. Without one, check every\n" +
			"model in the catalog and report which strategy it resolves to.",
		Example: "  modelhost resolve tinyllama-q4\n  modelhost resolve --json",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return printSanityReport(cmd.OutOrStdout(), a, asJSON)
			}
			cat := registry.NewCatalog(a.cfg.ModelsDir, a.cfg.ModelExtensions)
			if err := cat.Rescan(); err != nil {
				return err
			}
			m, ok := cat.Get(args[0])
			if !ok {
				return manager.ErrModelNotFound(args[0])
			}
			plan := newResolver(a.cfg, a.log).Plan(m)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			}
			if plan.Error != "" {
				return fmt.Errorf("%s", plan.Error)
			}
			fmt.Fprintf(out, "strategy: %s\n", plan.Strategy)
			fmt.Fprintf(out, "command:  %s %s\n", plan.Path, strings.Join(plan.Args, " "))
			if plan.Dir != "" {
				fmt.Fprintf(out, "dir:      %s\n", plan.Dir)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the launch plan as JSON")
	return cmd
}

func printSanityReport(out io.Writer, a *app, asJSON bool) error {
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		ModelsDir:  a.cfg.ModelsDir,
		Extensions: a.cfg.ModelExtensions,
		Resolver:   newResolver(a.cfg, a.log),
	})
	defer mgr.Close()
	rep := mgr.SanityCheck()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTRATEGY\tCOMMAND")
	for _, p := range rep.Plans {
		if p.Error != "" {
			fmt.Fprintf(tw, "%s\t-\t%s\n", p.ModelID, p.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ModelID, p.Strategy, strings.TrimSpace(p.Path+" "+strings.Join(p.Args, " ")))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d of %d models launchable (strategies: %s)\n",
		len(rep.Plans)-rep.Unlaunchable, len(rep.Plans), strings.Join(rep.Strategies, ", "))
	return nil
}
