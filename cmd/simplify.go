package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/netrixframework/cexsimplify/apiserver"
	"github.com/netrixframework/cexsimplify/report"
	"github.com/netrixframework/cexsimplify/simplify"
	"github.com/netrixframework/cexsimplify/util"
	"github.com/netrixframework/cexsimplify/witness"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type simplifyFlags struct {
	inputFiles
	families []string
	remote   string
	output   string
	diff     bool
}

// SimplifyCmd prints a simplified witness of a formula
func SimplifyCmd() *cobra.Command {
	var flags simplifyFlags
	cmd := &cobra.Command{
		Use:   "simplify",
		Short: "Smooth the time-indexed values of a witness while keeping the formula true",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := setup()
			if err != nil {
				return err
			}
			formula, m, err := flags.read()
			if err != nil {
				return err
			}
			runCtx, cancel := util.TermContext(context.Background())
			defer cancel()

			var resp apiserver.SimplifyResponse
			if flags.remote != "" {
				req := apiserver.SimplifyRequest{Formula: formula, Model: m, Families: flags.families}
				if err := util.PostJSON(runCtx, flags.remote+"/simplify", req, &resp); err != nil {
					return err
				}
			} else {
				s := root.Simplifier
				families := s.Options.Families
				if len(flags.families) > 0 {
					families = flags.families
				}
				res, err := s.SimplifyWith(runCtx, m, formula, simplify.FamilyObjective(m, families...))
				if err != nil {
					return err
				}
				resp = apiserver.SimplifyResponse{
					Applied: res.Applied,
					Model:   res.Model,
					Changed: res.Changed,
					Before:  res.Before.RatString(),
					After:   res.After.RatString(),
				}
				if res.Diagnostic != nil {
					resp.Diagnostic = res.Diagnostic.Error()
				}
			}
			return flags.print(cmd.OutOrStdout(), m, resp)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&flags.families, "families", nil, "Families to smooth, overriding the config")
	cmd.Flags().StringVar(&flags.remote, "remote", "", "Address of a running `serve` instance to delegate to")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "table", "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "Print only the changed entries")
	return cmd
}

func (f *simplifyFlags) print(w io.Writer, original *witness.Model, resp apiserver.SimplifyResponse) error {
	if resp.Model == nil {
		resp.Model = original
	}
	switch f.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(map[string]interface{}{
			"applied":          resp.Applied,
			"diagnostic":       resp.Diagnostic,
			"objective_before": resp.Before,
			"objective_after":  resp.After,
			"model":            resp.Model,
		})
	case "table", "":
	default:
		return fmt.Errorf("unknown output format %q", f.output)
	}

	if !resp.Applied {
		fmt.Fprintf(w, "not simplified: %s\n", resp.Diagnostic)
	} else {
		fmt.Fprintf(w, "objective %s -> %s\n", resp.Before, resp.After)
	}
	if f.diff {
		return report.Diff(w, original, resp.Model)
	}
	return report.Table(w, resp.Model, f.families...)
}
