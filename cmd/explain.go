package cmd

import (
	"github.com/netrixframework/cexsimplify/explain"
	"github.com/netrixframework/cexsimplify/report"
	"github.com/spf13/cobra"
)

// ExplainCmd prints the active constraints of a formula under a witness
func ExplainCmd() *cobra.Command {
	var files inputFiles
	var observedFalse bool
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print the constraints that make the formula hold under the witness",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(); err != nil {
				return err
			}
			formula, m, err := files.read()
			if err != nil {
				return err
			}
			constraints, err := explain.Extract(formula, m, !observedFalse)
			if err != nil {
				return err
			}
			return report.Constraints(cmd.OutOrStdout(), constraints)
		},
	}
	files.register(cmd)
	cmd.Flags().BoolVar(&observedFalse, "false", false, "Explain why the formula is false instead")
	return cmd
}
