package cmd

import (
	"fmt"
	"os"

	"github.com/netrixframework/cexsimplify/config"
	"github.com/netrixframework/cexsimplify/context"
	"github.com/netrixframework/cexsimplify/expr"
	"github.com/netrixframework/cexsimplify/log"
	"github.com/netrixframework/cexsimplify/witness"
	"github.com/spf13/cobra"
)

// RootCmd returns the root cobra command of the tool
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cexsimplify",
		Short:        "Explain and simplify counterexamples of linear arithmetic formulas",
		SilenceUsage: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVarP(&config.ConfigPath, "config", "c", "config.json", "Config file path")
	cmd.AddCommand(ExplainCmd())
	cmd.AddCommand(SimplifyCmd())
	cmd.AddCommand(ServeCmd())
	return cmd
}

// setup loads the config and initializes the default logger
func setup() (*context.RootContext, error) {
	conf, err := config.Load(config.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %s", err)
	}
	if err := log.Init(conf.LogConfig); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %s", err)
	}
	return context.NewRootContext(conf, log.DefaultLogger), nil
}

type inputFiles struct {
	formula string
	witness string
}

func (f *inputFiles) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formula, "formula", "f", "", "Formula document (JSON or YAML)")
	cmd.Flags().StringVarP(&f.witness, "witness", "w", "", "Witness document (JSON or YAML)")
	cmd.MarkFlagRequired("formula")
	cmd.MarkFlagRequired("witness")
}

func (f *inputFiles) read() (*expr.Expr, *witness.Model, error) {
	data, err := os.ReadFile(f.formula)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read formula: %s", err)
	}
	formula, err := expr.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	data, err = os.ReadFile(f.witness)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read witness: %s", err)
	}
	m, err := witness.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return formula, m, nil
}
