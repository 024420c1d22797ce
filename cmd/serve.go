package cmd

import (
	"github.com/netrixframework/cexsimplify/apiserver"
	"github.com/netrixframework/cexsimplify/log"
	"github.com/netrixframework/cexsimplify/util"
	"github.com/spf13/cobra"
)

// ServeCmd runs the HTTP service until interrupted
func ServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve explanation and simplification requests over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			termCh := util.Term()

			ctx, err := setup()
			if err != nil {
				return err
			}
			defer log.Destroy()
			if addr != "" {
				ctx.Config.ServerAddr = addr
			}

			server := apiserver.NewAPIServer(ctx)
			if err := server.Start(); err != nil {
				return err
			}
			select {
			case <-termCh:
			case <-server.QuitCh():
			}
			return server.Stop()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overriding the config")
	return cmd
}
