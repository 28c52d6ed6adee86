package main

import (
	"os"

	"github.com/courierhub/labelqr/cmd/server"
	"github.com/courierhub/labelqr/internal/adapters/config"
	setupServer "github.com/courierhub/labelqr/internal/adapters/controller/http/setup"
	"github.com/spf13/cobra"

	_ "time/tzdata"
)

func main() {
	root := &cobra.Command{
		Use:          "labelqr",
		Short:        "labelqr renders styled QR codes for parcel labels",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newRenderCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the label HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			s, err := server.New(cfg)
			if err != nil {
				return err
			}

			setupServer.Setup(s)

			return s.Start()
		},
	}
}
