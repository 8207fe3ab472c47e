package cli

import (
	"github.com/klokku/workload/internal/app"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the workload HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	application, err := app.NewApplication(cmd.Context(), cfgFile)
	if err != nil {
		return err
	}
	defer application.Close()
	return application.Run(cmd.Context())
}
