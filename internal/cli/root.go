package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cfgFile string

type commandContextKey struct{}

type commandContext struct {
	correlationId uuid.UUID
	startedAt     time.Time
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "workload",
		Short: "Workload - day by day allocation of remaining task effort",
		Long: `Workload spreads the remaining effort of open tasks over the working days
until their due dates and classifies the resulting daily load of every assignee.

Without a subcommand the HTTP API is served.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			info := commandContext{correlationId: uuid.New(), startedAt: time.Now()}
			cmd.SetContext(context.WithValue(cmd.Context(), commandContextKey{}, info))
			log.WithFields(log.Fields{
				"command":        cmd.CommandPath(),
				"correlation_id": info.correlationId.String(),
			}).Debug("command start")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
			if !ok {
				return
			}
			log.WithFields(log.Fields{
				"command":        cmd.CommandPath(),
				"correlation_id": info.correlationId.String(),
				"duration_ms":    time.Since(info.startedAt).Milliseconds(),
			}).Debug("command end")
		},
		RunE: runServe,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "./config/application.yaml", "config file path")
	rootCmd.AddCommand(newServeCmd(), newReportCmd())
	return rootCmd
}

// Execute runs the command line named by os.Args.
func Execute(ctx context.Context) {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
