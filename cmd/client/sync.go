package main

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/MKhiriev/mint-sync/internal/client"
	"github.com/MKhiriev/mint-sync/models"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [entity-type]",
	Short: "Synchronize pending changes with the server",
	Long: `Run one sync round per entity type, or only for the given type.
Rounds that fail leave their changes pending; the others still complete.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Keep syncing in the background until interrupted",
	Long: `Sync once, then every sync_interval (MINT_SYNC_INTERVAL) until
SIGINT or SIGTERM. Progress goes to the log file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		return withApp(cmd, func(app *client.App) error {
			return app.RunDaemon(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(daemonCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(app *client.App) error {
		if len(args) == 1 {
			report, err := app.Services.SyncService.SyncEntityType(cmd.Context(), models.EntityType(strings.ToLower(args[0])))
			if err != nil {
				return err
			}
			client.RenderSyncReports(cmd.OutOrStdout(), []models.ClientSyncReport{report})
			return nil
		}

		reports, err := app.Services.SyncService.SyncAll(cmd.Context())
		client.RenderSyncReports(cmd.OutOrStdout(), reports)
		return err
	})
}
