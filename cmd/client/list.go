package main

import (
	"strings"

	"github.com/MKhiriev/mint-sync/internal/client"
	"github.com/MKhiriev/mint-sync/models"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <entity-type>",
	Short: "List entities from the local store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityType := models.EntityType(strings.ToLower(args[0]))

		return withApp(cmd, func(app *client.App) error {
			entities, err := app.Services.EntryService.List(cmd.Context(), entityType)
			if err != nil {
				return err
			}
			client.RenderEntities(cmd.OutOrStdout(), entities)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pending changes and sync cursors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *client.App) error {
			status, err := app.Services.EntryService.Status(cmd.Context())
			if err != nil {
				return err
			}
			client.RenderStatus(cmd.OutOrStdout(), status)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
}
