package main

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/mint-sync/internal/client"
	"github.com/MKhiriev/mint-sync/models"
	"github.com/spf13/cobra"
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Inspect and resolve conflicts waiting for a manual decision",
}

var conflictsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending conflicts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *client.App) error {
			list, err := app.Services.ConflictService.List(cmd.Context())
			if err != nil {
				return err
			}
			client.RenderConflicts(cmd.OutOrStdout(), list)
			return nil
		})
	},
}

var conflictsResolveCmd = &cobra.Command{
	Use:   "resolve <conflict-id>",
	Short: "Keep the client or the server side of a conflict",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

var resolveSide string

func init() {
	rootCmd.AddCommand(conflictsCmd)
	conflictsCmd.AddCommand(conflictsListCmd)
	conflictsCmd.AddCommand(conflictsResolveCmd)

	conflictsResolveCmd.Flags().StringVar(&resolveSide, "use", "", "Side to keep: client or server")
	_ = conflictsResolveCmd.MarkFlagRequired("use")
}

func runResolve(cmd *cobra.Command, args []string) error {
	var resolution models.Resolution
	switch strings.ToLower(resolveSide) {
	case "client":
		resolution = models.ResolutionClientWin
	case "server":
		resolution = models.ResolutionServerWin
	default:
		err := fmt.Errorf("--use must be client or server, got %q", resolveSide)
		client.RenderError(cmd.ErrOrStderr(), err.Error())
		return err
	}

	return withApp(cmd, func(app *client.App) error {
		resolved, err := app.Services.ConflictService.Resolve(cmd.Context(), args[0], resolution)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "conflict %s on %s %s resolved: %s\n",
			resolved.ID, resolved.EntityType, resolved.EntityID, resolved.Resolution)
		return nil
	})
}
