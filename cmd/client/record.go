package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/MKhiriev/mint-sync/internal/client"
	"github.com/MKhiriev/mint-sync/models"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record <entity-type> <CREATE|UPDATE|DELETE>",
	Short: "Record a local change",
	Long: `Record a change in the local store. The change stays pending until the
next sync. CREATE without --id generates a new entity id.

Example:
  mint-sync record account CREATE --payload '{"name":"Checking","balance":120}'`,
	Args: cobra.ExactArgs(2),
	RunE: runRecord,
}

var (
	recordEntityID    string
	recordPayload     string
	recordPayloadFile string
)

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVar(&recordEntityID, "id", "", "Entity id (required for UPDATE and DELETE)")
	recordCmd.Flags().StringVar(&recordPayload, "payload", "", "Entity body as a JSON object")
	recordCmd.Flags().StringVar(&recordPayloadFile, "payload-file", "", "Read the entity body from a file")
	recordCmd.MarkFlagsMutuallyExclusive("payload", "payload-file")
}

func runRecord(cmd *cobra.Command, args []string) error {
	entityType := models.EntityType(strings.ToLower(args[0]))
	op := models.Operation(strings.ToUpper(args[1]))

	payload, err := readPayload()
	if err != nil {
		client.RenderError(cmd.ErrOrStderr(), err.Error())
		return err
	}

	return withApp(cmd, func(app *client.App) error {
		change, err := app.Services.EntryService.Record(cmd.Context(), entityType, recordEntityID, op, payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "recorded %s %s %s (change %s)\n", change.Operation, change.EntityType, change.EntityID, change.ID)
		return nil
	})
}

func readPayload() (json.RawMessage, error) {
	switch {
	case recordPayloadFile != "":
		raw, err := os.ReadFile(recordPayloadFile)
		if err != nil {
			return nil, fmt.Errorf("error reading payload file: %w", err)
		}
		return json.RawMessage(raw), nil
	case recordPayload != "":
		return json.RawMessage(recordPayload), nil
	default:
		return nil, nil
	}
}
