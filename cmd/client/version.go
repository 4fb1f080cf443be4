package main

import (
	"fmt"
	"time"

	"github.com/MKhiriev/mint-sync/internal/client"
	"github.com/MKhiriev/mint-sync/internal/utils"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print client and server build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printBuildInfo()

		return withApp(cmd, func(app *client.App) error {
			version, err := app.Adapter.Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Server version: %s (%s, %s)\n", version.Version, version.Date, version.Commit)
			return nil
		})
	},
}

// tokenCmd signs a development token with the server's sign key.
var tokenCmd = &cobra.Command{
	Use:    "token",
	Short:  "Sign a development bearer token",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := utils.GenerateJWTToken(tokenIssuer, tokenUserID, tokenTTL, tokenSignKey)
		if err != nil {
			client.RenderError(cmd.ErrOrStderr(), err.Error())
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token.SignedString)
		return nil
	},
}

var (
	tokenUserID  int64
	tokenIssuer  string
	tokenSignKey string
	tokenTTL     time.Duration
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().Int64Var(&tokenUserID, "user", 1, "Owner id put into the sub claim")
	tokenCmd.Flags().StringVar(&tokenIssuer, "issuer", "mint-sync", "Issuer, must match APP_TOKEN_ISSUER of the server")
	tokenCmd.Flags().StringVar(&tokenSignKey, "key", "", "HMAC sign key, must match APP_TOKEN_SIGN_KEY of the server")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("key")
}
