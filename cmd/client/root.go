package main

import (
	"github.com/MKhiriev/mint-sync/internal/client"
	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	v       = config.NewClientViper()
)

var rootCmd = &cobra.Command{
	Use:   "mint-sync",
	Short: "Offline-first client of the mint-sync server",
	Long: `mint-sync records account, transaction, budget and goal changes in a
local SQLite store and synchronizes them with the server when it is
reachable. Changes made offline stay pending until the next sync.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ./config.yaml or $HOME/.mint-sync/config.yaml)")
	flags.String("server", "", "Sync server URL (MINT_SERVER_URL)")
	flags.String("token", "", "Bearer token (MINT_TOKEN)")
	flags.String("db", "", "Local database file (MINT_DB_PATH)")
	flags.String("log-level", "", "Log level of the log file (MINT_LOG_LEVEL)")

	_ = v.BindPFlag("server_url", flags.Lookup("server"))
	_ = v.BindPFlag("token", flags.Lookup("token"))
	_ = v.BindPFlag("db_path", flags.Lookup("db"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
}

// openApp loads the configuration and opens the local store. The file logger
// is attached to the command context. The caller closes the returned app.
func openApp(cmd *cobra.Command) (*client.App, *logger.Logger, error) {
	cfg, err := config.LoadClientConfig(v, cfgFile)
	if err != nil {
		return nil, nil, err
	}

	log := logger.NewFileLogger("mint-sync-client", logger.FileOptions{
		Path:       cfg.Log.Path,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Level:      cfg.Log.Level,
	})

	cmd.SetContext(log.WithContext(cmd.Context()))

	app, err := client.NewApp(cmd.Context(), cfg, buildVersion, log)
	if err != nil {
		log.Err(err).Msg("error creating client app")
		return nil, nil, err
	}

	return app, log, nil
}

// withApp runs fn against an opened app and renders its error for the user.
func withApp(cmd *cobra.Command, fn func(app *client.App) error) error {
	app, log, err := openApp(cmd)
	if err != nil {
		client.RenderError(cmd.ErrOrStderr(), err.Error())
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			log.Err(closeErr).Msg("error closing local store")
		}
	}()

	if err = fn(app); err != nil {
		log.Err(err).Str("command", cmd.CommandPath()).Msg("command failed")
		client.RenderError(cmd.ErrOrStderr(), client.UserMessage(err))
		return err
	}
	return nil
}
