package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk JSON shape of [StructuredConfig].
// Durations accept Go duration strings ("30s") or nanoseconds.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey       string `json:"token_sign_key"`
		TokenIssuer        string `json:"token_issuer"`
		TokenEncryptionKey string `json:"token_encryption_key"`
		Version            string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AllowedOrigins []string `json:"allowed_origins"`
	} `json:"server,omitempty"`

	Sync struct {
		RoundTimeout Duration `json:"round_timeout"`
	} `json:"sync,omitempty"`

	Provider struct {
		BaseURL        string   `json:"base_url"`
		ClientID       string   `json:"client_id"`
		Secret         string   `json:"secret"`
		RequestTimeout Duration `json:"request_timeout"`
		WindowDays     int      `json:"window_days"`
	} `json:"provider,omitempty"`

	Workers struct {
		IngestionInterval Duration `json:"ingestion_interval"`
		EventBuffer       int      `json:"event_buffer"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:       jsonCfg.App.TokenSignKey,
			TokenIssuer:        jsonCfg.App.TokenIssuer,
			TokenEncryptionKey: jsonCfg.App.TokenEncryptionKey,
			Version:            jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{DSN: jsonCfg.Storage.DB.DSN},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			AllowedOrigins: jsonCfg.Server.AllowedOrigins,
		},
		Sync: Sync{
			RoundTimeout: time.Duration(jsonCfg.Sync.RoundTimeout),
		},
		Provider: Provider{
			BaseURL:        jsonCfg.Provider.BaseURL,
			ClientID:       jsonCfg.Provider.ClientID,
			Secret:         jsonCfg.Provider.Secret,
			RequestTimeout: time.Duration(jsonCfg.Provider.RequestTimeout),
			WindowDays:     jsonCfg.Provider.WindowDays,
		},
		Workers: Workers{
			IngestionInterval: time.Duration(jsonCfg.Workers.IngestionInterval),
			EventBuffer:       jsonCfg.Workers.EventBuffer,
		},
	}

	return cfg, nil
}

// Duration is a time.Duration that unmarshals from "1h", "30s" or a number
// of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
