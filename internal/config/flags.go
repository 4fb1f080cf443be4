package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds a host and port. It implements flag.Value.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses server flags from args (without the program name).
//
// Flags:
//
//	-a            http address host:port
//	-grpc-address grpc address host:port
//	-d            database DSN
//	-c / -config  JSON config file path
//	-env-file     .env file path
//	-token-sign-key, -token-issuer, -token-encryption-key
//	-request-timeout, -round-timeout
//	-allowed-origins comma separated CORS origins
//	-provider-url, -provider-client-id, -provider-secret, -provider-window-days
//	-ingestion-interval
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("mint-sync", flag.ContinueOnError)

	var httpAddress, grpcAddress NetAddress
	var (
		databaseDSN        string
		jsonConfigPath     string
		envFilePath        string
		tokenSignKey       string
		tokenIssuer        string
		tokenEncryptionKey string
		requestTimeout     time.Duration
		roundTimeout       time.Duration
		allowedOrigins     string
		providerURL        string
		providerClientID   string
		providerSecret     string
		providerWindowDays int
		ingestionInterval  time.Duration
	)

	fs.Var(&httpAddress, "a", "HTTP address host:port")
	fs.Var(&grpcAddress, "grpc-address", "gRPC address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&envFilePath, "env-file", "", ".env file path")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.StringVar(&tokenEncryptionKey, "token-encryption-key", "", "Provider token encryption key (32 bytes, hex or base64)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&roundTimeout, "round-timeout", 0, "Sync round timeout (e.g., 30s)")
	fs.StringVar(&allowedOrigins, "allowed-origins", "", "Comma separated CORS origins")
	fs.StringVar(&providerURL, "provider-url", "", "Aggregator API base URL")
	fs.StringVar(&providerClientID, "provider-client-id", "", "Aggregator client id")
	fs.StringVar(&providerSecret, "provider-secret", "", "Aggregator secret")
	fs.IntVar(&providerWindowDays, "provider-window-days", 0, "Trailing days of transactions to ingest")
	fs.DurationVar(&ingestionInterval, "ingestion-interval", 0, "Provider ingestion period, 0 disables")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:       tokenSignKey,
			TokenIssuer:        tokenIssuer,
			TokenEncryptionKey: tokenEncryptionKey,
		},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		Server: Server{
			HTTPAddress:    httpAddress.String(),
			GRPCAddress:    grpcAddress.String(),
			RequestTimeout: requestTimeout,
			AllowedOrigins: splitList(allowedOrigins),
		},
		Sync: Sync{RoundTimeout: roundTimeout},
		Provider: Provider{
			BaseURL:    providerURL,
			ClientID:   providerClientID,
			Secret:     providerSecret,
			WindowDays: providerWindowDays,
		},
		Workers:      Workers{IngestionInterval: ingestionInterval},
		JSONFilePath: jsonConfigPath,
		EnvFilePath:  envFilePath,
	}, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String returns host:port, or "" when nothing was set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses host:port. The host must be an IP address, "localhost" or
// empty (all interfaces).
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
