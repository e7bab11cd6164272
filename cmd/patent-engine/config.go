package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bkuznetsov/patent-engine/internal/cascade"
	"github.com/bkuznetsov/patent-engine/internal/enrich"
	"github.com/bkuznetsov/patent-engine/internal/retrieve"
	"github.com/bkuznetsov/patent-engine/internal/secrets"
	"github.com/bkuznetsov/patent-engine/pkg/types"
)

const defaultUserAgent = "patent-engine/0.1"

// newLogger builds the process logger. --verbose lowers the level to debug.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// credential resolves a credential from the config file or environment,
// falling back to the secrets directory.
func credential(confKey, secretKey string) string {
	if v := viper.GetString(confKey); v != "" {
		return v
	}
	return loadedSecrets[secretKey]
}

// addRetrievalFlags registers the flags shared by every command that calls
// the upstream service.
func addRetrievalFlags(cmd *cobra.Command) {
	cmd.Flags().String("base-url", "", "search platform root URL (default: production)")
	cmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	cmd.Flags().Int("max-retries", 0, "retry budget for transient failures (default 3)")
}

// retrievalConfig assembles the search platform configuration from flags,
// the config file or environment, and the secrets directory. Zero values
// pass through; retrieve.NewClient applies the defaults.
func retrievalConfig(cmd *cobra.Command) types.RetrievalConfig {
	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = viper.GetString("base_url")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("timeout")
	}
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	if maxRetries == 0 {
		maxRetries = viper.GetInt("max_retries")
	}
	userAgent := viper.GetString("user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return types.RetrievalConfig{
		BaseURL:    baseURL,
		JWT:        credential("jwt", secrets.KeyJWT),
		Timeout:    timeout,
		MaxRetries: maxRetries,
		UserAgent:  userAgent,
	}
}

// enrichConfig assembles the text analysis configuration. ok is false when
// no client credentials are configured, which disables enrichment.
func enrichConfig() (types.EnrichConfig, bool) {
	id := credential("gigachat_client_id", secrets.KeyGigaChatID)
	secret := credential("gigachat_client_secret", secrets.KeyGigaChatSecret)
	if id == "" || secret == "" {
		return types.EnrichConfig{}, false
	}

	return types.EnrichConfig{
		AuthURL:      viper.GetString("gigachat_auth_url"),
		BaseURL:      viper.GetString("gigachat_base_url"),
		ClientID:     id,
		ClientSecret: secret,
		Scope:        viper.GetString("gigachat_scope"),
		Model:        viper.GetString("gigachat_model"),
		Timeout:      viper.GetDuration("gigachat_timeout"),
	}, true
}

// newRetrieveClient wires the full retrieval stack: analyzer when
// credentials exist, reconstruction orchestrator, retrieval client.
func newRetrieveClient(cmd *cobra.Command) (*retrieve.Client, *slog.Logger) {
	log := newLogger(cmd)

	var analyzer cascade.Analyzer
	if cfg, ok := enrichConfig(); ok {
		analyzer = enrich.NewClient(log, cfg)
	} else {
		log.Debug("no analysis credentials configured, enrichment disabled")
	}

	orchestrator := cascade.New(log, analyzer)
	return retrieve.NewClient(log, retrievalConfig(cmd), orchestrator), log
}
