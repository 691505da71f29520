package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/dappnode/validator-status/internal/application/services"
	"github.com/dappnode/validator-status/internal/config"
	"github.com/dappnode/validator-status/internal/logger"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "validator-status",
		Short:        "Check the status of a set of validators on a beacon node",
		Long:         "Queries the first synced beacon node for the status of every configured validator pubkey, in batches, and writes a status report.",
		RunE:         runStatusCheck,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("config", "c", "", "Path to a YAML config file")
	cmd.Flags().String("env-file", ".env", "Path to a .env file, ignored if missing")
	cmd.Flags().Int("chunk-size", 0, "Number of pubkeys per validators query")
	cmd.Flags().StringSlice("node-endpoint", nil, "Beacon node host:port, in order of preference")
	cmd.Flags().String("key-json-path", "", "Path to the JSON key file")
	cmd.Flags().String("results-dir", "", "Directory the report files are written to")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func runStatusCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := logger.Setup(cfg.LogLevel, cfg.LogDir); err != nil {
		logger.Warn("Logging to files disabled: %v", err)
	}
	defer logger.Log.Close()
	logger.Info("Loaded config: nodeEndpoints=%v, chunkSize=%d, keyJsonPath=%s, web3signerEndpoint=%s",
		cfg.NodeEndpoints, cfg.ChunkSize, cfg.KeyJSONPath, cfg.Web3SignerEndpoint)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handleShutdown(cancel)

	checker, closeAll, err := newStatusChecker(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize status checker: %v", err)
	}

	_, err = checker.Run(ctx)
	closeAll()
	switch {
	case errors.Is(err, services.ErrNoAvailableNodes):
		logger.Fatal("No available Fullnodes")
	case errors.Is(err, services.ErrNoValidatorData):
		logger.Fatal("No Validator Data")
	case err != nil:
		logger.Fatal("Status check failed: %v", err)
	}
	return nil
}

// loadConfig reads config files and environment, then applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	envFile, _ := flags.GetString("env-file")
	configPath, _ := flags.GetString("config")

	cfg, err := config.LoadConfig(envFile, configPath)
	if err != nil {
		return cfg, err
	}

	if flags.Changed("chunk-size") {
		cfg.ChunkSize, _ = flags.GetInt("chunk-size")
	}
	if flags.Changed("node-endpoint") {
		endpoints, _ := flags.GetStringSlice("node-endpoint")
		cfg.NodeEndpoints = config.NormalizeEndpoints(endpoints)
	}
	if flags.Changed("key-json-path") {
		cfg.KeyJSONPath, _ = flags.GetString("key-json-path")
	}
	if flags.Changed("results-dir") {
		cfg.ResultsDir, _ = flags.GetString("results-dir")
	}

	return cfg, cfg.Validate()
}

// handleShutdown listens for SIGINT/SIGTERM and cancels the context
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received signal: %s. Initiating shutdown...", sig)
		cancel()
	}()
}
