package main

import (
	"context"
	"fmt"

	"github.com/dappnode/validator-status/internal/adapters/beacon"
	"github.com/dappnode/validator-status/internal/adapters/keyfile"
	"github.com/dappnode/validator-status/internal/adapters/notifier"
	"github.com/dappnode/validator-status/internal/adapters/reportfile"
	"github.com/dappnode/validator-status/internal/adapters/s3"
	"github.com/dappnode/validator-status/internal/adapters/sqlite"
	"github.com/dappnode/validator-status/internal/adapters/web3signer"
	"github.com/dappnode/validator-status/internal/application/domain"
	"github.com/dappnode/validator-status/internal/application/ports"
	"github.com/dappnode/validator-status/internal/application/services"
	"github.com/dappnode/validator-status/internal/config"
	"github.com/dappnode/validator-status/internal/logger"
)

// newStatusChecker wires the adapters selected by cfg. The returned func releases
// whatever the sinks hold open.
func newStatusChecker(ctx context.Context, cfg config.Config) (*services.StatusChecker, func(), error) {
	beaconAdapter := beacon.NewBeaconAdapter(cfg.HTTPTimeout)

	var keys ports.KeySource
	if cfg.Web3SignerEndpoint != "" {
		logger.Info("Reading keys from web3signer: %s", cfg.Web3SignerEndpoint)
		keys = web3signer.NewWeb3SignerAdapter(cfg.Web3SignerEndpoint, cfg.HTTPTimeout)
	} else {
		keys = keyfile.NewKeyFileAdapter(cfg.KeyJSONPath)
	}

	closeAll := func() {}
	sinks := []ports.ReportSink{reportfile.NewReportFileAdapter(cfg.ResultsDir)}

	if cfg.SQLitePath != "" {
		storage, err := sqlite.NewSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			return nil, closeAll, fmt.Errorf("failed to open report database: %w", err)
		}
		sinks = append(sinks, storage)
		closeAll = func() {
			if err := storage.Close(); err != nil {
				logger.Warn("Error closing report database: %v", err)
			}
		}
	}

	// S3 is a secondary copy; an unreachable bucket only disables it.
	if cfg.S3.Enabled() {
		storage, err := s3.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			logger.Error("S3 report upload disabled: %v", err)
		} else {
			sinks = append(sinks, storage)
		}
	}

	var notif ports.NotifierPort
	if cfg.WebhookURL != "" {
		notif = notifier.NewNotifier(cfg.WebhookURL)
	}

	endpoints := make([]domain.Endpoint, 0, len(cfg.NodeEndpoints))
	for _, e := range cfg.NodeEndpoints {
		endpoints = append(endpoints, domain.Endpoint(e))
	}

	return &services.StatusChecker{
		Keys:              keys,
		Nodes:             &services.NodeChecker{Beacon: beaconAdapter},
		Fetcher:           &services.ValidatorFetcher{Beacon: beaconAdapter, ChunkSize: cfg.ChunkSize},
		Sinks:             sinks,
		Notifier:          notif,
		Endpoints:         endpoints,
		NotificationTitle: cfg.WebhookTitle,
		NodeFallback:      cfg.NodeFallback,
	}, closeAll, nil
}
