package common

import (
	"log"
	"strings"

	"stellar-gasless-go/internal/assets"
	"stellar-gasless-go/internal/horizon"
	"stellar-gasless-go/internal/models"
	"stellar-gasless-go/internal/orchestrator"
	"stellar-gasless-go/internal/relayer"
	"stellar-gasless-go/internal/signer"
	"stellar-gasless-go/internal/trustline"
	"stellar-gasless-go/internal/txbuilder"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

// Services wires the payment core together for the cmd tools.
type Services struct {
	Catalog      *assets.Catalog
	Accounts     *horizon.Service
	Trustlines   *trustline.Evaluator
	Builder      *txbuilder.Builder
	Relayer      *relayer.Service
	Orchestrator *orchestrator.Service
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices builds the full dependency chain from configuration:
// asset catalog, ledger query, trustline evaluator, transaction builder,
// relayer gateway, and the orchestrator on top.
func InitializeServices(cfg *models.Config, signers signer.Gateway) (*Services, error) {
	catalog := assets.Default()
	if cfg.AssetsFile != "" {
		loaded, err := assets.Load(cfg.AssetsFile)
		if err != nil {
			return nil, err
		}
		catalog = loaded
		zap.L().Info("Loaded asset registry override", zap.String("file", cfg.AssetsFile))
	}

	accounts := horizon.NewService(horizon.NewHorizonClient(cfg.Network.HorizonURL))
	trustlines := trustline.NewEvaluator(accounts)
	builder := txbuilder.NewBuilder(accounts, trustlines, catalog)

	relayService, err := relayer.NewService(cfg.Relayer, cfg.Network.ExplorerURL)
	if err != nil {
		return nil, err
	}

	return &Services{
		Catalog:      catalog,
		Accounts:     accounts,
		Trustlines:   trustlines,
		Builder:      builder,
		Relayer:      relayService,
		Orchestrator: orchestrator.NewService(builder, signers, relayService, cfg.Relayer.SubmitTimeout),
	}, nil
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
