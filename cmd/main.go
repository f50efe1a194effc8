package main

import (
	"context"
	"crypto/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/cristianortiz/auctionLedger/internal/auction/application"
	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
	"github.com/cristianortiz/auctionLedger/internal/auction/infra/messaging"
	"github.com/cristianortiz/auctionLedger/internal/auction/infra/repository/postgres"
	"github.com/cristianortiz/auctionLedger/internal/auction/infra/rest"
	auctionws "github.com/cristianortiz/auctionLedger/internal/auction/infra/websocket"
	"github.com/cristianortiz/auctionLedger/internal/shared/clock"
	"github.com/cristianortiz/auctionLedger/internal/shared/config"
	"github.com/cristianortiz/auctionLedger/internal/shared/db"
	"github.com/cristianortiz/auctionLedger/internal/shared/db/migrations"
	"github.com/cristianortiz/auctionLedger/internal/shared/httpserver"
	"github.com/cristianortiz/auctionLedger/internal/shared/logger"
	"github.com/cristianortiz/auctionLedger/internal/shared/websocket"
	"go.uber.org/zap"
)

func main() {
	// Inicializa logger
	logger := logger.GetLogger()
	defer logger.Sync()

	logger.Info("Starting AuctionLedger server...")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			logger.Fatal("Failed to generate JWT secret", zap.Error(err))
		}
		logger.Warn("JWT_SECRET not set, using a random secret: tokens will not survive a restart")
	}

	var (
		publishers application.Publishers
		archiver   *application.Archiver
		ledger     domain.LedgerRepository
	)

	// Persistencia opcional
	if cfg.PersistenceEnabled() {
		logger.Info("Running database migrations...")
		if err := migrations.RunMigrations(cfg.MigrationsPath, db.BuildPostgresDSN(cfg.DB)); err != nil {
			logger.Fatal("Database migration failed", zap.Error(err))
		}
		logger.Info("Database migrations completed successfully.")

		pool, err := db.GetPostgresDBPool(ctx, cfg.DB)
		if err != nil {
			logger.Fatal("Database connection failed", zap.Error(err))
		}
		defer pool.Close()

		ledger = postgres.NewLedgerRepository(pool)
		archiver = application.NewArchiver(ledger, cfg.ArchiveBuffer)
		publishers = append(publishers, archiver)
	} else {
		logger.Warn("DB_HOST not set, the ledger is kept in memory only")
	}

	if cfg.NATSEnabled() {
		natsPublisher, err := messaging.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix)
		if err != nil {
			logger.Fatal("NATS connection failed", zap.Error(err))
		}
		defer func() {
			if err := natsPublisher.Close(); err != nil {
				logger.Warn("Failed to drain NATS connection", zap.Error(err))
			}
		}()
		publishers = append(publishers, natsPublisher)
	}

	hub := websocket.NewHub()
	publishers = append(publishers, auctionws.NewNotifier(hub))

	store := domain.NewAuctionStore(clock.System{}, domain.WithPublisher(publishers))
	if ledger != nil {
		if err := application.RestoreLedger(ctx, ledger, store); err != nil {
			logger.Fatal("Failed to restore ledger", zap.Error(err))
		}
	}
	service := application.NewAuctionService(store)

	// the archiver outlives every producer of bids, it is stopped last
	archiveCtx, stopArchiver := context.WithCancel(context.Background())
	defer stopArchiver()
	var archiverDone sync.WaitGroup
	if archiver != nil {
		archiverDone.Add(1)
		go func() {
			defer archiverDone.Done()
			archiver.Run(archiveCtx)
		}()
	}

	go hub.Run(ctx)
	wsHandler := auctionws.NewAuctionWSHandler(ctx, service, hub)
	var listener sync.WaitGroup
	listener.Add(1)
	go func() {
		defer listener.Done()
		wsHandler.ListenForMessages(ctx)
	}()

	// Arranca el servidor HTTP
	server := httpserver.NewServer(secret)
	rest.NewAuctionHandler(service).Register(server.App())
	wsHandler.Register(server.App())

	if err := server.Start(ctx, cfg.HTTPAddr); err != nil {
		logger.Error("HTTP server failed", zap.Error(err))
	}
	stop()
	listener.Wait()
	stopArchiver()
	archiverDone.Wait()
	logger.Info("AuctionLedger server stopped")
}
