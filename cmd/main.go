package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	httpctx "github.com/securo/securo-server/internal/api/http/context"
	"github.com/securo/securo-server/internal/api/http/router"
	httpServer "github.com/securo/securo-server/internal/api/http/server"
	"github.com/securo/securo-server/internal/config"
	"github.com/securo/securo-server/internal/crypto"
	"github.com/securo/securo-server/internal/logger"
	"github.com/securo/securo-server/internal/model"
	"github.com/securo/securo-server/internal/repository/postgres"
	"github.com/securo/securo-server/internal/server"
	"github.com/securo/securo-server/internal/service"
	storage "github.com/securo/securo-server/internal/storage/minio"
	"github.com/securo/securo-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	masterRepo := postgres.NewMasterRepository(db)
	entryRepo := postgres.NewEntryRepository(db)
	auditRepo := postgres.NewAccessLogRepository(db)

	key, err := crypto.LoadKey(cfg.Vault.Key, cfg.Vault.KeyFile)
	if err != nil {
		logger.Fatal("failed to load vault key", "error", err)
	}
	cipher, err := crypto.NewCipher(key)
	if err != nil {
		logger.Fatal("failed to initialize cipher", "error", err)
	}

	guard := service.NewGuard(masterRepo, logger)
	tokenManager := token.NewJWT(cfg.JWT.Secret)
	sessionService := service.NewSession(guard, tokenManager, logger)
	ctxMgr := httpctx.NewManager()

	minioClient, err := minio.New(cfg.Backup.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Backup.AccessKey, cfg.Backup.SecretKey, ""),
		Secure: cfg.Backup.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	backupClient, err := storage.NewClient(ctx, minioClient, cfg.Backup.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize backup storage", "error", err)
	}

	vaultService := service.NewVault(entryRepo, auditRepo, guard, cipher, ctxMgr, backupClient, logger)

	r := router.New(guard, vaultService, sessionService, ctxMgr, buildVersion, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
