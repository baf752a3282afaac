package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"attendance-backend/internal/platform/db"
	"attendance-backend/internal/platform/logging"
	"attendance-backend/internal/platform/telemetry"
	"attendance-backend/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply migrations and start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log.Printf("[INFO] mode:%s version:%s", cfg.Mode, version)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, "attendance-backend", version, telemetry.Config{
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		Insecure:     cfg.Telemetry.Insecure,
	})
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(c)
	}()

	conn, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[INFO] connected to DB: %s", conn.Dialect)

	if err := conn.Migrate(ctx); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	r := server.NewRouter(server.Deps{
		DB:     conn,
		Config: cfg,
		Logger: logging.New("http"),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           otelhttp.NewHandler(r, "attendance-backend"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 証明書が設定されていれば TLS で起動
	var certFile, keyFile string
	if c := cfg.Server.Certificate; c.Cert != "" && c.Key != "" {
		certFile = filepath.Join("config", "tls", cfg.Mode, c.Cert)
		keyFile = filepath.Join("config", "tls", cfg.Mode, c.Key)
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if certFile != "" {
			log.Printf("[INFO] listening on https://%s", srv.Addr)
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			log.Printf("[INFO] listening on http://%s", srv.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	log.Println("[INFO] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
