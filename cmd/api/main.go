package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/app"
	"github.com/ivancitoook/mibuscalibrosreact1/internal/clock"
	"github.com/ivancitoook/mibuscalibrosreact1/internal/config"
	"github.com/ivancitoook/mibuscalibrosreact1/internal/storage/postgres"
	"github.com/ivancitoook/mibuscalibrosreact1/internal/token"
	transporthttp "github.com/ivancitoook/mibuscalibrosreact1/internal/transport/http"
	"github.com/ivancitoook/mibuscalibrosreact1/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	tokens, err := token.NewManager(cfg.JWTSecret, cfg.TokenTTL())
	if err != nil {
		log.Fatalf("token manager: %v", err)
	}

	clk := clock.NewSystem()
	loanRepo := postgres.NewLoanRepository(pool)
	loanSvc := app.NewLoanService(loanRepo, clk)
	querySvc := app.NewLoanQueryService(loanRepo)
	catalogRepo := postgres.NewCatalogRepository(pool)
	catalogSvc := app.NewCatalogService(catalogRepo)
	userRepo := postgres.NewUserRepository(pool)
	authSvc := app.NewAuthService(userRepo)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/auth/login", transporthttp.HandleLogin(authSvc, tokens, clk))
	mux.Handle("/auth/register", transporthttp.HandleRegister(authSvc, tokens, clk))
	mux.Handle("/books", transporthttp.HandleBooks(catalogSvc))
	mux.Handle("/libraries", transporthttp.HandleLibraries(catalogSvc))
	mux.Handle("/loans", transporthttp.HandleLoans(loanSvc, querySvc))
	mux.Handle("/loans/", transporthttp.HandleLoanItem(loanSvc))
	mux.Handle("/admin/books", transporthttp.HandleAdminBooks(catalogSvc))
	mux.Handle("/admin/libraries", transporthttp.HandleAdminLibraries(catalogSvc))
	mux.Handle("/admin/loans", transporthttp.HandleAdminLoanReset(loanSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(
		transporthttp.CORS(cfg.CORSOrigins, transporthttp.Authenticate(tokens, mux)),
		logger,
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
