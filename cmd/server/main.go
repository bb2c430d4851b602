package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"projecthub/internal/access"
	"projecthub/internal/audit"
	audithandler "projecthub/internal/audit/handler"
	auditrepo "projecthub/internal/audit/repository"
	"projecthub/internal/config"
	"projecthub/internal/db"
	granthandler "projecthub/internal/grant/handler"
	grantrepo "projecthub/internal/grant/repository"
	grantservice "projecthub/internal/grant/service"
	healthhandler "projecthub/internal/health/handler"
	identityhandler "projecthub/internal/identity/handler"
	identityrepo "projecthub/internal/identity/repository"
	identityservice "projecthub/internal/identity/service"
	membershiphandler "projecthub/internal/membership/handler"
	membershiprepo "projecthub/internal/membership/repository"
	membershipservice "projecthub/internal/membership/service"
	projecthandler "projecthub/internal/project/handler"
	projectrepo "projecthub/internal/project/repository"
	projectservice "projecthub/internal/project/service"
	"projecthub/internal/security"
	"projecthub/internal/server"
	sessionrepo "projecthub/internal/session/repository"
	taskhandler "projecthub/internal/task/handler"
	taskrepo "projecthub/internal/task/repository"
	taskservice "projecthub/internal/task/service"
	"projecthub/internal/telemetry"
	telemetryotel "projecthub/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()
	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, "projecthub-api", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	metrics := telemetry.NewMetrics(providers.MeterProvider)

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("jwt private key: %v", err)
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("jwt public key: %v", err)
	}
	tokens := security.NewTokenProvider(privateKey, publicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.RefreshTTL())
	hasher := security.NewHasher(cfg.BcryptCost)

	principals := identityrepo.NewPostgresRepository(conn)
	sessions := sessionrepo.NewPostgresRepository(conn)
	projects := projectrepo.NewPostgresRepository(conn)
	memberships := membershiprepo.NewPostgresRepository(conn)
	grants := grantrepo.NewPostgresRepository(conn)
	tasks := taskrepo.NewPostgresRepository(conn)
	audits := auditrepo.NewPostgresRepository(conn)

	evaluator := access.NewEvaluator(principals, projects, memberships, grants, metrics)
	auditor := audit.NewLogger(audits, metrics)

	authService := identityservice.NewAuthService(principals, sessions, hasher, tokens)
	adminService := identityservice.NewAdminService(principals, evaluator)
	projectService := projectservice.NewService(projects, memberships, principals, evaluator, auditor)
	membershipService := membershipservice.NewService(memberships, principals, evaluator, auditor)
	grantService := grantservice.NewService(grants, principals, evaluator, auditor)
	taskService := taskservice.NewService(tasks, evaluator, auditor)
	auditService := audit.NewService(evaluator, audits)

	router := server.NewRouter(tokens, authService, server.Handlers{
		Identity:   identityhandler.New(authService, adminService),
		Project:    projecthandler.New(projectService),
		Membership: membershiphandler.New(membershipService),
		Grant:      granthandler.New(grantService),
		Task:       taskhandler.New(taskService),
		Audit:      audithandler.New(auditService),
		Health:     healthhandler.New(conn),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
