package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	accesstokenrepo "portico/internal/accesstoken/repository"
	accesstokensvc "portico/internal/accesstoken/service"
	"portico/internal/audit"
	auditrepo "portico/internal/audit/repository"
	"portico/internal/authz"
	"portico/internal/authz/engine"
	authzrepo "portico/internal/authz/repository"
	"portico/internal/config"
	"portico/internal/db"
	"portico/internal/health"
	"portico/internal/httpapi"
	resetrepo "portico/internal/passwordreset/repository"
	resetsvc "portico/internal/passwordreset/service"
	"portico/internal/security"
	sessionrepo "portico/internal/session/repository"
	sessionsvc "portico/internal/session/service"
	targetrepo "portico/internal/target/repository"
	targetsvc "portico/internal/target/service"
	"portico/internal/telemetry"
	telemetryotel "portico/internal/telemetry/otel"
	userrepo "portico/internal/user/repository"
)

// logMailer stands in for a real mail integration: it logs that a reset was
// issued, and outside production includes the token so local flows can be
// completed without SMTP.
type logMailer struct {
	env string
}

func (m *logMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	if m.env == "production" {
		log.Printf("mail: password reset issued for %s", email)
		return nil
	}
	log.Printf("mail: password reset issued for %s token=%s", email, token)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	providers, err := telemetryotel.NewProviders(ctx, cfg.OTELExporterEndpoint, "portico", cfg.OTELInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	users := userrepo.NewPostgresRepository(pool)
	sessions := sessionsvc.NewStore(sessionrepo.NewPostgresRepository(pool))
	cookies, err := sessionsvc.NewCookieCodec(cfg.SessionCookieName, cfg.AppBaseURL, cfg.SecureCookies)
	if err != nil {
		log.Fatalf("cookie: %v", err)
	}

	grants := authzrepo.NewPostgresRepository(pool)
	resolver := authz.NewResolver(grants)
	checker, err := engine.NewOPAChecker(grants)
	if err != nil {
		log.Fatalf("policy: %v", err)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	catalog := accesstokensvc.NewCatalog(accesstokenrepo.NewPostgresRepository(pool), resolver)
	targets := targetsvc.NewService(targetrepo.NewPostgresRepository(pool), resolver)
	resets := resetsvc.NewService(resetrepo.NewPostgresRepository(pool), users, hasher, sessions)
	emitter := telemetryotel.NewEventEmitter(providers.LoggerProvider)
	auditor := audit.NewLogger(auditrepo.NewPostgresRepository(pool), nil)

	handler := httpapi.NewHandler(httpapi.Deps{
		Sessions: sessions,
		Cookies:  cookies,
		Users:    users,
		Hasher:   hasher,
		Resolver: resolver,
		Checker:  checker,
		Catalog:  catalog,
		Targets:  targets,
		Resets:   resets,
		Mailer:   &logMailer{env: cfg.Env},
		Events:   emitter,
		Auditor:  auditor,
		Health:   health.NewHandler(pool),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(httpapi.LoggingMiddleware(handler.Routes()), "portico"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	// Let in-flight async telemetry emits finish before tearing the
	// providers down.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
