// main wires configuration, stores, services, and the HTTP surface. Empty
// DATABASE_URL and REDIS_ADDR select the in-memory backends so the server
// runs without infrastructure during development.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appstore "ongfinder/internal/application/store"
	authhandler "ongfinder/internal/auth/handler"
	"ongfinder/internal/auth/lockout"
	authservice "ongfinder/internal/auth/service"
	"ongfinder/internal/auth/token"
	orghandler "ongfinder/internal/organization/handler"
	orgservice "ongfinder/internal/organization/service"
	orgstore "ongfinder/internal/organization/store"
	"ongfinder/internal/platform/config"
	"ongfinder/internal/platform/httpserver"
	"ongfinder/internal/platform/logger"
	"ongfinder/internal/platform/metrics"
	"ongfinder/internal/platform/postgres"
	redisclient "ongfinder/internal/platform/redis"
	poshandler "ongfinder/internal/position/handler"
	posservice "ongfinder/internal/position/service"
	posstore "ongfinder/internal/position/store"
	httptransport "ongfinder/internal/transport/http"
	volhandler "ongfinder/internal/volunteer/handler"
	volservice "ongfinder/internal/volunteer/service"
	volstore "ongfinder/internal/volunteer/store"
	"ongfinder/pkg/platform/audit"
	"ongfinder/pkg/platform/audit/publisher"
	kafkasink "ongfinder/pkg/platform/audit/publishers/kafka"
	auditmemory "ongfinder/pkg/platform/audit/store/memory"
	auditpostgres "ongfinder/pkg/platform/audit/store/postgres"
)

// The stores back several services, each consuming its own narrow interface.
// These unions let main hold one value per backend regardless of which
// implementation the configuration selected.
type organizationStore interface {
	authservice.OrganizationStore
	orgservice.OrganizationStore
	volservice.OrganizationStore
}

type volunteerStore interface {
	authservice.VolunteerStore
	volservice.Store
	appstore.VolunteerLookup
}

type positionStore interface {
	posservice.Store
	orgservice.PositionStore
}

type applicationStore interface {
	orgservice.ApplicationStore
	volservice.ApplicationStore
}

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx := context.Background()

	var (
		orgs         organizationStore
		volunteers   volunteerStore
		positions    positionStore
		applications applicationStore
		auditStore   audit.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err.Error())
			os.Exit(1)
		}
		orgs = orgstore.NewPostgres(db)
		volunteers = volstore.NewPostgres(db)
		positions = posstore.NewPostgres(db)
		applications = appstore.NewPostgres(db)
		auditStore = auditpostgres.New(db)
		log.Info("using postgres stores")
	} else {
		memVolunteers := volstore.NewInMemory()
		memOrgs := orgstore.NewInMemory(memVolunteers)
		memPositions := posstore.NewInMemory(memOrgs)
		orgs = memOrgs
		volunteers = memVolunteers
		positions = memPositions
		applications = appstore.NewInMemory(memPositions, memVolunteers)
		auditStore = auditmemory.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	var failures lockout.FailureStore = lockout.NewInMemory()
	if cfg.RedisAddr != "" {
		rdb, err := redisclient.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Error("redis connection failed", "error", err.Error())
			os.Exit(1)
		}
		defer rdb.Close()
		failures = lockout.NewRedis(rdb)
		log.Info("login throttle backed by redis")
	}
	throttle := lockout.New(failures, cfg.LoginMaxFailures, cfg.LoginWindow)

	publisherOpts := []publisher.Option{
		publisher.WithAsyncBuffer(256),
		publisher.WithLogger(log),
	}
	if len(cfg.AuditKafkaBrokers) > 0 {
		sink, err := kafkasink.New(ctx, cfg.AuditKafkaBrokers, cfg.AuditKafkaTopic, log)
		if err != nil {
			log.Error("kafka audit sink failed", "error", err.Error())
			os.Exit(1)
		}
		defer sink.Close()
		publisherOpts = append(publisherOpts, publisher.WithSink(sink))
		log.Info("audit events mirrored to kafka", "topic", cfg.AuditKafkaTopic)
	}
	auditPublisher := publisher.NewPublisher(auditStore, publisherOpts...)
	defer auditPublisher.Close()

	m := metrics.New()
	tokens := token.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer)

	authSvc := authservice.New(orgs, volunteers, tokens, cfg.TokenTTL,
		authservice.WithLogger(log),
		authservice.WithThrottle(throttle),
		authservice.WithAuditPublisher(auditPublisher),
		authservice.WithMetrics(m),
	)
	orgSvc := orgservice.New(orgs, positions, applications,
		orgservice.WithLogger(log),
		orgservice.WithAuditPublisher(auditPublisher),
		orgservice.WithMetrics(m),
	)
	posSvc := posservice.New(positions,
		posservice.WithLogger(log),
		posservice.WithAuditPublisher(auditPublisher),
	)
	volSvc := volservice.New(volunteers, orgs, positions, applications,
		volservice.WithLogger(log),
		volservice.WithAuditPublisher(auditPublisher),
		volservice.WithMetrics(m),
	)

	router := httptransport.NewRouter(log, m,
		authhandler.New(authSvc, log),
		orghandler.New(orgSvc, tokens, log),
		poshandler.New(posSvc, tokens, log),
		volhandler.New(volSvc, orgSvc, tokens, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
