package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"medgate/internal/audit"
	"medgate/internal/consent"
	"medgate/internal/gate"
	gateadapters "medgate/internal/gate/adapters"
	gatemetrics "medgate/internal/gate/metrics"
	"medgate/internal/identity"
	"medgate/internal/platform/config"
	"medgate/internal/platform/httpserver"
	"medgate/internal/platform/logger"
	appmetrics "medgate/internal/platform/metrics"
	"medgate/internal/record"
	httptransport "medgate/internal/transport/http"

	audithandler "medgate/internal/audit/handler"
	consenthandler "medgate/internal/consent/handler"
	gatehandler "medgate/internal/gate/handler"
	identityhandler "medgate/internal/identity/handler"
	recordhandler "medgate/internal/record/handler"
)

// main wires one instance of each component and keeps the server lifecycle
// small. Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	var (
		identityStore identity.Store
		consentStore  consent.Store
		recordStore   record.Store
		auditStore    audit.Store
		gateTx        gate.Tx
		consentTx     consent.Tx
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return err
		}
		identityStore = identity.NewPostgresStore(db)
		consentStore = consent.NewPostgresStore(db)
		recordStore = record.NewPostgresStore(db)
		auditStore = audit.NewPostgresStore(db)
		runner := newPostgresTx(db)
		gateTx = runner
		consentTx = runner
		log.Info("using postgres stores")
	} else {
		identityStore = identity.NewInMemoryStore()
		consentStore = consent.NewInMemoryStore()
		recordStore = record.NewInMemoryStore()
		auditStore = audit.NewInMemoryStore()
		gateTx = gate.NewSerialTx()
		consentTx = consent.NewSerialTx()
		log.Info("using in-memory stores")
	}

	subjects := identity.NewService(identityStore, log)
	ledger := consent.NewService(consentStore, subjects, consentTx, log)
	index := record.NewService(recordStore, subjects, log)
	trail := audit.NewService(auditStore, log)
	accessGate := gate.NewService(
		subjects,
		ledger,
		gateadapters.NewRecordAdapter(index),
		trail,
		gateTx,
		log,
		gatemetrics.New(),
	)

	metrics := appmetrics.New()
	router := httptransport.NewRouter(httptransport.Handlers{
		Identity: identityhandler.New(subjects, log, metrics),
		Consent:  consenthandler.New(ledger, log, metrics),
		Record:   recordhandler.New(index, log, metrics),
		Gate:     gatehandler.New(accessGate, log),
		Audit:    audithandler.New(trail, log),
	}, log)

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting medgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
