package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"hackhub/internal/audit"
	"hackhub/internal/files"
	judgemetrics "hackhub/internal/judging/metrics"
	judgeservice "hackhub/internal/judging/service"
	"hackhub/internal/judging/store/leaderboard"
	ratingstore "hackhub/internal/judging/store/rating"
	"hackhub/internal/platform/config"
	"hackhub/internal/platform/httpserver"
	"hackhub/internal/platform/logger"
	platformmetrics "hackhub/internal/platform/metrics"
	platformredis "hackhub/internal/platform/redis"
	regmetrics "hackhub/internal/registration/metrics"
	regservice "hackhub/internal/registration/service"
	teamstore "hackhub/internal/registration/store/team"
	httptransport "hackhub/internal/transport/http"
)

// main wires stores, services, and the HTTP surface. Which backends run is
// driven entirely by configuration: no Postgres URL means in-memory stores,
// no brokers means the in-process event sink.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var health []func() error

	var (
		teams      regservice.TeamStore
		teamReader judgeservice.TeamReader
		ratings    judgeservice.RatingStore
	)
	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("failed to open postgres", "error", err.Error())
			os.Exit(1)
		}
		if err := db.Ping(); err != nil {
			log.Error("failed to reach postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		store := teamstore.NewPostgres(db)
		teams, teamReader = store, store
		ratings = ratingstore.NewPostgres(db)
		health = append(health, db.Ping)
	} else {
		log.Info("no postgres configured, using in-memory stores")
		store := teamstore.NewInMemory()
		teams, teamReader = store, store
		ratings = ratingstore.NewInMemory()
	}

	var judgeOpts []judgeservice.Option
	judgeOpts = append(judgeOpts, judgeservice.WithLogger(log), judgeservice.WithMetrics(judgemetrics.New()))

	rdb, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
		judgeOpts = append(judgeOpts, judgeservice.WithCache(leaderboard.NewCache(rdb.Client, cfg.LeaderboardCacheTTL)))
		health = append(health, func() error { return rdb.Health(context.Background()) })
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	var sink audit.Store
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaStore(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err.Error())
			os.Exit(1)
		}
		defer kafka.Close()

		// Broker delivery runs off the request path.
		inbox := make(chan audit.Event, 256)
		go func() { _ = audit.NewWorker(kafka, inbox, log).Run(workerCtx) }()
		sink = audit.NewChannelSink(inbox, log)
	} else {
		log.Info("no kafka brokers configured, using in-process event sink")
		sink = audit.NewInMemoryStore()
	}
	publisher := audit.NewPublisher(sink)

	registry := files.NewInMemoryRegistry()

	// Team reads flow into judging through the store; rating cleanup flows
	// back into registration through the judging service.
	judging := judgeservice.New(ratings, teamReader, judgeOpts...)
	registration := regservice.New(teams, judging, registry,
		regservice.WithLogger(log),
		regservice.WithPublisher(publisher),
		regservice.WithMetrics(regmetrics.New()),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Metrics:      platformmetrics.New(),
		Registration: registration,
		Judging:      judging,
		Files:        registry,
		Health:       health,
	})

	srv := httpserver.New(cfg, router)

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
	if err := httpserver.Shutdown(srv, cfg); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
