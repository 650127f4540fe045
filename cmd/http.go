package cmd

import (
	"context"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/justinas/alice"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"log"
	"log/slog"
	"net/http"
	"os"
	"repair-ticket/common/constant"
	inboundCron "repair-ticket/inbound/cron"
	inboundHttp "repair-ticket/inbound/http"
	"repair-ticket/outbound/drive"
	"repair-ticket/outbound/line"
	"repair-ticket/outbound/monday"
	"repair-ticket/outbound/sqlgen"
	"runtime/pprof"
	"time"
)

func runHttpServerCmd(ctx context.Context) {
	cfg := newCfg("env")

	if cfg.GetString("env") == "dev" {
		cpu, err := os.Create("http-cpu.prof")
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer cpu.Close()

		err = pprof.StartCPUProfile(cpu)
		if err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()

		mem, err := os.Create("http-mem.prof")
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer mem.Close()

		err = pprof.WriteHeapProfile(mem)
		if err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}

	shutdownTracer := newTracer(ctx, cfg)
	defer shutdownTracer(context.Background())

	validate := validator.New()

	db := newDb(cfg)
	defer db.Close()

	cacheClient := newRedis(cfg)
	defer cacheClient.Close()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	createStreamWorkQueue(ctx, cfg, js)

	querier := sqlgen.New(db)

	mondayCfg := monday.NewConfig(cfg)
	if !mondayCfg.Enabled() {
		slog.WarnContext(ctx, "monday.com is not configured, board sync disabled")
	}
	mondayClient := monday.NewClient(mondayCfg)

	var fetcher monday.FileFetcher
	driveFetcher, err := drive.NewFetcher(ctx, drive.NewConfig(cfg))
	if err != nil {
		slog.WarnContext(ctx, "attachment fetcher unavailable, uploads disabled", slog.Any(constant.LogFieldErr, err))
	} else {
		fetcher = driveFetcher
	}
	syncer := monday.NewSyncer(mondayCfg, mondayClient, fetcher)

	lineCfg := line.NewConfig(cfg)
	formatter := line.NewFormatter(lineCfg.LiffID)

	sessions := inboundHttp.NewSessionStore(cfg, cacheClient)

	mux := http.NewServeMux()

	inboundHttp.RegisterHealthHttp(mux, db, cacheClient)
	inboundHttp.RegisterAuthHttp(mux, cfg, querier, sessions, js, validate, formatter)
	inboundHttp.RegisterTicketHttp(mux, db, querier, sessions, js, syncer, validate, formatter)
	inboundHttp.RegisterFormHttp(mux, db, querier, js, syncer, validate, formatter)
	inboundHttp.RegisterMondayHttp(mux, mondayCfg, db, querier, cacheClient, sessions, js, mondayClient, formatter)
	inboundHttp.RegisterLineHttp(mux, lineCfg, querier, js, validate, formatter)
	inboundHttp.RegisterUserHttp(mux, querier, sessions)
	inboundHttp.RegisterCatalogHttp(mux, querier, validate)

	chain := alice.New(
		inboundHttp.RecoverMiddleware,
		inboundHttp.CorsMiddleware(cfg.GetStringSlice("server.cors.allowed_origins")),
		inboundHttp.TimeoutMiddleware(cfg.GetDuration("server.request_timeout")),
	)

	syncCron := &inboundCron.SyncCron{
		Cfg:     cfg,
		Cache:   cacheClient,
		Querier: querier,
		Syncer:  syncer,
		TimeNow: time.Now,
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.GetInt("server.port")),
		Handler:           otelhttp.NewHandler(chain.Then(mux), "http.server"),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      cfg.GetDuration("server.request_timeout") + 5*time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalln("unable to start server", err)
		}
	}()

	slog.Info("http server started", slog.Int("port", cfg.GetInt("server.port")))

	go func() {
		syncCron.Start(ctx)
	}()

	<-ctx.Done()

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Fatalln("unable to shutdown server", err)
	}

	slog.Info("http server stopped")
}
