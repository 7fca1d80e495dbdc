package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/defendnet/backend/checksrvc"
	"github.com/defendnet/backend/conf"
	"github.com/defendnet/backend/flagsrvc"
	"github.com/defendnet/backend/http"
	"github.com/defendnet/backend/roundsrvc"
	"github.com/defendnet/backend/scorecache"
	"github.com/defendnet/backend/scoresrvc"
	"github.com/defendnet/backend/settings"
	"github.com/defendnet/backend/teamsrvc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, conf.GetPgConnStrFromEnv())
	if err != nil {
		slog.Error("failed to create postgres pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var cache scorecache.Invalidator
	redisConf := conf.GetRedisConfigFromEnv()
	redisCache, err := scorecache.NewRedisCache(redisConf.Addr, redisConf.Password, redisConf.DB)
	if err != nil {
		slog.Warn("redis unavailable, running without cache invalidation", "error", err)
		cache = scorecache.Noop{}
	} else {
		defer redisCache.Close()
		cache = redisCache
	}

	teamRepo := teamsrvc.NewPgRepo(pool)
	roundRepo := roundsrvc.NewPgRepo(pool)
	flagRepo := flagsrvc.NewPgRepo(pool)
	adjustmentRepo := scoresrvc.NewPgAdjustmentRepo(pool)
	settingsRepo := settings.NewPgRepo(pool)

	schedCfg := conf.GetSchedulerConfigFromEnv()
	registry, err := checksrvc.LoadRegistry(
		conf.GetChecksFileFromEnv(), conf.GetChecksBinDirFromEnv())
	if err != nil {
		slog.Error("failed to load check definitions", "error", err)
		os.Exit(1)
	}
	runner := checksrvc.NewRunner(
		registry,
		checksrvc.NewSelector(),
		checksrvc.NewExecutor(slog.Default()),
		teamRepo,
		schedCfg.CheckTimeout,
	)

	scoreSrvc := scoresrvc.NewSrvc(teamRepo, roundRepo, flagRepo, adjustmentRepo, cache)
	flagSrvc := flagsrvc.NewSrvc(flagRepo, teamRepo, settingsRepo, scoreSrvc, cache)

	scheduler := roundsrvc.NewScheduler(teamRepo, roundRepo, runner, scoreSrvc, cache,
		roundsrvc.Config{
			Interval:      schedCfg.Interval,
			RoundDuration: schedCfg.RoundDuration,
			Workers:       schedCfg.Workers,
		})
	go func() {
		if err := scheduler.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("scheduler stopped", "error", err)
		}
	}()

	httpServer := http.NewHttpServer(flagSrvc, scoreSrvc)
	address := conf.GetHttpAddressFromEnv()
	slog.Info("starting server", "address", address)
	err = httpServer.Start(address)
	slog.Error("server stopped", "error", err)
}
