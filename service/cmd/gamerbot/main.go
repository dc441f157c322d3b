// Command gamerbot runs the liar's dice Discord bot.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gamerbot/gamerbot/service/internal/cache"
	"github.com/gamerbot/gamerbot/service/internal/config"
	"github.com/gamerbot/gamerbot/service/internal/database"
	"github.com/gamerbot/gamerbot/service/internal/discord"
	"github.com/gamerbot/gamerbot/service/internal/feed"
	"github.com/gamerbot/gamerbot/service/internal/game"
	"github.com/gamerbot/gamerbot/service/internal/random"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config.")
	}
	log := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("gamerbot stopped.")
	}
	log.Info("gamerbot stopped.")
}

func openStore(ctx context.Context, cfg config.Config, log *logrus.Logger) (database.Store, error) {
	if cfg.DatabaseURL != "" {
		log.Info("Archiving duels to Postgres.")
		return database.ConnectPostgres(ctx, cfg.DatabaseURL)
	}
	log.WithField("path", cfg.SQLitePath).Info("Archiving duels to SQLite.")
	return database.OpenSQLite(ctx, cfg.SQLitePath)
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	faces, err := random.New()
	if err != nil {
		return err
	}
	duels := game.NewService(faces, log)
	duels.TurnTimeout = cfg.TurnTimeout
	duels.Archive = store

	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		duels.Historian = cache.NewHistorian(rdb)
		log.Info("Recording duel actions to Redis.")
	}

	var hub *feed.Hub
	if cfg.FeedAddr != "" {
		hub = feed.NewHub(cfg.FeedOrigins, log)
		duels.OnEvent = hub.Publish
	}

	bot, err := discord.New(discord.Options{
		Token:            cfg.DiscordToken,
		GuildID:          cfg.GuildID,
		ChallengeTimeout: cfg.ChallengeTimeout,
	}, duels, store, log)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Run(ctx) })
	if hub != nil {
		g.Go(func() error { return hub.ListenAndServe(ctx, cfg.FeedAddr) })
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
