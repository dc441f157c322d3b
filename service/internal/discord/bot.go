package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gamerbot/gamerbot/service/internal/game"
	"github.com/gamerbot/gamerbot/service/internal/models"
	"github.com/sirupsen/logrus"
)

// shutdownGrace bounds how long Run waits for cancelled duels to report.
const shutdownGrace = 15 * time.Second

// Records answers /dicestats.
type Records interface {
	Stats(ctx context.Context, playerID string) (models.PlayerStats, error)
}

// Options configures a Bot.
type Options struct {
	Token            string
	GuildID          string // empty registers commands globally
	ChallengeTimeout time.Duration
}

// Bot wires Discord interactions to the duel service.
type Bot struct {
	session *discordgo.Session // nil in tests
	api     Session
	duels   *game.Service
	stats   Records // optional
	router  *router
	log     *logrus.Entry

	guildID          string
	challengeTimeout time.Duration

	ctx context.Context // cancelled on shutdown; parent of every duel
	wg  sync.WaitGroup
}

// New creates a bot session. Call Run to connect.
func New(opts Options, duels *game.Service, stats Records, log *logrus.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	b := newBot(s, duels, stats, log)
	b.session = s
	b.guildID = opts.GuildID
	if opts.ChallengeTimeout > 0 {
		b.challengeTimeout = opts.ChallengeTimeout
	}
	return b, nil
}

func newBot(api Session, duels *game.Service, stats Records, log *logrus.Logger) *Bot {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bot{
		api:              api,
		duels:            duels,
		stats:            stats,
		router:           newRouter(),
		log:              log.WithField("component", "discord"),
		challengeTimeout: 60 * time.Second,
		ctx:              context.Background(),
	}
}

// Run connects, registers commands and serves interactions until ctx is
// cancelled. Running duels are cancelled with ctx and given time to report.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.log.WithField("user", r.User.Username).Info("Connected to Discord.")
	})
	b.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		b.handleInteraction(i)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.session.Close()

	if _, err := b.api.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.guildID, Commands()); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	b.log.WithField("guild", b.guildID).Info("Commands registered.")

	<-ctx.Done()
	b.log.WithField("duels", b.duels.Active()).Info("Shutting down, cancelling duels.")
	return b.drain(shutdownGrace)
}

// drain waits for challenge and duel goroutines to finish.
func (b *Bot) drain(grace time.Duration) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(grace):
		return fmt.Errorf("%d duels still running after %s", b.duels.Active(), grace)
	}
}

func (b *Bot) handleInteraction(i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case commandDice:
			b.handleDice(i)
		case commandStats:
			b.handleStats(i)
		}
	case discordgo.InteractionMessageComponent:
		if b.router.dispatch(i) {
			return
		}
		if err := ephemeral(b.api, i, errorEmbed("This game is no longer active.")); err != nil {
			b.log.WithError(err).Debug("Failed to answer stale component.")
		}
	}
}

func (b *Bot) handleDice(i *discordgo.InteractionCreate) {
	challenger := interactionUser(i)
	target := optionUserValue(i.ApplicationCommandData(), optionUser)
	if reason, ok := challengeTarget(challenger, target); !ok {
		if err := ephemeral(b.api, i, errorEmbed(reason)); err != nil {
			b.log.WithError(err).Warn("Failed to reject challenge.")
		}
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.runChallenge(b.ctx, i, challenger, target)
	}()
}

// runChallenge negotiates a duel and plays it if accepted.
func (b *Bot) runChallenge(ctx context.Context, i *discordgo.InteractionCreate, challenger, target *discordgo.User) {
	log := b.log.WithFields(logrus.Fields{"challenger": challenger.ID, "opponent": target.ID, "channel": i.ChannelID})

	accept, result, err := b.challenge(ctx, i, challenger, target)
	if err != nil {
		log.WithError(err).Warn("Challenge failed.")
	}
	log.WithField("result", result).Info("Challenge answered.")
	if result != challengeAccepted {
		return
	}

	table := newChannelTable(b.api, i.ChannelID, b.router, log)
	table.private[challenger.ID] = i.Interaction
	table.private[target.ID] = accept.Interaction
	b.duels.RunDuel(ctx, table, player(challenger), player(target))
}

func (b *Bot) handleStats(i *discordgo.InteractionCreate) {
	u := optionUserValue(i.ApplicationCommandData(), optionUser)
	if u == nil {
		u = interactionUser(i)
	}
	if b.stats == nil {
		if err := ephemeral(b.api, i, errorEmbed("Stats are not available right now.")); err != nil {
			b.log.WithError(err).Warn("Failed to answer stats.")
		}
		return
	}

	ctx, cancel := context.WithTimeout(b.ctx, 3*time.Second)
	defer cancel()
	st, err := b.stats.Stats(ctx, u.ID)
	if err != nil {
		b.log.WithError(err).WithField("user", u.ID).Error("Failed to load stats.")
		if err := ephemeral(b.api, i, errorEmbed("Couldn't load that record.")); err != nil {
			b.log.WithError(err).Warn("Failed to answer stats.")
		}
		return
	}

	name := u.Mention()
	if u.Username != "" {
		name = displayName(u)
	}
	err = b.api.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{statsEmbed(name, st)}},
	})
	if err != nil {
		b.log.WithError(err).Warn("Failed to answer stats.")
	}
}

func player(u *discordgo.User) models.Player {
	return models.Player{ID: u.ID, Name: displayName(u), Bot: u.Bot}
}
