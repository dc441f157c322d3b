package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/gamerbot/gamerbot/service/internal/game"
	"github.com/gamerbot/gamerbot/service/internal/models"
	"github.com/sirupsen/logrus"
)

const valueCall = "call"

// ErrNoPrivateChannel means a player has no interaction to receive ephemeral messages on.
var ErrNoPrivateChannel = errors.New("no private channel for player")

// channelTable plays one duel in a text channel. Hands go out as ephemeral
// follow-ups on each player's own interaction; bids are taken through a
// select menu posted once per turn. It is used by a single duel goroutine.
type channelTable struct {
	api       Session
	channelID string
	router    *router
	log       *logrus.Entry

	// private maps player ID to the interaction their hand is sent on.
	private map[string]*discordgo.Interaction

	route      <-chan *discordgo.InteractionCreate
	routeKey   string
	promptID   string
	promptTurn int
	prompted   bool
}

var _ game.Table = (*channelTable)(nil)

func newChannelTable(api Session, channelID string, r *router, log *logrus.Entry) *channelTable {
	return &channelTable{
		api:       api,
		channelID: channelID,
		router:    r,
		log:       log,
		private:   make(map[string]*discordgo.Interaction),
	}
}

// SendPrivate delivers ev (a dealt hand) to its owner only.
func (t *channelTable) SendPrivate(ctx context.Context, to models.Player, ev game.GameEvent) error {
	ia, ok := t.private[to.ID]
	if !ok {
		return fmt.Errorf("%s: %w", to.ID, ErrNoPrivateChannel)
	}
	_, err := t.api.FollowupMessageCreate(ia, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{handEmbed(ev.Hand)},
		Flags:  discordgo.MessageFlagsEphemeral,
	}, discordgo.WithContext(ctx))
	return err
}

// AwaitAction posts the bid menu for a new turn and returns the next
// selection made on it. Anyone may click; the duel decides who counts.
func (t *channelTable) AwaitAction(ctx context.Context, req game.ActionRequest) (models.GameAction, error) {
	if t.route == nil {
		t.routeKey = bidRouteKey(req.RoundID)
		t.route = t.router.open(t.routeKey)
	}
	if !t.prompted || t.promptTurn != req.Turn {
		if err := t.postPrompt(ctx, req); err != nil {
			return models.GameAction{}, fmt.Errorf("post bid menu: %w", err)
		}
	}

	select {
	case <-ctx.Done():
		return models.GameAction{}, ctx.Err()
	case i := <-t.route:
		err := t.api.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		if err != nil {
			t.log.WithError(err).Debug("Failed to acknowledge bid selection.")
		}
		return selectionAction(req, i), nil
	}
}

// selectionAction converts a menu selection into a duel action.
func selectionAction(req game.ActionRequest, i *discordgo.InteractionCreate) models.GameAction {
	a := models.GameAction{RoundID: req.RoundID}
	if u := interactionUser(i); u != nil {
		a.PlayerID = u.ID
	}
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return a
	}
	if values[0] == valueCall {
		a.Kind = models.ActionCall
		return a
	}
	ord, err := strconv.Atoi(values[0])
	if err != nil {
		a.Kind = models.ActionKind(values[0])
		return a
	}
	a.Kind = models.ActionBid
	a.BidOrdinal = ord
	return a
}

func (t *channelTable) postPrompt(ctx context.Context, req game.ActionRequest) error {
	msg, err := t.api.ChannelMessageSendComplex(t.channelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("Place your bid, %s!", req.Player.Name),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    customID(t.routeKey, actionSelect),
					Placeholder: "Select bid...",
					Options:     bidOptions(req),
				},
			}},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	t.promptID = msg.ID
	t.promptTurn = req.Turn
	t.prompted = true
	return nil
}

// settlePrompt replaces the open menu with a line of text.
func (t *channelTable) settlePrompt(ctx context.Context, content string) {
	if !t.prompted {
		return
	}
	t.prompted = false
	components := []discordgo.MessageComponent{}
	edit := discordgo.NewMessageEdit(t.channelID, t.promptID).SetContent(content)
	edit.Components = &components
	if _, err := t.api.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		t.log.WithError(err).Warn("Failed to update bid menu.")
	}
}

// Broadcast announces accepted bids and calls on the turn's menu message.
func (t *channelTable) Broadcast(ctx context.Context, ev game.GameEvent) {
	if ev.User == nil {
		return
	}
	switch ev.Type {
	case game.EventPlayerBid:
		if ev.Bid != nil {
			t.settlePrompt(ctx, bidAnnouncement(ev.User.Name, ev.Bid.Quantity, ev.Bid.Face))
		}
	case game.EventPlayerCall:
		t.settlePrompt(ctx, callAnnouncement(ev.User.Name))
	}
}

// Report closes the menu and posts the result.
func (t *channelTable) Report(ctx context.Context, out game.Outcome) error {
	if t.route != nil {
		t.router.close(t.routeKey)
	}
	embed := outcomeEmbed(out)
	t.settlePrompt(ctx, embed.Description)

	_, err := t.api.ChannelMessageSendComplex(t.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	return err
}
