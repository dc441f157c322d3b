package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

type challengeResult int

const (
	challengeAccepted challengeResult = iota
	challengeDeclined
	challengeExpired
	challengeCancelled
)

func (r challengeResult) String() string {
	switch r {
	case challengeAccepted:
		return "accepted"
	case challengeDeclined:
		return "declined"
	case challengeExpired:
		return "expired"
	case challengeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// challengeTarget validates a /dice target. It returns a user-facing reason
// when the challenge is not allowed.
func challengeTarget(challenger, target *discordgo.User) (string, bool) {
	switch {
	case target == nil:
		return "Pick someone to duel.", false
	case target.Bot:
		return "You can't challenge a bot.", false
	case target.ID == challenger.ID:
		return "You can't challenge yourself.", false
	}
	return "", true
}

func challengeButtons(key string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Accept", Style: discordgo.SuccessButton, CustomID: customID(key, actionAccept)},
			discordgo.Button{Label: "Decline", Style: discordgo.DangerButton, CustomID: customID(key, actionDecline)},
		}},
	}
}

// challenge posts accept/decline buttons addressed to target and waits for
// their answer. On acceptance it returns the target's button interaction,
// which carries their private follow-ups for the rest of the duel.
func (b *Bot) challenge(ctx context.Context, i *discordgo.InteractionCreate, challenger, target *discordgo.User) (*discordgo.InteractionCreate, challengeResult, error) {
	key := routeKey(kindChallenge, uuid.NewString())
	clicks := b.router.open(key)
	defer b.router.close(key)

	err := b.api.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         target.Mention() + ", " + challenger.Mention() + " challenges you to liar's dice! 🎲",
			Components:      challengeButtons(key),
			AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{target.ID}},
		},
	})
	if err != nil {
		return nil, challengeCancelled, err
	}

	timer := time.NewTimer(b.challengeTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			b.closeChallenge(i, "The challenge was cancelled.")
			return nil, challengeCancelled, ctx.Err()
		case <-timer.C:
			b.closeChallenge(i, displayName(target)+" didn't answer the challenge.")
			return nil, challengeExpired, nil
		case click := <-clicks:
			u := interactionUser(click)
			if u == nil || u.ID != target.ID {
				if err := ephemeral(b.api, click, errorEmbed("This challenge isn't for you.")); err != nil {
					b.log.WithError(err).Debug("Failed to refuse bystander click.")
				}
				continue
			}
			_, action, _ := splitCustomID(click.MessageComponentData().CustomID)
			if action == actionAccept {
				b.answerChallenge(click, displayName(target)+" accepted! Check your hands.")
				return click, challengeAccepted, nil
			}
			b.answerChallenge(click, displayName(target)+" declined the duel.")
			return nil, challengeDeclined, nil
		}
	}
}

// answerChallenge replaces the challenge message in response to a button click.
func (b *Bot) answerChallenge(click *discordgo.InteractionCreate, content string) {
	err := b.api.InteractionRespond(click.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		b.log.WithError(err).Warn("Failed to update challenge message.")
	}
}

// closeChallenge edits the original challenge response when no one clicked.
func (b *Bot) closeChallenge(i *discordgo.InteractionCreate, content string) {
	components := []discordgo.MessageComponent{}
	_, err := b.api.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &components,
	})
	if err != nil {
		b.log.WithError(err).Warn("Failed to close challenge message.")
	}
}
