package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gamerbot/gamerbot/engine"
	"github.com/gamerbot/gamerbot/service/internal/game"
	"github.com/gamerbot/gamerbot/service/internal/models"
)

const (
	colorInfo    = 0x5865F2
	colorSuccess = 0x57F287
	colorError   = 0xED4245
)

func infoEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Title: title, Description: description, Color: colorInfo}
}

func successEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Title: title, Description: description, Color: colorSuccess}
}

func errorEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Description: description, Color: colorError}
}

// formatHand renders dice as "1, 2, 3, 4".
func formatHand(faces []int) string {
	parts := make([]string, len(faces))
	for i, f := range faces {
		parts[i] = strconv.Itoa(f)
	}
	return strings.Join(parts, ", ")
}

func handEmbed(faces []int) *discordgo.MessageEmbed {
	return infoEmbed("Here is your hand:", formatHand(faces))
}

// bidLabel is the menu text for a bid, e.g. "2 dice of value 3".
func bidLabel(b engine.Bid) string { return b.String() }

// bidAnnouncement is the public line after a bid, e.g. "alice bids 2 dice with value 3".
func bidAnnouncement(name string, quantity, face int) string {
	return fmt.Sprintf("%s bids %d dice with value %d", name, quantity, face)
}

func callAnnouncement(name string) string {
	return name + " calls!"
}

// bidOptions builds the select menu entries for a turn: Call first when
// allowed, then every legal bid in catalog order.
func bidOptions(req game.ActionRequest) []discordgo.SelectMenuOption {
	opts := make([]discordgo.SelectMenuOption, 0, len(req.Bids)+1)
	if req.CanCall {
		opts = append(opts, discordgo.SelectMenuOption{Label: "Call", Value: valueCall})
	}
	for _, b := range req.Bids {
		opts = append(opts, discordgo.SelectMenuOption{Label: bidLabel(b), Value: strconv.Itoa(b.Ordinal())})
	}
	return opts
}

// outcomeEmbed renders the end of a duel. Hands are shown only after a call.
func outcomeEmbed(out game.Outcome) *discordgo.MessageEmbed {
	if out.Resolved() {
		w, _ := out.WinnerPlayer()
		embed := successEmbed(w.Name+" wins!", callSummary(out))
		for i, p := range out.Players {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  p.Name,
				Value: formatHand(out.Hands[i].Ints()),
			})
		}
		return embed
	}

	switch out.Reason {
	case engine.AbortTimeout:
		idle, _ := out.IdlePlayer()
		return errorEmbed(idle.Name + " failed to bid.")
	case engine.AbortDeliveryFailure:
		return errorEmbed("Couldn't deliver the hands, so the duel was called off.")
	case engine.AbortCancelled:
		return errorEmbed("The duel was cancelled.")
	default:
		return errorEmbed("The duel was interrupted.")
	}
}

func callSummary(out game.Outcome) string {
	caller, _ := out.CallerPlayer()
	bidder, _ := out.BidderPlayer()
	return fmt.Sprintf("%s called %s's bid of %s. There were %d.", caller.Name, bidder.Name, bidLabel(out.Bid), out.Actual)
}

func statsEmbed(name string, s models.PlayerStats) *discordgo.MessageEmbed {
	embed := infoEmbed("Liar's dice record for "+name, "")
	if s.Played() == 0 && s.Aborted == 0 {
		embed.Description = "No duels yet."
		return embed
	}
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Wins", Value: strconv.Itoa(s.Wins), Inline: true},
		{Name: "Losses", Value: strconv.Itoa(s.Losses), Inline: true},
		{Name: "Unfinished", Value: strconv.Itoa(s.Aborted), Inline: true},
	}
	if s.Played() > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Win rate %.0f%%", 100*float64(s.Wins)/float64(s.Played()))}
	}
	return embed
}
