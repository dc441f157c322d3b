package discord

import (
	"github.com/bwmarrin/discordgo"
)

const (
	commandDice  = "dice"
	commandStats = "dicestats"
	optionUser   = "user"
)

// Commands returns the slash command definitions the bot registers.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        commandDice,
			Description: "Duel someone else in a game of liar's dice/swindlestones",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        optionUser,
					Description: "The user to duel.",
					Required:    true,
				},
			},
		},
		{
			Name:        commandStats,
			Description: "Show a liar's dice record",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        optionUser,
					Description: "Whose record to show (defaults to you).",
				},
			},
		},
	}
}

// optionUserValue resolves a user option from the interaction payload.
func optionUserValue(data discordgo.ApplicationCommandInteractionData, name string) *discordgo.User {
	for _, opt := range data.Options {
		if opt.Name != name || opt.Type != discordgo.ApplicationCommandOptionUser {
			continue
		}
		id, _ := opt.Value.(string)
		if data.Resolved != nil {
			if u, ok := data.Resolved.Users[id]; ok {
				return u
			}
		}
		if id != "" {
			return &discordgo.User{ID: id}
		}
	}
	return nil
}
