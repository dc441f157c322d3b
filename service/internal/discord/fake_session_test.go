package discord

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// fakeSession records every call the bot makes.
type fakeSession struct {
	mu        sync.Mutex
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	followups []*discordgo.WebhookParams
	sends     []*discordgo.MessageSend
	msgEdits  []*discordgo.MessageEdit
	commands  []*discordgo.ApplicationCommand
	nextID    int
	err       error
}

func (f *fakeSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return f.err
}

func (f *fakeSession) InteractionResponseEdit(_ *discordgo.Interaction, e *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, e)
	return &discordgo.Message{}, f.err
}

func (f *fakeSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, p *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, p)
	return &discordgo.Message{}, f.err
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, data)
	f.nextID++
	return &discordgo.Message{ID: "m" + strconv.Itoa(f.nextID), ChannelID: channelID}, f.err
}

func (f *fakeSession) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgEdits = append(f.msgEdits, m)
	return &discordgo.Message{ID: m.ID}, f.err
}

func (f *fakeSession) ApplicationCommandBulkOverwrite(_ string, _ string, cmds []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = cmds
	return cmds, f.err
}

func (f *fakeSession) counts() (responses, followups, sends, msgEdits, edits int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.responses), len(f.followups), len(f.sends), len(f.msgEdits), len(f.edits)
}

func (f *fakeSession) sendCount() int {
	_, _, n, _, _ := f.counts()
	return n
}

func (f *fakeSession) lastSend() *discordgo.MessageSend {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sends[len(f.sends)-1]
}

func (f *fakeSession) response(i int) *discordgo.InteractionResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.responses[i]
}

func (f *fakeSession) editContents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.msgEdits {
		if e.Content != nil {
			out = append(out, *e.Content)
		}
	}
	return out
}

func user(id, name string) *discordgo.User {
	return &discordgo.User{ID: id, Username: name}
}

func slashCommand(from *discordgo.User, name string, target *discordgo.User) *discordgo.InteractionCreate {
	data := discordgo.ApplicationCommandInteractionData{Name: name}
	if target != nil {
		data.Options = []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: optionUser, Type: discordgo.ApplicationCommandOptionUser, Value: target.ID},
		}
		data.Resolved = &discordgo.ApplicationCommandInteractionDataResolved{
			Users: map[string]*discordgo.User{target.ID: target},
		}
	}
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "slash-" + from.ID,
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "chan",
		Member:    &discordgo.Member{User: from},
		Data:      data,
	}}
}

func component(from *discordgo.User, customID string, values ...string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "click-" + from.ID,
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: "chan",
		Member:    &discordgo.Member{User: from},
		Data: discordgo.MessageComponentInteractionData{
			CustomID: customID,
			Values:   values,
		},
	}}
}
