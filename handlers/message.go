package handlers

import (
	"fmt"
	"regexp"
	"strings"

	"Nocturne/session"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// invitePermissions covers connect, speak, and message send/read.
const invitePermissions = 3148800

var mentionPattern = regexp.MustCompile(`^<@!?(\d+)>\s+(.+)$`)

// Router turns gateway message events into session traffic. The join
// and invite commands are handled here because they exist before any
// session does; everything else is forwarded to the registry.
type Router struct {
	registry *session.Registry
}

// MessageHandler handles message create events from the gateway.
func (r *Router) MessageHandler(s *discordgo.Session, m *discordgo.MessageCreate) {
	// If message is sent from the bot
	if m.Author.ID == s.State.User.ID {
		return
	}

	if match := mentionPattern.FindStringSubmatch(m.Content); match != nil && match[1] == s.State.User.ID {
		fields := strings.Fields(match[2])
		if len(fields) > 0 {
			switch fields[0] {
			case "join":
				r.handleJoin(s, m)
			case "invite":
				r.handleInvite(s, m)
			}
		}
	}

	r.registry.Dispatch(session.Message{
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		ChannelID:  m.ChannelID,
		Content:    m.Content,
	})
}

// handleJoin starts a session in the author's current voice channel.
func (r *Router) handleJoin(s *discordgo.Session, m *discordgo.MessageCreate) {
	vs, err := s.State.VoiceState(m.GuildID, m.Author.ID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("<@%s> We weren't able to find a voice channel with you inside it. Please join and try again.", m.Author.ID))
		return
	}

	_, err = r.registry.Create(m.GuildID, vs.ChannelID, m.ChannelID)
	if err == session.ErrAlreadyActive {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("<@%s> I'm already active in that voice channel.", m.Author.ID))
		return
	}
	if err != nil {
		log.WithError(err).Error("Creating session")
		return
	}

	log.WithFields(log.Fields{
		"guild":   m.GuildID,
		"channel": vs.ChannelID,
		"author":  m.Author.Username,
	}).Info("Session requested")
}

// handleInvite replies with the bot's OAuth invite link.
func (r *Router) handleInvite(s *discordgo.Session, m *discordgo.MessageCreate) {
	appID := viper.GetString("discord.app.id")
	url := fmt.Sprintf("https://discord.com/oauth2/authorize?client_id=%s&scope=bot&permissions=%d", appID, invitePermissions)
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("<@%s> You can invite me with this link: %s", m.Author.ID, url))
}
