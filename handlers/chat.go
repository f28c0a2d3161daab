package handlers

import (
	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
)

// Chat adapts the gateway session for text channel sends.
type Chat struct {
	Session *discordgo.Session
}

func (c *Chat) Send(channelID, content string) {
	if _, err := c.Session.ChannelMessageSend(channelID, content); err != nil {
		log.WithError(err).WithFields(log.Fields{"channel": channelID}).Error("Sending message")
	}
}

// Status adapts the gateway session for presence updates.
type Status struct {
	Session *discordgo.Session
}

func (s *Status) SetPlaying(name string) {
	if err := s.Session.UpdateGameStatus(0, name); err != nil {
		log.WithError(err).Error("Updating presence")
	}
}
