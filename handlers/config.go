package handlers

import (
	"Nocturne/session"

	"github.com/bwmarrin/discordgo"
)

// Configure sets gateway intents before the connection opens. Handlers
// run synchronously so messages in one channel are processed in arrival
// order.
func Configure(s *discordgo.Session) {
	s.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
	s.SyncEvents = true
}

// Register attaches the message router once the registry is ready.
func Register(s *discordgo.Session, registry *session.Registry) {
	r := &Router{registry: registry}
	s.AddHandler(r.MessageHandler)
}
