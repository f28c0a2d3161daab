package main

import (
	"Nocturne/config"
	"Nocturne/db_client"
	"Nocturne/handlers"
	"Nocturne/history"
	"Nocturne/music"
	"Nocturne/pipeline"
	"Nocturne/redis_client"
	"Nocturne/session"
	"Nocturne/voice"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

var production *bool

func main() {
	// Sets Flag to Debug Mode
	production = flag.Bool("p", false, "enables production with json logging")
	flag.Parse()
	if *production {
		log.InitJSONLogger(&log.Config{Output: os.Stdout})
	} else {
		log.InitSimpleLogger(&log.Config{Output: os.Stdout})
	}

	// Sets up Configurations for Viper
	config.InitConfig()

	// Creates Discord Bot Session
	s, err := discordgo.New("Bot " + viper.GetString("discord.token"))
	if err != nil {
		log.WithError(err).Error("Creating bot session")
		return
	}

	// The bot's own user ID arrives with the Ready event; the registry
	// needs it before any command can be routed.
	ready := make(chan string, 1)
	s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		ready <- r.User.ID
	})

	// Configuring Intents
	handlers.Configure(s)

	// Connecting to Discord Server Gateway
	if err := s.Open(); err != nil {
		log.WithError(err).Error("Opening gateway connection")
		return
	}
	log.Info("Bot is initialising")

	redis_client.Init()

	var recorder session.History
	if db := db_client.Init(); db != nil {
		rec, err := history.NewRecorder(db)
		if err != nil {
			log.WithError(err).Error("Setting up play history")
		} else {
			recorder = rec
		}
	}

	spotify, err := music.NewSpotify(context.Background(), music.SpotifyConfig{
		ID:           viper.GetString("spotify.id"),
		Secret:       viper.GetString("spotify.secret"),
		RefreshToken: viper.GetString("spotify.refresh"),
		Market:       viper.GetString("spotify.market"),
	}, music.NewResolver())
	if err != nil {
		log.WithError(err).Error("Creating music provider")
		s.Close()
		return
	}

	registry := session.NewRegistry(session.Deps{
		BotID:       <-ready,
		Chat:        &handlers.Chat{Session: s},
		Presence:    &handlers.Status{Session: s},
		Dialer:      voice.NewDialer(s),
		Provider:    music.NewManager(spotify, redis_client.RDB),
		Pipeline:    pipeline.NewFFmpeg(),
		History:     recorder,
		SearchLimit: viper.GetInt("search.limit"),
		IdlePoll:    time.Duration(viper.GetInt("playback.idle_poll")) * time.Second,
	})

	handlers.Register(s, registry)
	log.Info("Bot has registered handlers")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc
	gracefulShutdown(s, registry)
}

// gracefulShutdown handles cleaning up after the bot is shutdown
func gracefulShutdown(s *discordgo.Session, registry *session.Registry) {
	log.Info("Starting graceful shutdown...")

	registry.CloseAll()

	for _, vc := range s.VoiceConnections {
		if vc != nil {
			vc.Disconnect()
		}
	}

	time.Sleep(time.Second)

	s.Close()
	log.Info("Cleanly exiting")
}
