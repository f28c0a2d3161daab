package config

import (
	"os"

	"github.com/spf13/viper"
)

func initDefaults() {
	viper.SetDefault("discord.token", os.Getenv("discord_token"))
	viper.SetDefault("discord.app.id", os.Getenv("discord_app_id"))

	viper.SetDefault("spotify.id", os.Getenv("spotify_id"))
	viper.SetDefault("spotify.secret", os.Getenv("spotify_secret"))
	viper.SetDefault("spotify.refresh", os.Getenv("spotify_refresh"))
	viper.SetDefault("spotify.market", "US")

	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("postgres.dsn", os.Getenv("postgres_dsn"))

	viper.SetDefault("search.limit", 5)
	viper.SetDefault("playback.idle_poll", 3)

	viper.SetDefault("cache.stream", 3600)
	viper.SetDefault("cache.album", 86400)

	viper.SetDefault("ffmpeg.path", "ffmpeg")
}
