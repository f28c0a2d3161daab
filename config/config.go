// Package config loads configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"strings"

	"github.com/Strum355/log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// InitConfig wires viper to the environment. Keys use dots in code and
// underscores in the environment, e.g. discord.token <- discord_token.
func InitConfig() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, proceeding with environment only.")
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	initDefaults()
	viper.AutomaticEnv()
}
