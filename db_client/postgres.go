package db_client

import (
	"time"

	"github.com/Strum355/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init connects to Postgres, waiting for the database to come up.
// Returns nil when no connection could be made; callers treat that as
// play history being disabled.
func Init() *gorm.DB {
	dsn := viper.GetString("postgres.dsn")
	if dsn == "" {
		log.Info("No Postgres DSN configured, play history disabled")
		return nil
	}

	var db *gorm.DB
	var err error
	for range 10 {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			sqlDB, _ := db.DB()
			if pingErr := sqlDB.Ping(); pingErr == nil {
				return db
			}
		}
		log.Info("Waiting for Postgres to be ready...")
		time.Sleep(time.Second)
	}

	log.WithError(err).Error("Unable to connect to database, play history disabled")
	return nil
}
