package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Redis    Redis
	CTF      CTF
	Session  Session
	Upload   Upload
}

type Server struct {
	Port string
}

type Database struct {
	Driver   string // "postgres", "mysql" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string `json:"-"`
	Name     string
}

type Redis struct {
	Addr     string
	Password string `json:"-"`
	DB       int
	CacheTTL time.Duration
}

// CTF holds the competition window and the visibility switches the challenge
// list consults. A zero Start or End leaves that side of the window open.
type CTF struct {
	Start                      time.Time
	End                        time.Time
	ViewAfterCTF               bool
	VerifyEmails               bool
	ViewChallengesUnregistered bool
}

type Session struct {
	Secret string `json:"-"`
}

type Upload struct {
	Folder string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("UPLOAD_FOLDER", "./uploads")
	viper.SetDefault("CHALLENGE_CACHE_TTL", "15s")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Driver = viper.GetString("DATABASE_DRIVER")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.Redis.CacheTTL = viper.GetDuration("CHALLENGE_CACHE_TTL")

	config.CTF.Start = viper.GetTime("CTF_START")
	config.CTF.End = viper.GetTime("CTF_END")
	config.CTF.ViewAfterCTF = viper.GetBool("VIEW_AFTER_CTF")
	config.CTF.VerifyEmails = viper.GetBool("VERIFY_EMAILS")
	config.CTF.ViewChallengesUnregistered = viper.GetBool("VIEW_CHALLENGES_UNREGISTERED")

	config.Session.Secret = viper.GetString("SESSION_SECRET")
	config.Upload.Folder = viper.GetString("UPLOAD_FOLDER")

	if config.Session.Secret == "" {
		log.Warn().Msg("SESSION_SECRET is empty, every session token will be rejected")
	}

	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil
}
