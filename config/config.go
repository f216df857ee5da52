package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/wfunc/drawguess/logger"
	"github.com/wfunc/drawguess/persistence"
	"github.com/wfunc/drawguess/room"
	"github.com/wfunc/drawguess/words"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	HTTPAddress    string        `mapstructure:"http_address"`
	RPCAddress     string        `mapstructure:"rpc_address"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	Heartbeat      time.Duration `mapstructure:"heartbeat"`
	ShutdownGrace  time.Duration `mapstructure:"shutdown_grace"`
}

type GameConfig struct {
	MaxPlayers        int           `mapstructure:"max_players"`
	MaxRounds         int           `mapstructure:"max_rounds"`
	RoundSeconds      int           `mapstructure:"round_seconds"`
	RoundEndDelay     time.Duration `mapstructure:"round_end_delay"`
	WordChoice        bool          `mapstructure:"word_choice"`
	ChoiceCount       int           `mapstructure:"choice_count"`
	WordChoiceTimeout time.Duration `mapstructure:"word_choice_timeout"`
	MaxMessageLength  int           `mapstructure:"max_message_length"`
	Words             []string      `mapstructure:"words"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type DatabaseConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func setDefaults(v *viper.Viper) {
	defaults := room.DefaultSettings()

	v.SetDefault("server.http_address", ":3000")
	v.SetDefault("server.rpc_address", "")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.heartbeat", 30*time.Second)
	v.SetDefault("server.shutdown_grace", 10*time.Second)

	v.SetDefault("game.max_players", defaults.MaxPlayers)
	v.SetDefault("game.max_rounds", defaults.MaxRounds)
	v.SetDefault("game.round_seconds", int(defaults.RoundTime/time.Second))
	v.SetDefault("game.round_end_delay", defaults.RoundEndDelay)
	v.SetDefault("game.word_choice", defaults.WordChoice)
	v.SetDefault("game.choice_count", defaults.ChoiceCount)
	v.SetDefault("game.word_choice_timeout", defaults.WordChoiceTimeout)
	v.SetDefault("game.max_message_length", defaults.MaxMessageLength)
	v.SetDefault("game.words", words.DefaultWords)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.dbname", "drawguess")
	v.SetDefault("database.postgres.sslmode", "disable")
}

// LoadConfig reads path/.env and path/config.yaml, both optional, then lets
// environment variables override any key (GAME_MAX_ROUNDS for game.max_rounds).
func LoadConfig(path string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(path, ".env")); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// loadDotEnv does not overwrite variables that are already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// GameSettings converts the game section into room settings.
func (c *Config) GameSettings() room.Settings {
	s := room.DefaultSettings()
	g := c.Game
	if g.MaxPlayers > 0 {
		s.MaxPlayers = g.MaxPlayers
	}
	if g.MaxRounds > 0 {
		s.MaxRounds = g.MaxRounds
	}
	if g.RoundSeconds > 0 {
		s.RoundTime = time.Duration(g.RoundSeconds) * time.Second
	}
	if g.RoundEndDelay > 0 {
		s.RoundEndDelay = g.RoundEndDelay
	}
	s.WordChoice = g.WordChoice
	if g.ChoiceCount > 0 {
		s.ChoiceCount = g.ChoiceCount
	}
	if g.WordChoiceTimeout >= 0 {
		s.WordChoiceTimeout = g.WordChoiceTimeout
	}
	if g.MaxMessageLength > 0 {
		s.MaxMessageLength = g.MaxMessageLength
	}
	return s
}

func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}

func (c *Config) PostgresOptions() persistence.Options {
	p := c.Database.Postgres
	return persistence.Options{
		Host:     p.Host,
		Port:     p.Port,
		User:     p.User,
		Password: p.Password,
		DBName:   p.DBName,
		SSLMode:  p.SSLMode,
	}
}
