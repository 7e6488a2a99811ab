package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string `yaml:"log-level" env-default:"info"`
	TCPPort           string `yaml:"tcp-port" env-default:"4444"`
	HTTPPort          string `yaml:"http-port" env-default:"9090"`
	SocketPort        string `yaml:"socket-port" env-default:"8080"`
	ServerDescription string `yaml:"server-description" env-default:"Othello server"`
	MirrorBuffer      int    `yaml:"mirror-buffer" env-default:"256"`
	Redis             Redis  `yaml:"redis"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env-default:"false"`
	Host    string `yaml:"host" env-default:"localhost"`
	Port    string `yaml:"port" env-default:"6379"`
}

// Bot is the configuration of a bot client, read from the environment.
type Bot struct {
	Addr     string   `env:"BOT_ADDR" env-default:"localhost:4444"`
	Name     string   `env:"BOT_NAME" env-default:"bot"`
	Strategy string   `env:"BOT_STRATEGY" env-default:"stacked"`
	Filters  string   `env:"BOT_FILTERS"`
	Depth    int      `env:"BOT_DEPTH" env-default:"5"`
	Games    int      `env:"BOT_GAMES" env-default:"1"`
	LogLevel string   `env:"BOT_LOG_LEVEL" env-default:"info"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// MustLoadBot - load the bot configuration from environment variables.
func MustLoadBot() *Bot {
	config := &Bot{}

	if err := cleanenv.ReadEnv(config); err != nil {
		panic(fmt.Errorf("unable to load bot config: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" || that.Port == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
