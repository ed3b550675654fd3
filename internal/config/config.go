package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage    Storage `yaml:"storage"`
	Redis      Redis   `yaml:"redis"`
	Players    Players `yaml:"players"`
}

type Storage struct {
	Driver     string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"24h"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Players struct {
	PlayerA string `yaml:"player-a" env:"PLAYER_A" env-default:"Player One"`
	PlayerB string `yaml:"player-b" env:"PLAYER_B" env-default:"Player Two"`
}

// Load reads the config file at path, or only the environment when path is empty.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(config)
	} else {
		err = cleanenv.ReadConfig(path, config)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
