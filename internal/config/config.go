package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix of every environment variable, e.g. PHONEUSER_ADDRESS.
const Prefix = "PHONEUSER"

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Address         string        `envconfig:"ADDRESS" default:":9000"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	Storage       string        `envconfig:"STORAGE" default:"mongo"`
	MongoURI      string        `envconfig:"MONGO_URI" default:"mongodb://db:27017/"`
	MongoDatabase string        `envconfig:"MONGO_DATABASE" default:"phoneuser"`
	MongoUser     string        `envconfig:"MONGO_USER"`
	MongoPassword string        `envconfig:"MONGO_PASSWORD"`
	MongoTimeout  time.Duration `envconfig:"MONGO_TIMEOUT" default:"10s"`

	// an empty address keeps OTP codes in process
	RedisAddress  string `envconfig:"REDIS_ADDRESS"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	OTPTTL time.Duration `envconfig:"OTP_TTL" default:"2m"`

	// a random secret is generated when empty, tokens then die with the process
	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
}

// Load reads the optional env files (.env when none is given) and then the environment.
// Variables already set in the environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("err when loading env file: %w", err)
	}
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("err when processing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageMongo, StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q, expected %s or %s", c.Storage, StorageMongo, StorageMemory)
	}
	if c.OTPTTL <= 0 {
		return errors.New("otp ttl must be positive")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	return nil
}

// Logger returns a text logger writing to w at the configured level.
// An unknown level falls back to info.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		lvl.Set(slog.LevelInfo)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
