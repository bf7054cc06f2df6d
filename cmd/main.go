package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aph138/phoneuser/internal/app"
	"github.com/aph138/phoneuser/internal/cache"
	"github.com/aph138/phoneuser/internal/config"
	"github.com/aph138/phoneuser/internal/db"
	"github.com/aph138/phoneuser/pkg/authentication"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error(fmt.Sprintf("err when loading config: %s", err.Error()))
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stdout)

	jwtKey := cfg.JWTSecret
	if jwtKey == "" {
		logger.Warn("no jwt secret configured, generating one")
		jwtKey, err = authentication.GenerateKey(32)
		if err != nil {
			logger.Error(fmt.Sprintf("err when generating key for jwt: %s", err.Error()))
			os.Exit(1)
		}
	}
	jwt, err := authentication.NewJWT(jwtKey)
	if err != nil {
		logger.Error(fmt.Sprintf("err when creating JWT instance: %s", err.Error()))
		os.Exit(1)
	}

	database, err := newDatabase(cfg)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	otpCache, err := newCache(cfg)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	myApp := app.NewApplication(logger, jwt, otpCache, database, cfg.TokenTTL)
	if err := myApp.Run(cfg.Address, cfg.ShutdownTimeout); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func newDatabase(cfg *config.Config) (db.Database, error) {
	if cfg.Storage == config.StorageMemory {
		return db.NewMemory(), nil
	}
	var dbOpt *options.ClientOptions
	if cfg.MongoUser != "" {
		dbOpt = options.Client().SetAuth(options.Credential{Username: cfg.MongoUser, Password: cfg.MongoPassword})
	}
	m, err := db.NewMongo(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout, dbOpt)
	if err != nil {
		return nil, fmt.Errorf("err when creating MyMongo instance: %w", err)
	}
	return m, nil
}

func newCache(cfg *config.Config) (cache.Cache, error) {
	if cfg.RedisAddress == "" {
		return cache.NewMemory(cfg.OTPTTL), nil
	}
	r, err := cache.NewRedis(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.OTPTTL)
	if err != nil {
		return nil, fmt.Errorf("err when creating MyRedis instance: %w", err)
	}
	return r, nil
}
