package main

//// Small CLI tool that prints a user's workout statistics straight from the configured storage backend.

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mcutler508/GymApp/internal/config"
	"github.com/mcutler508/GymApp/internal/db"
	"github.com/mcutler508/GymApp/internal/kvstore"
	"github.com/mcutler508/GymApp/internal/workouts"
	"github.com/mcutler508/GymApp/internal/workouts/stats"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

func init() {
	log.SetOutput(os.Stdout)
}

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	userID := flag.String("user", "", "id of the user to report on")
	flag.Parse()

	if *userID == "" {
		fmt.Println("Error: -user is required")
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	repo := workouts.NewRepo(kvstore.NewSerialized(store))
	logs, err := repo.ListEntries(ctx, *userID)
	if err != nil {
		log.Fatalf("list entries: %v", err)
	}

	now := time.Now()
	fmt.Print(renderReport(stats.Compute(logs, now), now))
}

func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, func() error, error) {
	switch cfg.StorageBackend {
	case config.StorageSQLite:
		s, err := kvstore.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.StorageRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisHost + ":" + cfg.RedisPort,
			Password: os.Getenv("GYMAPP_REDIS_PASS"),
			DB:       0,
		})
		return kvstore.NewRedisStore(rdb), rdb.Close, nil
	case config.StoragePostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: os.Getenv("GYMAPP_POSTGRES_PASS"),
		})
		if err != nil {
			return nil, nil, err
		}
		return kvstore.NewPostgresStore(dbPool), func() error { dbPool.Close(); return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}
