package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/grimorio/internal/cache"
	"github.com/ramonehamilton/grimorio/internal/catalog"
	"github.com/ramonehamilton/grimorio/internal/client"
	"github.com/ramonehamilton/grimorio/internal/config"
	"github.com/ramonehamilton/grimorio/internal/controller"
	"github.com/ramonehamilton/grimorio/internal/storage"
)

// loadConfig reads the config file and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("debug") {
		cfg.App.DebugMode = debug
	}
	if cfg.App.DebugMode {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}
	return cfg, nil
}

// openStore opens the SQLite database and runs pending migrations.
func openStore(cfg *config.Config) (*storage.Service, error) {
	path, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}

	dbConfig := storage.DefaultConfig(path)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	log.Printf("Database: %s", path)
	return storage.NewService(db), nil
}

// newResponseCache returns the Redis cache when enabled, otherwise nil.
func newResponseCache(cfg *config.Config) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	ttl, err := cfg.GetCacheTTL()
	if err != nil {
		return nil, err
	}

	rc, err := cache.NewClient(cfg.Cache.RedisAddr, &cache.ClientOptions{
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	if err != nil {
		return nil, err
	}

	redisCache, err := cache.NewRedis(&cache.RedisConfig{Client: rc, TTL: ttl, Prefix: cfg.Cache.Prefix})
	if err != nil {
		return nil, err
	}

	log.Printf("Response cache: redis at %s (ttl %s)", cfg.Cache.RedisAddr, ttl)
	return redisCache, nil
}

// ensureCatalog imports the seed when forced or when the database is empty.
func ensureCatalog(ctx context.Context, store *storage.Service, importer *catalog.Importer, seedPath string, force bool) (*catalog.ImportResult, error) {
	if !force {
		n, err := store.SpellRepo().Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count spells: %w", err)
		}
		if n > 0 {
			return nil, nil
		}
	}
	return importer.ImportFile(ctx, seedPath)
}

// newController builds a view controller talking to the API at cfg.Client.
func newController(cfg *config.Config, apiURL, lang string) (*controller.Controller, error) {
	if apiURL == "" {
		apiURL = cfg.Client.BaseURL
	}
	if lang == "" {
		lang = cfg.Client.Language
	}

	language, err := catalog.ParseLanguage(lang)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.GetClientTimeout()
	if err != nil {
		return nil, err
	}

	api, err := client.New(&client.Config{BaseURL: apiURL, Timeout: timeout})
	if err != nil {
		return nil, err
	}

	return controller.New(api, controller.WithLanguage(language)), nil
}
