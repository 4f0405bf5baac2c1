package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/grimorio/internal/api"
	"github.com/ramonehamilton/grimorio/internal/catalog"
)

var serveFlags struct {
	host     string
	port     int
	dbPath   string
	seedPath string
	noWatch  bool
	reimport bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the spell API server",
	Long: `Start the spell API server. The seed is imported on first start (or with
--reimport) and, when it is a file, re-imported whenever it changes.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.host, "host", "", "listen host (default from config)")
	f.IntVar(&serveFlags.port, "port", 0, "listen port (default from config)")
	f.StringVar(&serveFlags.dbPath, "db-path", "", "database path (default ~/.grimorio/grimorio.db)")
	f.StringVar(&serveFlags.seedPath, "seed", "", "seed JSON file (default: embedded seed)")
	f.BoolVar(&serveFlags.noWatch, "no-watch", false, "do not watch the seed file")
	f.BoolVar(&serveFlags.reimport, "reimport", false, "import the seed even if the database is populated")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if serveFlags.host != "" {
		cfg.Server.Host = serveFlags.host
	}
	if serveFlags.port != 0 {
		cfg.Server.Port = serveFlags.port
	}
	if serveFlags.dbPath != "" {
		cfg.Database.Path = serveFlags.dbPath
	}
	if serveFlags.seedPath != "" {
		cfg.Catalog.SeedPath = serveFlags.seedPath
	}
	if serveFlags.noWatch {
		cfg.Catalog.Watch = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing storage service: %v", err)
		}
	}()

	importer := catalog.NewImporter(store)
	// A configured seed file is the source of truth, so it is always loaded.
	force := serveFlags.reimport || cfg.Catalog.SeedPath != ""
	initial, err := ensureCatalog(ctx, store, importer, cfg.Catalog.SeedPath, force)
	if err != nil {
		return fmt.Errorf("import seed: %w", err)
	}

	responseCache, err := newResponseCache(cfg)
	if err != nil {
		return fmt.Errorf("response cache: %w", err)
	}

	svc, err := catalog.NewService(&catalog.ServiceConfig{
		Repo:     store.SpellRepo(),
		Cache:    responseCache,
		PageSize: cfg.Catalog.PageSize,
	})
	if err != nil {
		return err
	}

	timeout, err := cfg.GetRequestTimeout()
	if err != nil {
		return err
	}
	serverCfg := api.DefaultConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	serverCfg.AllowedOrigins = cfg.Server.AllowedOrigins
	serverCfg.RateLimit = cfg.Server.RateLimit
	serverCfg.RateBurst = cfg.Server.RateBurst
	serverCfg.RequestTimeout = timeout

	server, err := api.NewServer(serverCfg, api.Dependencies{
		Catalog:        svc,
		Importer:       importer,
		SeedPath:       cfg.Catalog.SeedPath,
		AdminTokenHash: cfg.Admin.TokenHash,
	})
	if err != nil {
		return err
	}
	if cfg.Admin.TokenHash == "" {
		log.Println("Admin routes disabled: no admin.token_hash configured")
	}

	var watcher *catalog.Watcher
	if cfg.Catalog.Watch && cfg.Catalog.SeedPath != "" {
		debounce, err := cfg.GetDebounce()
		if err != nil {
			return err
		}
		watcher, err = catalog.NewWatcher(cfg.Catalog.SeedPath, importer, server.NotifyReload)
		if err != nil {
			return err
		}
		watcher.SetDebounce(debounce)
		if initial != nil {
			watcher.Prime(initial.Fingerprint)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	return g.Wait()
}
