// Command arena-server is the backend proxy for the model arena. It keeps the
// upstream credential on the server and serves the built web front-end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"arena/config"
	"arena/logging"
	"arena/provider"
	"arena/server"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (default ~/.config/arena/config.toml)")
	port := flag.Int("port", 0, "listen port (overrides config and PORT)")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	if err := logging.Setup(logging.Options{
		Debug:     cfg.Log.Debug,
		File:      config.ExpandPath(cfg.Log.File),
		MaxSizeMB: cfg.Log.MaxSizeMB,
		Stdout:    true,
		RouteGin:  true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	upstream, credErr := provider.InitializeUpstream(cfg)
	if upstream == nil {
		log.Fatalf("Failed to initialize upstream: %v", credErr)
	}
	if credErr != nil {
		// Keep serving: every chat request answers 500 until the key is set
		log.WithField("key", logging.MaskKey(cfg.Upstream.APIKey)).Errorf("%v", provider.CredentialError(cfg))
	} else {
		log.WithField("key", logging.MaskKey(cfg.Upstream.APIKey)).
			Infof("Using %s upstream (model %s)", provider.Label(cfg), provider.DisplayModel(upstream.Model()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg, upstream, credErr).Run(ctx); err != nil {
		log.Errorf("arena-server stopped: %v", err)
		logging.Close()
		os.Exit(1)
	}
	log.Info("arena-server stopped")
}
