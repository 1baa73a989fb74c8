package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtstandards/mtmeta/internal/cli/config"
	"github.com/mtstandards/mtmeta/internal/watch"
	"github.com/mtstandards/mtmeta/internal/web"
	"github.com/mtstandards/mtmeta/schema"
	"github.com/mtstandards/mtmeta/standards"
	"github.com/mtstandards/mtmeta/vocab"
)

var (
	serveHost string
	servePort int
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the schema inspection and validation service",
		Long: `Run the HTTP service exposing schema listings, field definitions,
document validation and representation conversion. With watch enabled
in the configuration, field-spec documents in the schema directories
are hot-reloaded on change.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveHost, "host", "", "Bind host (overrides configuration)")
	cmd.Flags().IntVar(&servePort, "port", 0, "Bind port (overrides configuration)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	registry := schema.NewRegistry()

	if cfg.Watch && len(cfg.SchemaDirs) > 0 {
		watcher, err := watch.NewSchemaWatcher(cfg.SchemaDirs, registry, vocab.Default(), log)
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()
	} else {
		for _, dir := range cfg.SchemaDirs {
			if err := loadSchemaDir(registry, dir); err != nil {
				return err
			}
		}
	}

	api := web.NewAPI(registry, standards.Default(), log)
	server := web.NewServer(web.DefaultConfig(cfg.Server.Host, cfg.Server.Port), api.Router(), log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
