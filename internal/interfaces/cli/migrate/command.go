// Package migrate is the administrative entry point for moving the entire
// ticket set between storage backends.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"tickethub/internal/domain/ticket"
	"tickethub/internal/infrastructure/config"
	"tickethub/internal/infrastructure/engine"
	"tickethub/internal/shared/logger"
)

var (
	fromBackend string
	toBackend   string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy all tickets from one storage backend to another",
		Long: `Initialize the source and destination backends, copy every ticket
(with its full action history) from source to destination, and report the
outcome. Destination ids are reassigned. The source is left untouched.`,
		RunE: run,
	}

	cmd.Flags().StringVar(&fromBackend, "from", "", "Source backend (cached_sqlite or mysql)")
	cmd.Flags().StringVar(&toBackend, "to", "", "Destination backend (cached_sqlite or mysql)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger().Named("migrate")

	if fromBackend == toBackend {
		return fmt.Errorf("source and destination backends are both %q", fromBackend)
	}

	src, err := engine.New(ticket.Kind(fromBackend), &cfg.Storage, log)
	if err != nil {
		return err
	}
	dst, err := engine.New(ticket.Kind(toBackend), &cfg.Storage, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := src.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize source backend: %w", err)
	}
	defer src.Close()

	if err := dst.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize destination backend: %w", err)
	}
	defer dst.Close()

	return engine.Migrate(ctx, src, dst, engine.MigrateHooks{
		OnBegin: func() {
			log.Infow("migration started", "from", fromBackend, "to", toBackend)
		},
		OnComplete: func() {
			log.Infow("migration complete", "from", fromBackend, "to", toBackend)
		},
		OnError: func(err error) {
			log.Errorw("migration failed; destination is not usable until retried",
				"error", err)
		},
	})
}
