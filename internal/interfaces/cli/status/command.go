// Package status reports quick health figures for the configured backend.
package status

import (
	"fmt"

	"github.com/spf13/cobra"

	"tickethub/internal/domain/ticket"
	"tickethub/internal/infrastructure/config"
	"tickethub/internal/infrastructure/engine"
	"tickethub/internal/shared/logger"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show ticket counts for the configured storage backend",
		RunE:  run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger().Named("status")

	eng, err := engine.New(ticket.Kind(cfg.Storage.Backend), &cfg.Storage, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := eng.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize backend %q: %w", cfg.Storage.Backend, err)
	}
	defer eng.Close()

	open, err := eng.CountOpenTickets(ctx)
	if err != nil {
		return err
	}
	all, err := eng.AllTicketIDs(ctx)
	if err != nil {
		return err
	}
	unread, err := eng.TicketIDsWithUnreadFlag(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("backend:        %s\n", cfg.Storage.Backend)
	fmt.Printf("total tickets:  %d\n", len(all))
	fmt.Printf("open tickets:   %d\n", open)
	fmt.Printf("unread updates: %d\n", len(unread))
	return nil
}
