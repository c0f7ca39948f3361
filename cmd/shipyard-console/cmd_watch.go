package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blackpearl/shipyard-console/internal/authz"
)

// watchCmd keeps a section on screen, refreshing on the configured cadence
var watchCmd = &cobra.Command{
	Use:   "watch [section]",
	Short: "Render a section and keep it refreshed",
	Long: `Render a section and refresh it periodically until interrupted.
Without an argument the dashboard summary is watched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	section := authz.SectionDashboard
	if len(args) == 1 {
		s, ok := authz.ParseSection(args[0])
		if !ok {
			return fmt.Errorf("unknown section %q (want one of: %s)", args[0], sectionIDs())
		}
		section = s
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	forcedOut := make(chan struct{}, 1)
	c, err := buildConsole(func() {
		select {
		case forcedOut <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}

	if err := c.ShowSection(ctx, section); err != nil {
		return err
	}
	c.Start(ctx)

	fmt.Printf("Watching %s every %s. Ctrl-C to stop.\n", section, cfg.Client.RefreshInterval)
	select {
	case <-ctx.Done():
		return nil
	case <-forcedOut:
		return fmt.Errorf("server rejected the session; please log in again")
	}
}
