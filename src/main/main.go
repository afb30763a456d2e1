package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"screen-zoom/src/logutil"
	"screen-zoom/src/runtimeinit"
	"screen-zoom/src/session"
)

func main() {
	if err := newRootCmd(run).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(runFn func(ctx context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:           "screen-zoom",
		Short:         "Magnify the focused output in a full-screen overlay",
		Long:          "Captures the focused output and shows it full-screen. Scroll to zoom, drag with the primary button to pan, hold Left Shift for a spotlight, press Escape to quit.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFn(cmd.Context())
		},
	}
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := runtimeinit.Bootstrap(runtimeinit.Options{SetupLogging: logutil.Setup})
	if err != nil {
		return err
	}
	return session.Execute(ctx, rt.Session)
}
