// Package cmd provides the CLI commands for robotd.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/snowbotix/snowlog"
	"github.com/snowbotix/snowlog/internal/robot"
	"github.com/snowbotix/snowlog/pkg/version"
)

// NewRootCmd creates the root command for the robotd daemon.
func NewRootCmd() *cobra.Command {
	var configPath string
	var listen string
	var logFile string
	var logLevel string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "robotd",
		Short: "Demo robot controller daemon",
		Long: `Robotd runs a small robot controller behind an HTTP API and logs
everything through snowlog: rotated files, colored console output,
and glog-style formatted lines.

It exists to exercise the logging stack end to end; point snowtail
at its log file to watch it live.`,
		Version: version.Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}

			// Flags override the config file.
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			if cmd.Flags().Changed("log-file") {
				cfg.Log.File = logFile
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("no-color") {
				cfg.Log.NoColor = noColor
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.SetVersionTemplate("robotd version {{.Version}}\n")

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./robotd.yaml if present)")
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (overrides config; empty = console only)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Minimum log level: info, warning, error, fatal")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored console output")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// runServe brings up logging, the controller, and the HTTP server,
// and keeps them running until interrupted.
func runServe(ctx context.Context, cfg *Config) error {
	snowlog.Init(snowlog.Config{
		FilePath:     cfg.Log.File,
		MaxFileBytes: cfg.Log.MaxBytes,
		MaxFiles:     cfg.Log.MaxFiles,
		MinLevel:     cfg.Log.Level,
		FlushLevel:   cfg.Log.FlushLevel,
		NoColor:      cfg.Log.NoColor,
	})
	defer snowlog.Shutdown()

	// Route log/slog callers through the same sinks.
	slog.SetDefault(snowlog.Slog())

	snowlog.Info().Msg("Robot control system framework starting")

	position := robot.Vec3{1.0, 2.0, 3.0}
	velocity := robot.Vec3{0.1, 0.2, 0.3}
	snowlog.Info().Msgf("Position: %s", position)
	snowlog.Info().Msgf("Velocity: %s", velocity)

	state := robot.State{
		Position:  position,
		Velocity:  velocity,
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
	}
	stateJSON, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render state: %w", err)
	}
	snowlog.Info().Msgf("State JSON: %s", stateJSON)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	controller := robot.NewController(snowlog.Active())
	server := robot.NewServer(controller, snowlog.Active(), cfg.Listen)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	g.Go(func() error {
		return reportStatus(ctx, controller, time.Duration(cfg.StatusIntervalSeconds)*time.Second)
	})

	err = g.Wait()
	snowlog.Info().Msg("Robot control system framework stopped")
	return err
}

// reportStatus logs the robot state at a fixed interval. An interval
// of zero disables reporting.
func reportStatus(ctx context.Context, controller *robot.Controller, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			state := controller.State()
			snowlog.Info().Msgf("Robot state: position=%s velocity=%s", state.Position, state.Velocity)
		}
	}
}
