// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/workingonit/workingonit/internal/config"
	"github.com/workingonit/workingonit/internal/evaluator"
	"github.com/workingonit/workingonit/internal/interview"
	"github.com/workingonit/workingonit/internal/questions"
	"github.com/workingonit/workingonit/internal/server"
	"github.com/workingonit/workingonit/internal/store"
	woierr "github.com/workingonit/workingonit/pkg/errors"

	// Register the sqlite storage backend.
	_ "github.com/workingonit/workingonit/internal/store/sqlite"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the workingonit server",
		Long:  "Load configuration, initialize the question source, evaluator, and session store, and start the HTTP server.",
		RunE:  runStart,
	}

	cmd.Flags().String("listen", "", "override listen address (host:port)")
	_ = viper.BindPFlag("networking.listen", cmd.Flags().Lookup("listen"))

	return cmd
}

func runStart(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	logger := newLogger(viper.GetBool("verbose"))
	slog.SetDefault(logger)

	ss, err := store.New(store.Config{
		Backend: cfg.Storage.Backend,
		Path:    cfg.Storage.Path,
	})
	if err != nil {
		return err
	}
	defer ss.Close()

	source, err := questions.New(cfg)
	if err != nil {
		return err
	}

	eval, err := evaluator.New(cfg)
	if err != nil {
		return woierr.Wrap(err, woierr.CodeCLISetupFailure,
			"configuring evaluator; set an API key under providers in the config file")
	}

	engine := interview.NewEngine(ss, source, eval, cfg.Evaluator.Timeout, logger)

	srv, err := server.New(server.Config{
		ListenAddr:  cfg.Networking.Listen,
		CORSOrigins: cfg.Networking.CORSOrigins,
	})
	if err != nil {
		return err
	}
	if err := srv.RegisterInterviewService(engine); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting workingonit",
		"listen", cfg.Networking.Listen,
		"storage", cfg.Storage.Backend,
		"questions", cfg.Questions.Source,
		"evaluator", cfg.Evaluator.Model)

	return srv.Start(ctx)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
