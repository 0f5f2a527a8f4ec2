package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"partforge/pkg/generator"
	transporthttp "partforge/pkg/transport/http"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP generation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			reg := newRegistry(cfg, log)
			gen := generator.New(reg, generator.Options{
				OutputDir:     cfg.Output.Dir,
				Limits:        cfg.RuleLimits(),
				Workers:       cfg.Generation.Workers,
				BuildTimeout:  cfg.Generation.BuildBudget(),
				DefaultEngine: cfg.Generation.DefaultEngine,
				Logger:        log,
			})

			// No LLM interpreter ships with this binary; the interpret
			// endpoint reports a missing capability until one is wired.
			srv := transporthttp.NewServer(gen, nil, reg, cfg.Output.Dir, log)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			log.Info("serving", zap.String("addr", addr),
				zap.Strings("engines", reg.Keys()),
				zap.String("output_dir", cfg.Output.Dir))
			return srv.ListenAndServe(ctx, addr)
		},
	}
	return cmd
}
