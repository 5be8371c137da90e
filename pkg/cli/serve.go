package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/welschmorgan/mocker/internal/match"
	"github.com/welschmorgan/mocker/pkg/config"
	"github.com/welschmorgan/mocker/pkg/dispatch"
	"github.com/welschmorgan/mocker/pkg/logging"
	"github.com/welschmorgan/mocker/pkg/server"
)

var (
	serveHost string
	servePort int
	serveCORS bool
	serveSeed uint64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		// Flags override the file.
		if cmd.Flags().Changed("host") {
			cfg.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if cmd.Flags().Changed("cors") {
			cfg.CORS = serveCORS
		}
		if cmd.Flags().Changed("seed") {
			seed := serveSeed
			cfg.Seed = &seed
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if logFormat != "" {
			cfg.LogFormat = logFormat
		}

		log := logging.New(logging.Config{
			Level:  logging.ParseLevel(cfg.LogLevel),
			Format: logging.ParseFormat(cfg.LogFormat),
		})

		opts := dispatch.Options{Seed: cfg.Seed, Logger: log}
		if cfg.CORS {
			opts.CORS = dispatch.DefaultCORS()
		}
		if cfg.NotFoundStatus != 0 || len(cfg.NotFoundHeaders) > 0 || !cfg.NotFoundBody.IsNull() {
			opts.NotFound = &dispatch.NotFound{
				Status:  cfg.NotFoundStatus,
				Headers: cfg.NotFoundHeaders,
				Body:    cfg.NotFoundBody,
			}
		}

		d, err := dispatch.New(match.Build(cfg.Routes), opts)
		if err != nil {
			return err
		}

		srv := server.New(cfg.Addr(), d, log)
		if err := srv.Start(); err != nil {
			return err
		}
		log.Info("serving mocks", "routes", len(cfg.Routes), "config", configPath)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		sig := <-stop
		log.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", config.DefaultHost, "Listen interface")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", config.DefaultPort, "Listen port")
	serveCmd.Flags().BoolVar(&serveCORS, "cors", false, "Enable cross-origin headers and preflight handling")
	serveCmd.Flags().Uint64Var(&serveSeed, "seed", 0, "Fix the synthesis seed for reproducible responses")
	rootCmd.AddCommand(serveCmd)
}
