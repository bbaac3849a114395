package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rustyeddy/tradejournal/app"
	"github.com/rustyeddy/tradejournal/internal/logger"
	"github.com/rustyeddy/tradejournal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal over a JSON HTTP API",
	Long: `Run an HTTP server exposing the journal, statistics, exports, the
calculators and the mentor under /api. It stops on SIGINT or SIGTERM.

Example:
  tradejournal serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	log.Info("serving journal",
		zap.String("addr", cfg.Server.Addr),
		zap.String("storage", cfg.Storage.Type),
		zap.Int("trades", len(a.Trades())))
	return server.New(a, log).Run(ctx, cfg.Server.Addr)
}
