package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/costcast/internal/config"
	"github.com/theirongolddev/costcast/internal/logging"
	"github.com/theirongolddev/costcast/internal/server"
	"github.com/theirongolddev/costcast/internal/store"
)

var (
	flagServeAddr    string
	flagServeNoStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the estimate, forecast and report API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "127.0.0.1:8787", "Listen address")
	serveCmd.Flags().BoolVar(&flagServeNoStore, "no-store", false, "Do not record generated reports")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log.Level, true)

	src, closer, err := openHistory(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	var st *store.Store
	if !flagServeNoStore {
		st, err = store.Open(config.StorePath())
		if err != nil {
			log.WithError(err).Warn("store unavailable, reports will not be recorded")
			st = nil
		} else {
			defer func() { _ = st.Close() }()
		}
	}

	srv := server.New(server.Config{
		Addr:     flagServeAddr,
		Currency: cfg.General.Currency,
		Horizon:  cfg.General.Horizon,
		Source:   src,
		Store:    st,
	}, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
