package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KaramelBytes/efindex-cli/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		t, cr, err := loadTable()
		if err != nil {
			return err
		}
		addr := c.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := server.New(t, cr, logger, server.Options{
			TopN:          c.TopN,
			BottomN:       c.BottomN,
			HistogramBins: c.HistogramBins,
			ReadTimeout:   time.Duration(c.ReadTimeoutSec) * time.Second,
			WriteTimeout:  time.Duration(c.WriteTimeoutSec) * time.Second,
		})
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		success(cmd.OutOrStdout(), "Serving %d countries on http://%s", t.Len(), addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config listen_addr)")
}

