package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kenroads/ntsabuddy/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve study sessions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			d.cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := api.NewServer(api.ServerConfig{
			Addr:           d.cfg.Server.Addr,
			SessionTTL:     d.cfg.Server.SessionTTL,
			AllowedOrigins: d.cfg.Server.AllowedOrigins,
		}, api.Providers{
			Content:      d.tutor,
			Questions:    d.tutor,
			Conversation: d.tutor,
		}, d.log)

		d.log.Info("serving",
			zap.String("addr", d.cfg.Server.Addr),
			zap.String("model", d.status()),
			zap.Duration("session_ttl", d.cfg.Server.SessionTTL),
		)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
