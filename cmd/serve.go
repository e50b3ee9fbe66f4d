package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/lynxhire/internal/server"
	"github.com/spigell/lynxhire/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recruiter session over HTTP",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		withSession(cmd, func(ctx context.Context, l *zap.Logger, config *Config, sess *session.Session, store session.Store) error {
			l.Info("starting the lynxhire server", zap.String("version", version))

			srv, err := server.New(server.Options{
				Config:    config.Server,
				Session:   sess,
				Store:     store,
				Shortlist: config.Shortlist,
				Version:   version,
				Logger:    l,
			})
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", ":8080", "address to listen on")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}
