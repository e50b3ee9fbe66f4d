package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/lynxhire/internal/insights"
	"github.com/spigell/lynxhire/internal/session"
)

var reportCmd = &cobra.Command{
	Use:   "report [candidate-id]",
	Short: "Render a candidate report, or dump the whole session to a file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withSession(cmd, func(_ context.Context, l *zap.Logger, _ *Config, sess *session.Session, _ session.Store) error {
			dump, _ := cmd.Flags().GetString("dump")
			if dump != "" {
				filename, err := sess.DumpToTmpFile(dump)
				if err != nil {
					return err
				}
				l.Info("dumping session to file", zap.String("filename", filename))
				return nil
			}

			if len(args) == 0 {
				return errors.New("candidate id is required unless --dump is set")
			}

			format, _ := cmd.Flags().GetString("format")
			focus, _ := cmd.Flags().GetString("focus")
			return renderReport(cmd.OutOrStdout(), sess, args[0], insights.RenderOptions{Format: format, Focus: focus})
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringP("format", "f", insights.FormatText, "report format: text or markdown")
	reportCmd.Flags().String("focus", "", "adds an outlook note about this area")
	reportCmd.Flags().String("dump", "", "dump the whole session to a temporary json or yaml file instead")
}

func renderReport(w io.Writer, sess *session.Session, id string, opts insights.RenderOptions) error {
	c, err := sess.Find(id)
	if err != nil {
		return err
	}
	job, _ := sess.Job()
	opts.Stale = sess.Stale(c)
	return insights.Render(w, sess.Engine().Lexicon(), job, &c, opts)
}
