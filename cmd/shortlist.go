package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/lynxhire/internal/screening"
	"github.com/spigell/lynxhire/internal/session"
)

var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Filter the session candidates down to a shortlist",
	Run: func(cmd *cobra.Command, _ []string) {
		withSession(cmd, func(ctx context.Context, l *zap.Logger, config *Config, sess *session.Session, _ session.Store) error {
			cfg := shortlistConfig(cmd, config.Shortlist)
			disabled, _ := cmd.Flags().GetStringSlice("disable")

			out, err := shortlist(ctx, l, &cfg, sess, disabled)
			if err != nil {
				return err
			}
			if out.Len() == 0 {
				l.Info("exiting", zap.String("reason", "no candidates left after filters"))
				return nil
			}

			format := outputFormat(cmd)
			if format == "table" {
				return printRanking(cmd.OutOrStdout(), out)
			}
			return printOutput(cmd.OutOrStdout(), format, out.Items)
		})
	},
}

func init() {
	rootCmd.AddCommand(shortlistCmd)

	shortlistCmd.Flags().StringP("output", "o", "table", "output format: table, json or yaml")
	shortlistCmd.Flags().Int("minimum-fit-score", 0, "drop candidates below this fit score")
	shortlistCmd.Flags().Int("minimum-geo-match", 0, "drop candidates below this geo-match")
	shortlistCmd.Flags().StringSlice("exclude-tags", nil, "drop candidates carrying any of these tags")
	shortlistCmd.Flags().Bool("exclude-risky", false, "drop candidates with a Risky stability profile")
	shortlistCmd.Flags().Bool("exclude-stale", false, "drop candidates scored against a previous job")
	shortlistCmd.Flags().StringSlice("disable", nil, "filters to skip: exclude_tags, minimum_fit, minimum_geo, stability, stale")
}

// shortlistConfig applies the flags the user set on top of the configured values.
func shortlistConfig(cmd *cobra.Command, cfg screening.Config) screening.Config {
	flags := cmd.Flags()
	if flags.Changed("minimum-fit-score") {
		cfg.MinimumFitScore, _ = flags.GetInt("minimum-fit-score")
	}
	if flags.Changed("minimum-geo-match") {
		cfg.MinimumGeoMatch, _ = flags.GetInt("minimum-geo-match")
	}
	if flags.Changed("exclude-tags") {
		cfg.ExcludeTags, _ = flags.GetStringSlice("exclude-tags")
	}
	if flags.Changed("exclude-risky") {
		cfg.ExcludeRisky, _ = flags.GetBool("exclude-risky")
	}
	if flags.Changed("exclude-stale") {
		cfg.ExcludeStale, _ = flags.GetBool("exclude-stale")
	}
	return cfg
}

func shortlist(ctx context.Context, l *zap.Logger, cfg *screening.Config, sess *session.Session, disabled []string) (*session.Candidates, error) {
	steps := screening.Default()
	for _, name := range disabled {
		screening.DisableByName(steps, name, "disabled from command line")
	}

	deps := screening.Deps{Logger: l, Stale: sess.Stale}
	out, err := screening.Run(ctx, cfg, deps, steps, sess.Candidates())
	if err != nil {
		return nil, err
	}
	out.SortByPerformance()

	for _, status := range screening.Describe(steps) {
		l.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}
	return out, nil
}
