package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/lynxhire/internal/engine"
	"github.com/spigell/lynxhire/internal/ingest"
	"github.com/spigell/lynxhire/internal/session"
)

var rankCmd = &cobra.Command{
	Use:   "rank <job-file> <cv-file>...",
	Short: "Score many CVs against one job in parallel and rank them by projected performance",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		l, config := bootstrap()

		job, err := analyzeJobFile(config, cmd, args[0])
		if err != nil {
			l.Fatal("analysing the job", zap.Error(err))
		}

		eng, err := newEngine(config)
		if err != nil {
			l.Fatal("building the engine", zap.Error(err))
		}

		workers := config.Rank.Workers
		if flag := cmd.Flag("workers"); flag != nil && flag.Changed {
			workers, _ = cmd.Flags().GetInt("workers")
		}

		l.Info("ranking candidates", zap.Int("files", len(args)-1), zap.Int("workers", workers))

		ranked, err := rankFiles(cmd.Context(), eng, &job, args[1:], workers)
		if err != nil {
			l.Fatal("ranking candidates", zap.Error(err))
		}

		format := outputFormat(cmd)
		if format == "table" {
			err = printRanking(cmd.OutOrStdout(), ranked)
		} else {
			err = printOutput(cmd.OutOrStdout(), format, ranked.Items)
		}
		if err != nil {
			l.Fatal("printing the ranking", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("output", "o", "table", "output format: table, json or yaml")
	rankCmd.Flags().StringP("title", "t", "", "job title")
	rankCmd.Flags().StringP("location", "l", "", "job location")
	rankCmd.Flags().IntP("workers", "w", 0, "parallel workers (default from rank.workers)")
}

// rankFiles scores every file concurrently. Each worker writes only its own
// slot, so the result keeps input order until it is sorted.
func rankFiles(ctx context.Context, eng *engine.Engine, job *engine.JobProfile, paths []string, workers int) (*session.Candidates, error) {
	if workers < 1 {
		workers = 1
	}

	records := make([]*engine.CandidateRecord, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			text, err := ingest.ReadText(path)
			if err != nil {
				return err
			}
			c := eng.AnalyzeCandidate(job, candidateName(path), "", text)
			records[i] = &c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := &session.Candidates{Items: records}
	ranked.SortByPerformance()
	return ranked, nil
}

func candidateName(path string) string {
	if path == ingest.Stdin {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func printRanking(w io.Writer, ranked *session.Candidates) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tFPS\tFIT\tGEO\tSTABILITY\tSENIORITY\tRISKS")
	for i, c := range ranked.Items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s (%d)\t%s\t%d\n",
			i+1, c.Name, c.FuturePerformanceScore, c.FitScore, c.GeoMatch,
			c.StabilityLabel, c.StabilityScore, c.Seniority, len(c.LinguisticRisks))
	}
	return tw.Flush()
}
