package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/lynxhire/internal/engine"
	"github.com/spigell/lynxhire/internal/ingest"
	"github.com/spigell/lynxhire/internal/insights"
	"github.com/spigell/lynxhire/internal/logger"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a job description or a single candidate without touching the session",
}

var analyzeJobCmd = &cobra.Command{
	Use:   "job <file|->",
	Short: "Extract keywords and the requested soft skills from a job description",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		l, config := bootstrap()

		job, err := analyzeJobFile(config, cmd, args[0])
		if err != nil {
			l.Fatal("analysing the job", zap.Error(err))
		}

		logger.WithCommonFields(l, job.Title, "").Info("job analysed", zap.Strings("keywords", job.Keywords))
		if err := printOutput(cmd.OutOrStdout(), outputFormat(cmd), job); err != nil {
			l.Fatal("printing the job", zap.Error(err))
		}
	},
}

// candidateAnalysis is the output of analyze candidate.
type candidateAnalysis struct {
	Candidate engine.CandidateRecord `json:"candidate" yaml:"candidate"`
	Insights  insights.Report        `json:"insights" yaml:"insights"`
	Outlook   []insights.Phase       `json:"outlook" yaml:"outlook"`
}

var analyzeCandidateCmd = &cobra.Command{
	Use:   "candidate <cv-file|->",
	Short: "Score one CV against a job description",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		l, config := bootstrap()

		jobFile, _ := cmd.Flags().GetString("job")
		job, err := analyzeJobFile(config, cmd, jobFile)
		if err != nil {
			l.Fatal("analysing the job", zap.Error(err))
		}

		text, err := ingest.ReadText(args[0])
		if err != nil {
			l.Fatal("reading the candidate profile", zap.Error(err))
		}

		eng, err := newEngine(config)
		if err != nil {
			l.Fatal("building the engine", zap.Error(err))
		}

		name, _ := cmd.Flags().GetString("name")
		location, _ := cmd.Flags().GetString("candidate-location")
		focus, _ := cmd.Flags().GetString("focus")

		c := eng.AnalyzeCandidate(&job, name, location, text)
		logger.WithCommonFields(l, job.Title, c.ID).Info("candidate analysed",
			zap.Int("fit", c.FitScore),
			zap.Int("fps", c.FuturePerformanceScore),
		)

		out := candidateAnalysis{Candidate: c, Insights: insights.For(&c), Outlook: insights.Outlook(&c, focus)}
		if err := printOutput(cmd.OutOrStdout(), outputFormat(cmd), out); err != nil {
			l.Fatal("printing the candidate", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.AddCommand(analyzeJobCmd, analyzeCandidateCmd)

	analyzeCmd.PersistentFlags().StringP("output", "o", "json", "output format: json or yaml")
	analyzeCmd.PersistentFlags().StringP("title", "t", "", "job title")
	analyzeCmd.PersistentFlags().StringP("location", "l", "", "job location")

	analyzeCandidateCmd.Flags().String("job", "", "job description file (required)")
	analyzeCandidateCmd.Flags().StringP("name", "n", "candidate", "candidate name")
	analyzeCandidateCmd.Flags().String("candidate-location", "", "candidate location")
	analyzeCandidateCmd.Flags().String("focus", "", "adds an outlook note about this area")
	analyzeCandidateCmd.MarkFlagRequired("job")
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	return format
}

func analyzeJobFile(config *Config, cmd *cobra.Command, path string) (engine.JobProfile, error) {
	text, err := ingest.ReadText(path)
	if err != nil {
		return engine.JobProfile{}, err
	}
	if text == "" {
		return engine.JobProfile{}, fmt.Errorf("job description in %q is empty", path)
	}

	eng, err := newEngine(config)
	if err != nil {
		return engine.JobProfile{}, err
	}

	title, _ := cmd.Flags().GetString("title")
	location, _ := cmd.Flags().GetString("location")
	return eng.AnalyzeJob(title, location, text), nil
}
