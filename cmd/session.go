package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/lynxhire/internal/engine"
	"github.com/spigell/lynxhire/internal/ingest"
	"github.com/spigell/lynxhire/internal/insights"
	"github.com/spigell/lynxhire/internal/session"
)

const (
	PromptAddJob       = "Analyse a job description"
	PromptAddCandidate = "Add a candidate"
	PromptCandidates   = "Review candidates"
	PromptDashboard    = "Pool dashboard"
	PromptShortlist    = "Shortlist"
	PromptReportByTag  = "Report by tags"
	PromptDumpToFile   = "Dump session to file"
	PromptExit         = "Exit"
	PromptBack         = "back"

	PromptToggleTag = "Toggle a tag"
	PromptNotes     = "Edit notes"
	PromptReport    = "Show report"
)

var errExit = errors.New("exit requested")

var sessionPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptAddJob, PromptAddCandidate, PromptCandidates, PromptDashboard, PromptShortlist, PromptReportByTag, PromptDumpToFile, PromptExit},
	Size:  8,
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Work on the stored recruiter session interactively",
	Run: func(cmd *cobra.Command, _ []string) {
		withSession(cmd, func(ctx context.Context, l *zap.Logger, config *Config, sess *session.Session, store session.Store) error {
			for {
				_, action, err := sessionPrompt.Run()
				if err != nil {
					return err
				}

				if err := handleAction(ctx, cmd.OutOrStdout(), action, l, config, sess); err != nil {
					if errors.Is(err, errExit) {
						return nil
					}
					if !userError(err) {
						return err
					}
					l.Warn("action failed", zap.String("action", action), zap.Error(err))
					continue
				}

				if err := saveSession(ctx, sess, store); err != nil {
					return err
				}
			}
		})
	},
}

var sessionJobCmd = &cobra.Command{
	Use:   "job <file|->",
	Short: "Analyse a job description and make it the session job",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withSession(cmd, func(ctx context.Context, _ *zap.Logger, _ *Config, sess *session.Session, store session.Store) error {
			text, err := ingest.ReadText(args[0])
			if err != nil {
				return err
			}
			title, _ := cmd.Flags().GetString("title")
			location, _ := cmd.Flags().GetString("location")

			job, err := sess.AnalyzeJob(session.JobInput{Title: title, Location: location, Description: text})
			if err != nil {
				return err
			}
			if err := saveSession(ctx, sess, store); err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), outputFormat(cmd), job)
		})
	},
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <cv-file|->",
	Short: "Score a CV against the session job and add it to the session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withSession(cmd, func(ctx context.Context, _ *zap.Logger, _ *Config, sess *session.Session, store session.Store) error {
			text, err := ingest.ReadText(args[0])
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				name = candidateName(args[0])
			}
			location, _ := cmd.Flags().GetString("location")

			c, err := sess.AddCandidate(session.CandidateInput{Name: name, Location: location, Text: text})
			if err != nil {
				return err
			}
			if err := saveSession(ctx, sess, store); err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), outputFormat(cmd), c)
		})
	},
}

var sessionTagCmd = &cobra.Command{
	Use:   "tag <candidate-id> <tag>",
	Short: "Toggle a tag (top-pick, reserve, to-call, no-go) on a candidate",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withSession(cmd, func(ctx context.Context, l *zap.Logger, _ *Config, sess *session.Session, store session.Store) error {
			c, err := sess.ToggleTag(args[0], args[1])
			if err != nil {
				return err
			}
			l.Info("candidate tags", zap.String("candidate_id", c.ID), zap.Strings("tags", c.Tags))
			return saveSession(ctx, sess, store)
		})
	},
}

var sessionNotesCmd = &cobra.Command{
	Use:   "notes <candidate-id> <notes>",
	Short: "Replace the recruiter notes of a candidate",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withSession(cmd, func(ctx context.Context, _ *zap.Logger, _ *Config, sess *session.Session, store session.Store) error {
			if _, err := sess.SetNotes(args[0], args[1]); err != nil {
				return err
			}
			return saveSession(ctx, sess, store)
		})
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored session",
	Run: func(cmd *cobra.Command, _ []string) {
		withSession(cmd, func(_ context.Context, _ *zap.Logger, _ *Config, sess *session.Session, _ session.Store) error {
			return printOutput(cmd.OutOrStdout(), outputFormat(cmd), sess.Snapshot())
		})
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop the job and every candidate from the stored session",
	Run: func(cmd *cobra.Command, _ []string) {
		withSession(cmd, func(ctx context.Context, l *zap.Logger, _ *Config, sess *session.Session, store session.Store) error {
			sess.Restore(nil)
			l.Info("session reset")
			return saveSession(ctx, sess, store)
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionJobCmd, sessionAddCmd, sessionTagCmd, sessionNotesCmd, sessionShowCmd, sessionResetCmd)

	sessionCmd.PersistentFlags().StringP("output", "o", "yaml", "output format: json or yaml")

	sessionJobCmd.Flags().StringP("title", "t", "", "job title")
	sessionJobCmd.Flags().StringP("location", "l", "", "job location")

	sessionAddCmd.Flags().StringP("name", "n", "", "candidate name (default is the file name)")
	sessionAddCmd.Flags().StringP("location", "l", "", "candidate location")
}

type sessionFunc func(ctx context.Context, l *zap.Logger, config *Config, sess *session.Session, store session.Store) error

// withSession opens the stored session, runs fn and exits on failure.
func withSession(cmd *cobra.Command, fn sessionFunc) {
	l, config := bootstrap()
	ctx := cmd.Context()

	sess, store, closeStore := openSession(ctx, config, l)
	defer closeStore()

	if err := fn(ctx, l, config, sess, store); err != nil {
		closeStore()
		l.Fatal("exiting", zap.Error(err))
	}
}

// userError reports whether err came from what the user typed, so the
// interactive loop can show it and carry on.
func userError(err error) bool {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, session.ErrNoJob),
		errors.Is(err, session.ErrEmptyDescription),
		errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, session.ErrUnknownTag),
		errors.Is(err, session.ErrCandidateNotFound):
		return true
	case errors.As(err, &pathErr):
		return true
	default:
		return false
	}
}

func handleAction(ctx context.Context, w io.Writer, action string, l *zap.Logger, config *Config, sess *session.Session) error {
	switch action {
	case PromptAddJob:
		return promptJob(sess)
	case PromptAddCandidate:
		return promptCandidate(sess)
	case PromptCandidates:
		return reviewCandidates(w, sess)
	case PromptDashboard:
		return printOutput(w, "yaml", insights.Pool(sess.Candidates().Items))
	case PromptShortlist:
		out, err := shortlist(ctx, l, &config.Shortlist, sess, nil)
		if err != nil {
			return err
		}
		return printRanking(w, out)
	case PromptReportByTag:
		return printOutput(w, "yaml", sess.Candidates().ByTag())
	case PromptDumpToFile:
		filename, err := sess.DumpToTmpFile("yaml")
		if err != nil {
			return fmt.Errorf("dump session to file: %w", err)
		}
		l.Info("dumping session to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		l.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func promptText(label string, required bool) (string, error) {
	p := promptui.Prompt{Label: label}
	if required {
		p.Validate = func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("value is required")
			}
			return nil
		}
	}
	return p.Run()
}

func promptJob(sess *session.Session) error {
	title, err := promptText("Job title", false)
	if err != nil {
		return err
	}
	location, err := promptText("Job location", false)
	if err != nil {
		return err
	}
	path, err := promptText("Job description file", true)
	if err != nil {
		return err
	}

	text, err := ingest.ReadText(strings.TrimSpace(path))
	if err != nil {
		return err
	}
	_, err = sess.AnalyzeJob(session.JobInput{Title: title, Location: location, Description: text})
	return err
}

func promptCandidate(sess *session.Session) error {
	name, err := promptText("Candidate name", true)
	if err != nil {
		return err
	}
	location, err := promptText("Candidate location", false)
	if err != nil {
		return err
	}
	path, err := promptText("CV file", true)
	if err != nil {
		return err
	}

	text, err := ingest.ReadText(strings.TrimSpace(path))
	if err != nil {
		return err
	}
	_, err = sess.AddCandidate(session.CandidateInput{Name: name, Location: location, Text: text})
	return err
}

func candidateLabel(c *engine.CandidateRecord, stale bool) string {
	label := fmt.Sprintf("%s %s / FPS %d / fit %d", c.ID, c.Name, c.FuturePerformanceScore, c.FitScore)
	if len(c.Tags) > 0 {
		label += " / " + strings.Join(c.Tags, ", ")
	}
	if stale {
		label += " / stale"
	}
	return label
}

func reviewCandidates(w io.Writer, sess *session.Session) error {
	for {
		cands := sess.Candidates()
		cands.SortByPerformance()

		items := make([]string, 0, cands.Len()+1)
		for _, c := range cands.Items {
			items = append(items, candidateLabel(c, sess.Stale(*c)))
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
		}
		_, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		id := strings.Split(selected, " ")[0]
		if err := candidateActions(w, sess, id); err != nil {
			return err
		}
	}
}

func candidateActions(w io.Writer, sess *session.Session, id string) error {
	actionPrompt := promptui.Select{
		Label: "Candidate " + id,
		Items: []string{PromptReport, PromptToggleTag, PromptNotes, PromptBack},
	}
	_, action, err := actionPrompt.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptReport:
		return renderReport(w, sess, id, insights.RenderOptions{Format: insights.FormatText})
	case PromptToggleTag:
		tagPrompt := promptui.Select{Label: "Tag", Items: session.Tags}
		_, tag, err := tagPrompt.Run()
		if err != nil {
			return err
		}
		_, err = sess.ToggleTag(id, tag)
		return err
	case PromptNotes:
		current, err := sess.Find(id)
		if err != nil {
			return err
		}
		notesPrompt := promptui.Prompt{Label: "Notes", Default: current.Notes, AllowEdit: true}
		notes, err := notesPrompt.Run()
		if err != nil {
			return err
		}
		_, err = sess.SetNotes(id, notes)
		return err
	default:
		return nil
	}
}
