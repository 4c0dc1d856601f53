package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/careerpilot/careerpilot/internal/career"
	"github.com/careerpilot/careerpilot/internal/session"
)

const progressWidth = 20

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "View your career plan",
}

var planShowCmd = &cobra.Command{
	Use:   "show [index]",
	Short: "List suggested roles, or show one role's learning plan",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, ok := a.Session.Current()
		if !ok {
			return session.ErrNoActiveSession
		}
		if sess.CareerPlan == nil || len(sess.CareerPlan.Suggestions) == 0 {
			return career.ErrNoPlan
		}

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			printPlanSummary(out, sess.CareerPlan)
			return nil
		}

		i, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		s, err := sess.CareerPlan.Suggestion(i)
		if err != nil {
			return err
		}
		printSuggestion(out, i, s)
		return nil
	},
}

// parseIndex converts a 1-based index argument into a 0-based index.
func parseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", arg, err)
	}
	return n - 1, nil
}

func printPlanSummary(w io.Writer, plan *career.Plan) {
	if plan == nil {
		return
	}
	fmt.Fprintln(w, "Your Career Plan")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for i, s := range plan.Suggestions {
		done, total, pct := s.Progress()
		fmt.Fprintf(w, "%d. %-36s  %3d%% match  %s %d/%d\n",
			i+1, truncate(s.JobRole, 36), s.MatchPercentage, progressBar(pct), done, total)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run `careerpilot plan show <index>` for a role's skills.")
}

func printSuggestion(w io.Writer, i int, s career.JobSuggestion) {
	sep := strings.Repeat("─", 60)
	done, total, pct := s.Progress()

	fmt.Fprintf(w, "%d. %s (%d%% match)\n", i+1, s.JobRole, s.MatchPercentage)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "Why:     %s\n", s.Reason)
	if s.MarketInsight != "" {
		fmt.Fprintf(w, "Market:  %s\n", s.MarketInsight)
	}
	fmt.Fprintf(w, "Progress %s %d / %d skills completed\n", progressBar(pct), done, total)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Skills")
	fmt.Fprintln(w, sep)
	for j, sk := range s.Skills {
		mark := " "
		if sk.Completed {
			mark = "✓"
		}
		fmt.Fprintf(w, "[%s] %d. %s\n", mark, j+1, sk.Name)
		if sk.Description != "" {
			fmt.Fprintf(w, "       %s\n", sk.Description)
		}
	}
	if done < total {
		fmt.Fprintf(w, "\nRun `careerpilot assess %d <skill>` to take an assessment.\n", i+1)
	}
}

func progressBar(pct float64) string {
	filled := int(pct / 100 * progressWidth)
	if filled > progressWidth {
		filled = progressWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	planCmd.AddCommand(planShowCmd)
}
