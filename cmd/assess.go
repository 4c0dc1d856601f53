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

var assessCmd = &cobra.Command{
	Use:   "assess <suggestion-index> <skill>",
	Short: "Take an AI-graded assessment for a skill",
	Long: "Generate a short assessment for a skill of one suggested role. " +
		"Passing it (at least half the answers correct) marks the skill completed. " +
		"<skill> is the skill's name or its number in `plan show`.",
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseIndex(args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, ok := a.Session.Current()
		if !ok {
			return session.ErrNoActiveSession
		}
		suggestion, err := sess.CareerPlan.Suggestion(i)
		if err != nil {
			return err
		}
		skill, err := findSkill(suggestion, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}

		advisor, err := a.Advisor(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Generating assessment for %s...\n\n", skill.Name)
		assessment, err := advisor.Assessment(cmd.Context(), skill.Name)
		if err != nil {
			return err
		}

		answers, err := collectAnswers(newPrompter(cmd), assessment)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "Evaluating your answers...")
		result, err := advisor.Evaluate(cmd.Context(), skill.Name, assessment, answers)
		if err != nil {
			return err
		}
		printResult(out, result)

		if !result.Passed {
			return nil
		}
		if skill.Completed {
			fmt.Fprintf(out, "\n%s was already completed.\n", skill.Name)
			return nil
		}
		if _, err := a.Session.CompleteSkill(cmd.Context(), i, skill.Name); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s marked as completed.\n", skill.Name)
		return nil
	},
}

// findSkill matches arg against the suggestion's skills by exact name,
// then case-insensitively, then as a 1-based number.
func findSkill(s career.JobSuggestion, arg string) (career.Skill, error) {
	for _, sk := range s.Skills {
		if sk.Name == arg {
			return sk, nil
		}
	}
	for _, sk := range s.Skills {
		if strings.EqualFold(sk.Name, arg) {
			return sk, nil
		}
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(s.Skills) {
		return s.Skills[n-1], nil
	}
	return career.Skill{}, fmt.Errorf("%w: %q in %s", career.ErrSkillNotFound, arg, s.JobRole)
}

// collectAnswers asks every question in order. Answers are keyed by
// question text; skipped questions are left out.
func collectAnswers(p *prompter, a career.Assessment) (map[string]string, error) {
	answers := make(map[string]string, len(a.MCQs)+len(a.TheoryQuestions))
	n := 0

	for _, q := range a.MCQs {
		n++
		ans, err := p.choose(fmt.Sprintf("Q%d. %s", n, q.Question), q.Options, true)
		if err != nil {
			return nil, err
		}
		if ans != "" {
			answers[q.Question] = ans
		}
		fmt.Fprintln(p.out)
	}
	for _, q := range a.TheoryQuestions {
		n++
		fmt.Fprintf(p.out, "Q%d. %s\n", n, q.Question)
		ans, err := p.line("> ")
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(ans) != "" {
			answers[q.Question] = ans
		}
		fmt.Fprintln(p.out)
	}
	return answers, nil
}

func printResult(w io.Writer, r career.EvaluationResult) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintln(w, sep)
	if r.Passed {
		fmt.Fprintln(w, "Congratulations, you passed!")
	} else {
		fmt.Fprintln(w, "Not quite there yet. Keep learning and try again.")
	}
	fmt.Fprintf(w, "Your Score: %d / %d\n", r.Score, r.Total)
	if r.Feedback != "" {
		fmt.Fprintf(w, "\n%s\n", r.Feedback)
	}
	fmt.Fprintln(w, sep)

	for j, d := range r.DetailedResults {
		mark := "✓"
		if !d.IsCorrect {
			mark = "✗"
		}
		fmt.Fprintf(w, "\n%s %d. %s\n", mark, j+1, d.Question)
		answer := d.UserAnswer
		if answer == "" {
			answer = "(no answer)"
		}
		fmt.Fprintf(w, "   Your answer:    %s\n", answer)
		if !d.IsCorrect && d.CorrectAnswer != "" {
			fmt.Fprintf(w, "   Correct answer: %s\n", d.CorrectAnswer)
		}
		if d.Explanation != "" {
			fmt.Fprintf(w, "   %s\n", d.Explanation)
		}
	}
}
