package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/careerpilot/careerpilot/internal/app"
	"github.com/careerpilot/careerpilot/internal/guidance"
	"github.com/careerpilot/careerpilot/internal/session"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Generate your career plan",
	Long: "Generate a career plan from a short questionnaire (fresher) or from your " +
		"skills, projects and achievements (experienced). A new plan replaces the " +
		"previous one, including its progress.",
}

var onboardFresherCmd = &cobra.Command{
	Use:   "fresher",
	Short: "Answer the questionnaire for your area of interest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		trackFlag, _ := cmd.Flags().GetString("track")
		raw, _ := cmd.Flags().GetStringArray("answer")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if _, ok := a.Session.Current(); !ok {
			return session.ErrNoActiveSession
		}

		p := newPrompter(cmd)
		if trackFlag == "" {
			if trackFlag, err = p.choose("Which area interests you?",
				[]string{string(guidance.TrackSoftware), string(guidance.TrackHardware)}, false); err != nil {
				return err
			}
		}
		track, err := guidance.ParseTrack(trackFlag)
		if err != nil {
			return err
		}

		questions := guidance.QuestionsFor(track)
		answers, err := parseAnswers(questions, raw)
		if err != nil {
			return err
		}
		for _, q := range questions {
			if answers[q.ID] != "" {
				continue
			}
			if answers[q.ID], err = p.choose(q.Prompt, q.Options, false); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}

		return generatePlan(cmd, a, guidance.FresherInput{Track: track, Answers: answers})
	},
}

var onboardExperiencedCmd = &cobra.Command{
	Use:   "experienced",
	Short: "Describe your skills, projects and achievements",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := guidance.ExperiencedInput{}
		in.Skills, _ = cmd.Flags().GetString("skills")
		in.Projects, _ = cmd.Flags().GetString("projects")
		in.Achievements, _ = cmd.Flags().GetString("achievements")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if _, ok := a.Session.Current(); !ok {
			return session.ErrNoActiveSession
		}

		p := newPrompter(cmd)
		fields := []struct {
			label string
			dst   *string
		}{
			{"Key skills learnt: ", &in.Skills},
			{"Notable projects: ", &in.Projects},
			{"Key achievements: ", &in.Achievements},
		}
		for _, f := range fields {
			if strings.TrimSpace(*f.dst) != "" {
				continue
			}
			if *f.dst, err = p.line(f.label); err != nil {
				return err
			}
		}

		return generatePlan(cmd, a, in)
	},
}

// generatePlan asks the advisor for a plan and assigns it to the signed-in
// user.
func generatePlan(cmd *cobra.Command, a *app.App, in guidance.Input) error {
	if err := in.Validate(); err != nil {
		return err
	}
	advisor, err := a.Advisor(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Crafting your personalized career plan...")
	plan, err := advisor.CareerPlan(cmd.Context(), in)
	if err != nil {
		return err
	}
	sess, err := a.Session.AssignPlan(cmd.Context(), plan)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout())
	printPlanSummary(cmd.OutOrStdout(), sess.CareerPlan)
	return nil
}

// parseAnswers turns id=value pairs into answers. value is an option's
// number (from 1) or its exact text.
func parseAnswers(questions []guidance.Question, raw []string) (map[string]string, error) {
	byID := make(map[string]guidance.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	answers := make(map[string]string, len(questions))
	for _, kv := range raw {
		id, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --answer %q (want id=value)", kv)
		}
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown question %q", id)
		}
		option, err := matchOption(q, strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		answers[id] = option
	}
	return answers, nil
}

func matchOption(q guidance.Question, value string) (string, error) {
	if n, err := strconv.Atoi(value); err == nil {
		if n >= 1 && n <= len(q.Options) {
			return q.Options[n-1], nil
		}
		return "", fmt.Errorf("question %q has options 1-%d, got %d", q.ID, len(q.Options), n)
	}
	for _, o := range q.Options {
		if o == value {
			return o, nil
		}
	}
	return "", fmt.Errorf("%q is not an option of question %q", value, q.ID)
}

func init() {
	onboardFresherCmd.Flags().String("track", "", "Area of interest: software or hardware")
	onboardFresherCmd.Flags().StringArray("answer", nil, "Answer as question-id=option (number or text); repeatable")

	onboardExperiencedCmd.Flags().String("skills", "", "Key skills learnt")
	onboardExperiencedCmd.Flags().String("projects", "", "Notable projects")
	onboardExperiencedCmd.Flags().String("achievements", "", "Key achievements")

	onboardCmd.AddCommand(onboardFresherCmd)
	onboardCmd.AddCommand(onboardExperiencedCmd)
}
