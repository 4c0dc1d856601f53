package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpilot/careerpilot/internal/account"
	"github.com/careerpilot/careerpilot/internal/career"
	"github.com/careerpilot/careerpilot/internal/guidance"
	"github.com/careerpilot/careerpilot/internal/llm"
	"github.com/careerpilot/careerpilot/internal/session"
	"github.com/careerpilot/careerpilot/internal/store"
)

func testPrompter(input string) (*prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return &prompter{in: bufio.NewReader(strings.NewReader(input)), out: &out, fd: -1}, &out
}

func TestPrompter_Line(t *testing.T) {
	p, out := testPrompter("hello\r\nlast")

	got, err := p.line("> ")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	got, err = p.line("> ")
	require.NoError(t, err)
	assert.Equal(t, "last", got, "final line without newline")

	_, err = p.line("> ")
	require.Error(t, err)
	assert.Equal(t, "> > > ", out.String())
}

func TestPrompter_Choose(t *testing.T) {
	p, out := testPrompter("7\nabc\n2\n")

	got, err := p.choose("Pick one", []string{"red", "green", "blue"}, false)
	require.NoError(t, err)
	assert.Equal(t, "green", got)
	assert.Equal(t, 2, strings.Count(out.String(), "Please enter one of the numbers above."))
}

func TestPrompter_ChooseOptional(t *testing.T) {
	p, _ := testPrompter("\n")

	got, err := p.choose("Pick one", []string{"a", "b"}, true)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	// Required questions do not accept a blank answer and fail at EOF.
	p, _ = testPrompter("\n")
	_, err = p.choose("Pick one", []string{"a", "b"}, false)
	require.Error(t, err)
}

func TestParseAnswers(t *testing.T) {
	q := guidance.SoftwareQuestions[0]

	answers, err := parseAnswers(guidance.SoftwareQuestions, []string{
		q.ID + "=2",
		guidance.SoftwareQuestions[1].ID + "=" + guidance.SoftwareQuestions[1].Options[0],
	})
	require.NoError(t, err)
	assert.Equal(t, q.Options[1], answers[q.ID])
	assert.Equal(t, guidance.SoftwareQuestions[1].Options[0], answers[guidance.SoftwareQuestions[1].ID])

	tests := []struct {
		name string
		raw  string
	}{
		{"no separator", q.ID},
		{"unknown question", "favouriteColour=1"},
		{"option out of range", q.ID + "=9"},
		{"unknown option text", q.ID + "=Something else"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAnswers(guidance.SoftwareQuestions, []string{tt.raw})
			require.Error(t, err)
		})
	}
}

func TestFindSkill(t *testing.T) {
	s := career.JobSuggestion{
		JobRole: "Backend Developer",
		Skills:  []career.Skill{{Name: "Go"}, {Name: "SQL"}, {Name: "go"}},
	}

	tests := []struct {
		arg  string
		want string
	}{
		{"go", "go"},
		{"Go", "Go"},
		{"sql", "SQL"},
		{"2", "SQL"},
	}
	for _, tt := range tests {
		got, err := findSkill(s, tt.arg)
		require.NoError(t, err, tt.arg)
		assert.Equal(t, tt.want, got.Name, tt.arg)
	}

	_, err := findSkill(s, "Rust")
	require.ErrorIs(t, err, career.ErrSkillNotFound)
	_, err = findSkill(s, "4")
	require.ErrorIs(t, err, career.ErrSkillNotFound)
}

func TestCollectAnswers(t *testing.T) {
	a := career.Assessment{
		MCQs: []career.MCQ{
			{Question: "Q one", Options: []string{"a", "b", "c", "d"}},
			{Question: "Q two", Options: []string{"a", "b", "c", "d"}},
		},
		TheoryQuestions: []career.TheoryQuestion{{Question: "Explain"}, {Question: "Describe"}},
	}
	p, _ := testPrompter("3\n\nbecause\n\n")

	answers, err := collectAnswers(p, a)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Q one": "c", "Explain": "because"}, answers)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", progressWidth), progressBar(0))
	assert.Equal(t, strings.Repeat("█", 10)+strings.Repeat("░", 10), progressBar(50))
	assert.Equal(t, strings.Repeat("█", progressWidth), progressBar(100))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{account.ErrDuplicateAccount, "An account with this email already exists."},
		{account.ErrInvalidCredentials, "Invalid email or password."},
		{fmt.Errorf("%w: needs a number", account.ErrWeakCredential), "Password must be at least 8 characters"},
		{account.ErrCredentialMismatch, "Incorrect current password."},
		{session.ErrNoActiveSession, "You are not signed in."},
		{career.ErrNoPlan, "You have no career plan yet."},
		{fmt.Errorf("%w: career-plan: boom", guidance.ErrServiceUnavailable), "Could not reach the AI service."},
		{&guidance.MalformedResponseError{Operation: guidance.OpAssessment}, "The AI returned an unusable answer."},
		{fmt.Errorf("%w: assessment: %w", guidance.ErrServiceUnavailable, &llm.ErrAuthentication{Err: errors.New("401")}), "The AI provider rejected the API key."},
		{fmt.Errorf("%w: assessment: %w", guidance.ErrServiceUnavailable, &llm.ErrRateLimit{}), "The AI service is busy"},
		{errors.New("disk on fire"), "disk on fire"},
	}
	for _, tt := range tests {
		assert.True(t, strings.HasPrefix(UserMessage(tt.err), tt.want), "UserMessage(%v) = %q", tt.err, UserMessage(tt.err))
	}
	assert.Empty(t, UserMessage(nil))
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf,
		[]store.PurposeUsage{{Purpose: "career-plan", Calls: 2, InputTokens: 1000, OutputTokens: 500, AvgLatencyMs: 900}},
		[]store.ModelUsage{
			{Model: "gemini-2.5-flash", Calls: 1, InputTokens: 1000, OutputTokens: 500},
			{Model: "mystery-model", Calls: 1},
		},
	)
	out := buf.String()
	assert.Contains(t, out, "career-plan")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: mystery-model")

	buf.Reset()
	printUsage(&buf, nil, nil)
	assert.Equal(t, "No AI usage recorded yet.\n", buf.String())
}

// run executes the root command against a database in dir.
func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	args = append(args,
		"--db", filepath.Join(dir, "careerpilot.db"),
		"--config", filepath.Join(dir, "config.toml"),
	)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAccountFlow(t *testing.T) {
	for _, k := range []string{"CAREERPILOT_STORAGE", "CAREERPILOT_DB", "CAREERPILOT_LOG_FILE", "CAREERPILOT_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()

	out, err := run(t, dir, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")

	_, err = run(t, dir, "Valid1Pass!\nOther1Pass!\n", "signup", "priya@example.com")
	require.ErrorIs(t, err, errPasswordMismatch)

	_, err = run(t, dir, "weak\nweak\n", "signup", "priya@example.com")
	require.ErrorIs(t, err, account.ErrWeakCredential)

	out, err = run(t, dir, "Valid1Pass!\nValid1Pass!\n", "signup", "priya@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Account created successfully!")

	_, err = run(t, dir, "wrong\n", "login", "priya@example.com")
	require.ErrorIs(t, err, account.ErrInvalidCredentials)

	out, err = run(t, dir, "Valid1Pass!\n", "login", "priya@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, priya!")

	_, err = run(t, dir, "", "profile", "name", "Priya", "R")
	require.NoError(t, err)

	out, err = run(t, dir, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Name:   Priya R")
	assert.Contains(t, out, "Plan:   (none yet)")

	_, err = run(t, dir, "", "plan", "show")
	require.ErrorIs(t, err, career.ErrNoPlan)

	_, err = run(t, dir, "Valid1Pass!\nNew1Pass!!\nNew1Pass!!\n", "passwd")
	require.NoError(t, err)

	_, err = run(t, dir, "", "logout")
	require.NoError(t, err)

	_, err = run(t, dir, "", "plan", "show")
	require.ErrorIs(t, err, session.ErrNoActiveSession)

	_, err = run(t, dir, "New1Pass!!\n", "login", "priya@example.com")
	require.NoError(t, err)

	out, err = run(t, dir, "", "llm", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No AI requests recorded yet.")
}
