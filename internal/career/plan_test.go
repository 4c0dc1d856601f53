package career

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *Plan {
	return &Plan{Suggestions: []JobSuggestion{
		{
			JobRole:         "Backend Engineer",
			Reason:          "Enjoys infrastructure work",
			MatchPercentage: 88,
			Skills: []Skill{
				{Name: "Go", Description: "Systems language"},
				{Name: "SQL", Description: "Relational queries"},
			},
			MarketInsight: "Steady demand",
		},
		{
			JobRole:         "Data Analyst",
			Reason:          "Likes insights",
			MatchPercentage: 70,
			Skills:          []Skill{{Name: "Pandas", Description: "Dataframes"}},
		},
	}}
}

func TestPassed(t *testing.T) {
	tests := []struct {
		score, total int
		want         bool
	}{
		{2, 4, true},
		{2, 5, false},
		{3, 5, true},
		{0, 5, false},
		{5, 5, true},
		{0, 0, false},
	}
	for _, tt := range tests {
		if got := Passed(tt.score, tt.total); got != tt.want {
			t.Errorf("Passed(%d, %d) = %v, want %v", tt.score, tt.total, got, tt.want)
		}
	}
}

func TestDisplayNameFor(t *testing.T) {
	assert.Equal(t, "alice", DisplayNameFor("alice@example.com"))
	assert.Equal(t, "User", DisplayNameFor("@example.com"))
	assert.Equal(t, "bob", DisplayNameFor("bob"))
}

func TestClone_IsDeep(t *testing.T) {
	p := testPlan()
	c := p.Clone()
	require.Equal(t, p, c)

	c.Suggestions[0].Skills[0].Completed = true
	assert.False(t, p.Suggestions[0].Skills[0].Completed, "clone must not share skill slices")

	var nilPlan *Plan
	assert.Nil(t, nilPlan.Clone())
}

func TestCompleteSkill(t *testing.T) {
	p := testPlan()

	require.NoError(t, p.CompleteSkill(0, "SQL"))
	assert.True(t, p.Suggestions[0].Skills[1].Completed)
	assert.False(t, p.Suggestions[0].Skills[0].Completed)

	// Completing twice stays completed.
	require.NoError(t, p.CompleteSkill(0, "SQL"))
	assert.True(t, p.Suggestions[0].Skills[1].Completed)

	err := p.CompleteSkill(0, "Rust")
	assert.True(t, errors.Is(err, ErrSkillNotFound))

	err = p.CompleteSkill(5, "Go")
	assert.True(t, errors.Is(err, ErrSuggestionNotFound))

	var nilPlan *Plan
	assert.True(t, errors.Is(nilPlan.CompleteSkill(0, "Go"), ErrNoPlan))
}

func TestProgress(t *testing.T) {
	p := testPlan()
	require.NoError(t, p.CompleteSkill(0, "Go"))

	done, total, pct := p.Suggestions[0].Progress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)
	assert.InDelta(t, 50.0, pct, 0.001)

	done, total, pct = JobSuggestion{}.Progress()
	assert.Zero(t, done)
	assert.Zero(t, total)
	assert.Zero(t, pct)
}

func TestAccountSession_DropsCredential(t *testing.T) {
	a := Account{Email: "a@b.co", Credential: "Secret1!x", DisplayName: "a", CareerPlan: testPlan()}
	s := a.Session()

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")
	assert.NotContains(t, string(b), "Secret1!x")

	s.CareerPlan.Suggestions[0].Skills[0].Completed = true
	assert.False(t, a.CareerPlan.Suggestions[0].Skills[0].Completed)
}

func TestSessionDecode_IgnoresStoredCredential(t *testing.T) {
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"email":"a@b.co","password":"leak","name":"a"}`), &s))

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "leak")
}

func TestAccountUpdate_Apply(t *testing.T) {
	a := Account{Email: "a@b.co", Credential: "pw", DisplayName: "a"}
	name := "Alice"
	AccountUpdate{DisplayName: &name}.Apply(&a)
	assert.Equal(t, "Alice", a.DisplayName)
	assert.Nil(t, a.CareerPlan)
	assert.Equal(t, "pw", a.Credential)

	plan := testPlan()
	AccountUpdate{CareerPlan: plan}.Apply(&a)
	assert.Equal(t, plan, a.CareerPlan)
	assert.Equal(t, "Alice", a.DisplayName)
}

func TestAssessmentQuestions(t *testing.T) {
	a := Assessment{
		MCQs:            []MCQ{{Question: "q1"}, {Question: "q2"}},
		TheoryQuestions: []TheoryQuestion{{Question: "t1"}},
	}
	assert.Equal(t, []string{"q1", "q2", "t1"}, a.Questions())
}
