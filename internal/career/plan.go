package career

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPlan is returned when a plan operation runs before onboarding.
	ErrNoPlan = errors.New("no career plan")

	// ErrSuggestionNotFound is returned for an out-of-range suggestion index.
	ErrSuggestionNotFound = errors.New("suggestion not found")

	// ErrSkillNotFound is returned when a skill name is not in the suggestion.
	ErrSkillNotFound = errors.New("skill not found")
)

// Clone returns a deep copy of p. A nil plan clones to nil.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	out := &Plan{}
	if p.Suggestions == nil {
		return out
	}
	out.Suggestions = make([]JobSuggestion, len(p.Suggestions))
	for i, s := range p.Suggestions {
		if s.Skills != nil {
			skills := make([]Skill, len(s.Skills))
			copy(skills, s.Skills)
			s.Skills = skills
		}
		out.Suggestions[i] = s
	}
	return out
}

// Suggestion returns the suggestion at index i.
func (p *Plan) Suggestion(i int) (JobSuggestion, error) {
	if p == nil {
		return JobSuggestion{}, ErrNoPlan
	}
	if i < 0 || i >= len(p.Suggestions) {
		return JobSuggestion{}, fmt.Errorf("%w: index %d of %d", ErrSuggestionNotFound, i, len(p.Suggestions))
	}
	return p.Suggestions[i], nil
}

// CompleteSkill marks the named skill of suggestion i as completed. Marking
// an already completed skill is a no-op.
func (p *Plan) CompleteSkill(i int, skillName string) error {
	if _, err := p.Suggestion(i); err != nil {
		return err
	}
	skills := p.Suggestions[i].Skills
	for j := range skills {
		if skills[j].Name == skillName {
			skills[j].Completed = true
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrSkillNotFound, skillName)
}

// Progress reports how many skills of the suggestion are completed.
func (s JobSuggestion) Progress() (completed, total int, percent float64) {
	total = len(s.Skills)
	for _, sk := range s.Skills {
		if sk.Completed {
			completed++
		}
	}
	if total > 0 {
		percent = float64(completed) / float64(total) * 100
	}
	return completed, total, percent
}
