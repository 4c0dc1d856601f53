package guidance

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteInput is returned by the form checks when onboarding input
// is missing a required answer or field.
var ErrIncompleteInput = errors.New("incomplete onboarding input")

// Input is the onboarding data a career plan is generated from. It is
// either a FresherInput or an ExperiencedInput.
type Input interface {
	// Validate runs the form-level checks for this input kind.
	Validate() error

	isInput()
}

// FresherInput holds the answers of a fresher, keyed by Question.ID of the
// track's bank.
type FresherInput struct {
	Track   Track
	Answers map[string]string
}

func (FresherInput) isInput() {}

// Validate checks that every question of the track's bank has a non-blank
// answer and that no unknown question IDs are present.
func (in FresherInput) Validate() error {
	questions := QuestionsFor(in.Track)
	if questions == nil {
		return fmt.Errorf("%w: unknown track %q", ErrIncompleteInput, in.Track)
	}

	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
		if strings.TrimSpace(in.Answers[q.ID]) == "" {
			return fmt.Errorf("%w: question %q is unanswered", ErrIncompleteInput, q.ID)
		}
	}
	for id := range in.Answers {
		if !known[id] {
			return fmt.Errorf("%w: unknown question %q for track %s", ErrIncompleteInput, id, in.Track)
		}
	}
	return nil
}

// ExperiencedInput holds the three free-text fields of an experienced user.
type ExperiencedInput struct {
	Skills       string
	Projects     string
	Achievements string
}

func (ExperiencedInput) isInput() {}

// Validate checks that all three fields are filled in.
func (in ExperiencedInput) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"skills", in.Skills},
		{"projects", in.Projects},
		{"achievements", in.Achievements},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrIncompleteInput, f.name)
		}
	}
	return nil
}
