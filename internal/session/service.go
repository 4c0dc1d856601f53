// Package session holds the signed-in user for one running process and
// mirrors it into the currentUser record.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/careerpilot/careerpilot/internal/account"
	"github.com/careerpilot/careerpilot/internal/career"
	"github.com/careerpilot/careerpilot/internal/records"
)

var (
	// ErrNoActiveSession is returned by operations that need a signed-in user.
	ErrNoActiveSession = errors.New("no active session")

	// ErrNotRestored is returned when an operation runs before Restore.
	ErrNotRestored = errors.New("session not restored")
)

// State is the lifecycle phase of a Service.
type State int

const (
	StateUninitialized State = iota // Restore not called yet
	StateLoading                    // Restore in progress
	StateAuthenticated              // A user is signed in
	StateAnonymous                  // No user is signed in
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Service is the session context. Build one per process with NewService
// and call Restore before anything else.
type Service struct {
	accounts *account.Manager
	repo     records.Repository
	log      *zap.Logger

	mu      sync.Mutex
	state   State
	current career.Session
}

// NewService creates a Service in StateUninitialized. log may be nil.
func NewService(accounts *account.Manager, repo records.Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{accounts: accounts, repo: repo, log: log}
}

// State returns the current lifecycle phase.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns a copy of the signed-in session.
func (s *Service) Current() (career.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return career.Session{}, false
	}
	return clone(s.current), true
}

// Restore re-hydrates the session from the currentUser record. A missing
// or unreadable record leaves the service anonymous. Restore may be called
// again to reload.
func (s *Service) Restore(ctx context.Context) error {
	s.mu.Lock()
	prev := s.state
	s.state = StateLoading
	s.mu.Unlock()

	stored, err := s.repo.LoadSession(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = prev
		return fmt.Errorf("restore session: %w", err)
	}
	if stored == nil {
		s.state = StateAnonymous
		s.current = career.Session{}
		return nil
	}
	s.state = StateAuthenticated
	s.current = *stored
	s.log.Debug("session restored", zap.String("email", stored.Email))
	return nil
}

// Signup registers an account. It does not sign the user in.
func (s *Service) Signup(ctx context.Context, email, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	return s.accounts.Signup(ctx, email, credential)
}

// Login verifies the credentials, then signs the user in and persists the
// session. A failed login leaves the current state untouched.
func (s *Service) Login(ctx context.Context, email, credential string) (career.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return career.Session{}, err
	}

	sess, err := s.accounts.Login(ctx, email, credential)
	if err != nil {
		return career.Session{}, err
	}
	if err := s.set(ctx, sess); err != nil {
		return career.Session{}, err
	}
	s.log.Info("signed in", zap.String("email", email))
	return clone(sess), nil
}

// Logout signs the user out and clears the currentUser record. Logging out
// while anonymous only clears the record.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}

	if err := s.repo.ClearSession(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if s.state == StateAuthenticated {
		s.log.Info("signed out", zap.String("email", s.current.Email))
	}
	s.state = StateAnonymous
	s.current = career.Session{}
	return nil
}

// UpdateUser merges u into the signed-in account and refreshes the session
// from the stored record.
func (s *Service) UpdateUser(ctx context.Context, u career.AccountUpdate) (career.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, u)
}

// ChangePassword replaces the signed-in user's credential.
func (s *Service) ChangePassword(ctx context.Context, current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authenticated(); err != nil {
		return err
	}

	sess, err := s.accounts.ChangePassword(ctx, s.current.Email, current, next)
	if err != nil {
		return err
	}
	return s.set(ctx, sess)
}

// AssignPlan replaces the signed-in user's career plan. Progress recorded
// against the previous plan is dropped.
func (s *Service) AssignPlan(ctx context.Context, plan career.Plan) (career.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, career.AccountUpdate{CareerPlan: &plan})
}

// CompleteSkill marks a skill of the signed-in user's plan as completed.
func (s *Service) CompleteSkill(ctx context.Context, suggestion int, skillName string) (career.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authenticated(); err != nil {
		return career.Session{}, err
	}

	plan := s.current.CareerPlan.Clone()
	if err := plan.CompleteSkill(suggestion, skillName); err != nil {
		return career.Session{}, err
	}
	return s.update(ctx, career.AccountUpdate{CareerPlan: plan})
}

// update must be called with mu held.
func (s *Service) update(ctx context.Context, u career.AccountUpdate) (career.Session, error) {
	if err := s.authenticated(); err != nil {
		return career.Session{}, err
	}

	sess, err := s.accounts.Update(ctx, s.current.Email, u)
	if err != nil {
		return career.Session{}, err
	}
	if err := s.set(ctx, sess); err != nil {
		return career.Session{}, err
	}
	return clone(sess), nil
}

// set persists sess as currentUser and makes it the signed-in session.
func (s *Service) set(ctx context.Context, sess career.Session) error {
	if err := s.repo.SaveSession(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.state = StateAuthenticated
	s.current = sess
	return nil
}

func (s *Service) ready() error {
	switch s.state {
	case StateUninitialized, StateLoading:
		return ErrNotRestored
	}
	return nil
}

func (s *Service) authenticated() error {
	if err := s.ready(); err != nil {
		return err
	}
	if s.state != StateAuthenticated {
		return ErrNoActiveSession
	}
	return nil
}

func clone(sess career.Session) career.Session {
	sess.CareerPlan = sess.CareerPlan.Clone()
	return sess
}
