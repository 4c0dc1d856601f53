// Package account manages local accounts and their credentials.
//
// Credentials are stored and compared as plain text. This is a local,
// single-user tool, not an identity provider.
package account

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/careerpilot/careerpilot/internal/career"
	"github.com/careerpilot/careerpilot/internal/records"
)

var (
	// ErrDuplicateAccount is returned by Signup when the email is taken.
	ErrDuplicateAccount = errors.New("an account with this email already exists")

	// ErrInvalidCredentials is returned by Login when no account matches
	// both email and credential.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWeakCredential is returned when a new credential fails CheckStrength.
	ErrWeakCredential = errors.New("password does not meet strength requirements")

	// ErrCredentialMismatch is returned when the current credential given
	// to ChangePassword is wrong.
	ErrCredentialMismatch = errors.New("current password is incorrect")

	// ErrAccountNotFound is returned when the account behind a session no
	// longer exists in the users collection.
	ErrAccountNotFound = errors.New("account not found")
)

// Manager creates, verifies and updates accounts in a records.Repository.
// It never creates or clears sessions.
type Manager struct {
	repo records.Repository
	log  *zap.Logger
}

// NewManager creates a Manager. log may be nil.
func NewManager(repo records.Repository, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{repo: repo, log: log}
}

// Signup registers a new account with the default display name. Emails are
// matched exactly and case-sensitively.
func (m *Manager) Signup(ctx context.Context, email, credential string) error {
	accounts, err := m.repo.LoadAccounts(ctx)
	if err != nil {
		return err
	}
	if indexOf(accounts, email) >= 0 {
		return ErrDuplicateAccount
	}

	accounts = append(accounts, career.Account{
		Email:       email,
		Credential:  credential,
		DisplayName: career.DisplayNameFor(email),
	})
	if err := m.repo.SaveAccounts(ctx, accounts); err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	m.log.Info("account created", zap.String("email", email))
	return nil
}

// Login verifies email and credential and returns the credential-free
// session projection. It does not persist the session.
func (m *Manager) Login(ctx context.Context, email, credential string) (career.Session, error) {
	accounts, err := m.repo.LoadAccounts(ctx)
	if err != nil {
		return career.Session{}, err
	}

	i := indexOf(accounts, email)
	if i < 0 || accounts[i].Credential != credential {
		m.log.Info("login rejected", zap.String("email", email))
		return career.Session{}, ErrInvalidCredentials
	}
	return accounts[i].Session(), nil
}

// ChangePassword replaces the credential of email after checking the new
// one's strength and the current one's correctness, in that order.
func (m *Manager) ChangePassword(ctx context.Context, email, current, next string) (career.Session, error) {
	if err := CheckStrength(next); err != nil {
		return career.Session{}, err
	}

	var out career.Session
	err := m.modify(ctx, email, func(a *career.Account) error {
		if a.Credential != current {
			return ErrCredentialMismatch
		}
		a.Credential = next
		out = a.Session()
		return nil
	})
	if err != nil {
		return career.Session{}, err
	}

	m.log.Info("password changed", zap.String("email", email))
	return out, nil
}

// Update merges u into the account of email and returns the new session
// projection. Credentials cannot change here.
func (m *Manager) Update(ctx context.Context, email string, u career.AccountUpdate) (career.Session, error) {
	var out career.Session
	err := m.modify(ctx, email, func(a *career.Account) error {
		u.Apply(a)
		out = a.Session()
		return nil
	})
	if err != nil {
		return career.Session{}, err
	}
	return out, nil
}

// modify loads users, applies fn to the account of email and saves.
// Nothing is saved when fn fails.
func (m *Manager) modify(ctx context.Context, email string, fn func(*career.Account) error) error {
	accounts, err := m.repo.LoadAccounts(ctx)
	if err != nil {
		return err
	}

	i := indexOf(accounts, email)
	if i < 0 {
		return ErrAccountNotFound
	}
	if err := fn(&accounts[i]); err != nil {
		return err
	}

	if err := m.repo.SaveAccounts(ctx, accounts); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

func indexOf(accounts []career.Account, email string) int {
	for i, a := range accounts {
		if a.Email == email {
			return i
		}
	}
	return -1
}
