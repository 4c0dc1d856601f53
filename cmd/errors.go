package cmd

import (
	"errors"
	"net"

	"github.com/careerpilot/careerpilot/internal/account"
	"github.com/careerpilot/careerpilot/internal/app"
	"github.com/careerpilot/careerpilot/internal/career"
	"github.com/careerpilot/careerpilot/internal/guidance"
	"github.com/careerpilot/careerpilot/internal/llm"
	"github.com/careerpilot/careerpilot/internal/session"
)

// UserMessage turns an error from a command into the text shown to the
// user. Errors outside the known taxonomy are shown as they are.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, account.ErrDuplicateAccount):
		return "An account with this email already exists."
	case errors.Is(err, account.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, account.ErrInvalidEmail):
		return "Please enter a valid email address."
	case errors.Is(err, account.ErrWeakCredential):
		return "Password must be at least 8 characters long and include an uppercase letter, " +
			"a lowercase letter, a number, and a special character."
	case errors.Is(err, account.ErrCredentialMismatch):
		return "Incorrect current password."
	case errors.Is(err, errPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, account.ErrAccountNotFound):
		return "Your account could not be found. Please log in again."
	case errors.Is(err, session.ErrNoActiveSession):
		return "You are not signed in. Run `careerpilot login <email>` first."
	case errors.Is(err, career.ErrNoPlan):
		return "You have no career plan yet. Run `careerpilot onboard fresher` or `careerpilot onboard experienced`."
	case errors.Is(err, guidance.ErrIncompleteInput):
		return "Please answer all questions. (" + err.Error() + ")"
	case errors.Is(err, guidance.ErrMalformedResponse):
		return "The AI returned an unusable answer. Please try again."
	case errors.As(err, new(*llm.ErrAuthentication)):
		return "The AI provider rejected the API key. Check the key in your environment or config file."
	case errors.As(err, new(*llm.ErrRateLimit)):
		return "The AI service is busy or your quota is used up. Please wait a moment and try again."
	case errors.As(err, new(net.Error)) && errors.Is(err, guidance.ErrServiceUnavailable):
		return "Could not reach the AI service. Check your internet connection and try again."
	case errors.Is(err, guidance.ErrServiceUnavailable):
		return "Could not reach the AI service. Please try again later."
	case errors.Is(err, app.ErrLLMNotConfigured):
		return "AI features are unavailable: " + err.Error() +
			". Set GEMINI_API_KEY (or another provider key) or configure llm in the config file."
	}
	return err.Error()
}
