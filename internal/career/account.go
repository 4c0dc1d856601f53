package career

import "strings"

// Account is a persisted user record. It is the only type that carries the
// credential; everything handed to callers outside the record store is a
// Session.
//
// The JSON names (email, password, name, careerPlan) are the stored record
// format. Renaming them orphans existing documents.
type Account struct {
	Email       string `json:"email"`
	Credential  string `json:"password"`
	DisplayName string `json:"name,omitempty"`
	CareerPlan  *Plan  `json:"careerPlan,omitempty"`
}

// Session is the credential-free projection of an Account. It has no
// credential field, so decoding a stored session that still carries one
// drops it.
type Session struct {
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
	CareerPlan  *Plan  `json:"careerPlan,omitempty"`
}

// Session projects the account into its session form. The plan is deep
// copied so later edits to the session never reach the stored record.
func (a Account) Session() Session {
	return Session{
		Email:       a.Email,
		DisplayName: a.DisplayName,
		CareerPlan:  a.CareerPlan.Clone(),
	}
}

// AccountUpdate is a partial update merged into an Account. Nil fields are
// left untouched. There is deliberately no credential field.
type AccountUpdate struct {
	DisplayName *string
	CareerPlan  *Plan
}

// Apply merges u into a, last write wins per field.
func (u AccountUpdate) Apply(a *Account) {
	if u.DisplayName != nil {
		a.DisplayName = *u.DisplayName
	}
	if u.CareerPlan != nil {
		a.CareerPlan = u.CareerPlan.Clone()
	}
}

// DisplayNameFor derives the default display name from an email address:
// the local part, or "User" when the local part is empty.
func DisplayNameFor(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "User"
	}
	return local
}
