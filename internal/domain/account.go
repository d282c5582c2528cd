package domain

import "time"

// Account represents a creator or supporter identity. Accounts are created on
// first federated login and keyed by email.
type Account struct {
	ID                 string
	Email              string
	Name               string
	Username           string
	AvatarURL          string
	CoverURL           string
	Project            string
	ProjectLink        string
	ProjectDescription string

	// Gateway credential pair. Either both are set or neither is.
	RazorpayKeyID     string
	RazorpayKeySecret string

	Provider        string
	ProviderSubject string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PaymentsEnabled reports whether the account can receive payments through
// its own gateway credentials.
func (a Account) PaymentsEnabled() bool {
	return a.RazorpayKeyID != "" && a.RazorpayKeySecret != ""
}

// ProfileUpdate carries the fields an account owner may edit.
type ProfileUpdate struct {
	Name               string
	Username           string
	AvatarURL          string
	CoverURL           string
	Project            string
	ProjectLink        string
	ProjectDescription string
	RazorpayKeyID      string
	RazorpayKeySecret  string
}
