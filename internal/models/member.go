package models

import "time"

// Role represents the role carried in an access token.
type Role string

const (
	RoleSubscriber Role = "subscriber"
	RoleCIBNMember Role = "cibn_member"
	RoleAdmin      Role = "admin"
)

// CIBNMember mirrors a row of the external Members table. The table is
// the membership system of record; this application never creates or
// deletes rows, it only authenticates against them and stamps LastLogin.
type CIBNMember struct {
	MemberID     string     `json:"MemberId"`
	Surname      string     `json:"Surname"`
	FirstName    string     `json:"FirstName"`
	Email        string     `json:"Email,omitempty"`
	Phone        string     `json:"Phone,omitempty"`
	Arrears      int64      `json:"Arrears"`
	AnnualSub    int64      `json:"AnnualSub"`
	Category     string     `json:"Category"`
	IsActive     bool       `json:"IsActive"`
	LastLogin    *time.Time `json:"LastLogin,omitempty"`
	PasswordHash string     `json:"-"`
}

// FullName returns the member's display name.
func (m *CIBNMember) FullName() string {
	if m.FirstName == "" {
		return m.Surname
	}
	return m.FirstName + " " + m.Surname
}

// User is the authenticated identity stored client-side and embedded in
// API responses.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// AuthSession pairs a user with the access token that authenticated it.
// A non-nil User implies the token was present at load time; when token
// validation fails both are cleared together.
type AuthSession struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
}
