package model

import "strings"

// Role is the closed set of access levels.
type Role string

const (
	RoleVisitante Role = "VISITANTE"
	RoleMembro    Role = "MEMBRO"
	RoleAdm       Role = "ADM"
)

// ParseRole coerces a stored role to a valid Role, defaulting to RoleMembro.
func ParseRole(value string) Role {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(RoleVisitante):
		return RoleVisitante
	case string(RoleAdm):
		return RoleAdm
	default:
		return RoleMembro
	}
}

// User is a registered person of the community.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	MemberSince string `json:"memberSince,omitempty"`
	Allergies   string `json:"allergies,omitempty"`
}

// Clone returns a copy of u.
func (u User) Clone() User { return u }

// UserPatch carries the fields to change on a user. Nil fields are left untouched.
// Password, when set, replaces the stored credential for the user's email.
type UserPatch struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Role        *Role   `json:"role,omitempty"`
	MemberSince *string `json:"memberSince,omitempty"`
	Allergies   *string `json:"allergies,omitempty"`
	Password    *string `json:"password,omitempty"`
}

// Apply merges p over u.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = ParseRole(string(*p.Role))
	}
	if p.MemberSince != nil {
		u.MemberSince = *p.MemberSince
	}
	if p.Allergies != nil {
		u.Allergies = *p.Allergies
	}
	return u
}

// TrimmedPassword returns the patch password without surrounding blanks.
func (p UserPatch) TrimmedPassword() string {
	if p.Password == nil {
		return ""
	}
	return strings.TrimSpace(*p.Password)
}

// Credential pairs an email with its password hash in the local credential table.
type Credential struct {
	Email        string
	PasswordHash []byte
}

// NormalizeEmail trims and lower-cases an email for comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
