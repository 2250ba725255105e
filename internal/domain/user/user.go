package user

import "strings"

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

// User is a staff account. Password holds either a bcrypt hash or, for
// documents restored from older exports, the plaintext secret.
type User struct {
	ID       int64  `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password,omitempty" yaml:"password"`
	FullName string `json:"fullName" yaml:"fullName"`
	Role     Role   `json:"role" yaml:"role"`
}

// Public is the cached session projection of a User; it never carries the secret.
type Public struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

func (u User) Public() Public {
	return Public{ID: u.ID, Username: u.Username, FullName: u.FullName, Role: u.Role}
}

func (p Public) IsAdmin() bool { return p.Role == RoleAdmin }

// NormalizeUsername is applied to login input before lookup.
func NormalizeUsername(raw string) string {
	return strings.TrimSpace(raw)
}

// HasHashedSecret reports whether Password holds a bcrypt hash rather
// than a plaintext secret.
func (u User) HasHashedSecret() bool {
	p := u.Password
	return len(p) == 60 && (strings.HasPrefix(p, "$2a$") || strings.HasPrefix(p, "$2b$") || strings.HasPrefix(p, "$2y$"))
}
