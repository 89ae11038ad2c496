package domain

// Role is the coarse permission level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is a recognized role.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// AuthProvider records how a user signs in.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// User represents an account of the back office.
type User struct {
	UserID       string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         Role         `json:"role"`
	IsActive     bool         `json:"isActive"`
	AuthProvider AuthProvider `json:"authProvider"`
	Timestamps
}

// Identity is the authenticated caller resolved from a bearer credential.
type Identity struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the administrator role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IdentityOf builds the identity view of a user.
func IdentityOf(u *User) Identity {
	return Identity{
		UserID: u.UserID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	}
}

// GoogleProfile is the verified subset of a Google ID token used to sign a user in.
type GoogleProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}
