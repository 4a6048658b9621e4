package models

// Role is the closed set of account types on the platform.
// Access-control code switches on it exhaustively instead of
// comparing raw strings.
type Role string

const (
	RoleClient  Role = "client"
	RoleArtisan Role = "artisan"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleArtisan, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
