package models

const (
	RoleAnonymous = "anonymous"
	RoleHost      = "host"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// Principal is the verified caller identity handed to the services. The
// transport layer fills it from the bearer token; services never look at raw
// tokens.
type Principal struct {
	Role          string
	UserID        uint   // organizer/admin only
	EventPublicID string // host only, the one event the credential is bound to
}

func Anonymous() Principal {
	return Principal{Role: RoleAnonymous}
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type HostAuthResponse struct {
	Token         string `json:"token"`
	EventPublicID string `json:"event_public_id"`
	EventTitle    string `json:"event_title"`
}
