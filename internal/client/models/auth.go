package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both login and registration. UserID is nil
// when the server omits it; it is then taken from the token claims.
type AuthResponse struct {
	Token  string `json:"token"`
	UserID *int64 `json:"user_id,omitempty"`
}
