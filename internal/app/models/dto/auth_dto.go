package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@tam.events"`
	Password string `json:"password" binding:"required" example:"changeme123"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"43200"`
}

// AdminUserResponse is the public view of a console user
type AdminUserResponse struct {
	ID          int64  `json:"id" example:"1"`
	Email       string `json:"email" example:"admin@tam.events"`
	DisplayName string `json:"displayName" example:"TAM Admin"`
	RoleType    string `json:"roleType" example:"ADMIN"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse     `json:"token"`
	User  AdminUserResponse `json:"user"`
}
