package domain

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	FullName    string `json:"fullname" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role" binding:"required"`
}

// ChangePasswordRequest is the body of PATCH /profile.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// PrincipalSummary is the body returned by login and signup.
type PrincipalSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// AuthResult couples the summary returned to the client with the session
// token the handler places in the cookie. The token never appears in a
// response body.
type AuthResult struct {
	Principal PrincipalSummary
	Token     string
}

// Profile is the body of GET /profile.
type Profile struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	Role        Role   `json:"role"`
}
