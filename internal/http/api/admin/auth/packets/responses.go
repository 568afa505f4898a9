package packets

// UserResponse is the public projection of an account; the password digest
// is never serialized.
type UserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type ChangePasswordResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}
