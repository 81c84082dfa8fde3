// internal/app/features/users/types.go
package usersfeature

// CreateRequest is the body for POST /api/users.
type CreateRequest struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// RenameRequest is the body for PUT /api/users/{username}/username.
type RenameRequest struct {
	Username string `json:"username"`
}
