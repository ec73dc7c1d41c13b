package dto

type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

type UserFilter struct {
	Search string `form:"search"`
	Pagination
}

type PaginatedUserResponse struct {
	Data []UserResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// AdminCreateUserRequest is the admin-initiated creation payload. It bypasses
// the confirmation-code flow and may set the role directly.
type AdminCreateUserRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"omitempty,max=150"`
	LastName  string `json:"last_name" binding:"omitempty,max=150"`
	Bio       string `json:"bio" binding:"omitempty,max=200"`
	Role      string `json:"role" binding:"omitempty"`
}

// UpdateUserRequest serves both the admin patch and /users/me. Nil fields are
// left untouched.
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
	Username  *string `json:"username" binding:"omitempty,max=150"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio" binding:"omitempty,max=200"`
	Role      *string `json:"role" binding:"omitempty"`
}
