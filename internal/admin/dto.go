package admin

import (
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/users"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	"github.com/google/uuid"
)

// CreateUserRequest provisions a new identity with an initial role.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2,max=120"`
	Role     string `json:"role" validate:"required,oneof=admin editor viewer"`
}

// DeleteUserRequest removes an identity by ID.
type DeleteUserRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// UpdateUserRoleRequest changes the target identity's role.
type UpdateUserRoleRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"required,oneof=admin editor viewer"`
}

// UpdateUserRoleResponse reports what was actually persisted.
type UpdateUserRoleResponse struct {
	UserID     uuid.UUID        `json:"user_id"`
	Role       enums.UIRole     `json:"role"`
	StoredRole enums.StoredRole `json:"stored_role"`
}

// UserSummary is the admin-facing listing row.
type UserSummary struct {
	*users.UserDTO
	HasRole bool `json:"has_role"`
}
