package models

import "time"

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

type UserListParams struct {
	Role   UserRole
	Search string
	Offset int
	Limit  int
}

type UserWithStats struct {
	User
	TotalPoints         int        `json:"total_points"`
	ChallengesCompleted int        `json:"challenges_completed"`
	LastActive          *time.Time `json:"last_active,omitempty"`
}
