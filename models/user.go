package models

import "time"

// UserRole соответствует ENUM user_role в БД.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"     // глобальный администратор платформы
	RoleOrganizer UserRole = "organizer" // владелец организации
	RolePlayer    UserRole = "player"
	RoleFan       UserRole = "fan"
)

type User struct {
	ID              int       `json:"id" db:"id"`
	Email           string    `json:"email" db:"email"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	Name            string    `json:"name" db:"name"`
	Role            UserRole  `json:"role" db:"role"`
	OrganizationID  *int      `json:"organization_id,omitempty" db:"organization_id"`
	XPTotal         float64   `json:"xp_total" db:"xp_total"`
	ProfileImageURL string    `json:"profile_image_url" db:"profile_image_url"`
	TeamName        string    `json:"team_name,omitempty" db:"team_name"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// IsGlobalAdmin reports whether the user holds the platform-wide admin role.
func (u *User) IsGlobalAdmin() bool {
	return u.Role == RoleAdmin
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
