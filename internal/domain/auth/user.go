package auth

import "time"

// Role distinguishes the three kinds of platform users.
type Role string

const (
	RoleClient Role = "client"
	RoleExpert Role = "expert"
	RoleAdmin  Role = "admin"
)

// User is a platform account: a client requesting services, an expert
// handling them, or an administrator.
type User struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Name         string    `gorm:"column:name" json:"name"`
	FirstName    string    `gorm:"column:first_name" json:"first_name"`
	Role         Role      `gorm:"column:role" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string { return "users" }

// FullName is the display name used in chat payloads and notifications.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.Name
	}
	return u.Name + " " + u.FirstName
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
