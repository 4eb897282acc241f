package models

import "time"

type Role string

const (
	RoleReader Role = "reader"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID           int
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin is nil-safe so templates can call it on an anonymous (nil) user.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type Session struct {
	ID        string
	UserID    int
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

type BlogPost struct {
	ID         int
	AuthorID   int
	AuthorName string
	Title      string
	Subtitle   string
	Date       string
	Body       string
	ImgURL     string
}

type Comment struct {
	ID          int
	PostID      int
	AuthorID    int
	AuthorName  string
	AuthorEmail string
	Text        string
	CreatedAt   time.Time
}
