package entity

import "time"

const (
	RoleReader = "reader"
	RoleAdmin  = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ContentID string    `json:"content_id"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ContentID string    `json:"content_id"`
	ReadAt    time.Time `json:"read_at"`
}

type ProfileStats struct {
	Bookmarks int64 `json:"bookmarks"`
	History   int64 `json:"history"`
}
