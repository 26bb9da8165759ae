package models

import (
	"time"

	"gorm.io/datatypes"
)

// Auth providers a user account can originate from.
const (
	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"
)

// User represents a registered cook. Usernames are stored lowercase; the
// unique index is the authoritative guard against duplicate registrations.
type User struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Username      string  `gorm:"size:50;uniqueIndex;not null" json:"username"`
	DisplayName   string  `gorm:"size:100;not null" json:"display_name"`
	Email         *string `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	EmailVerified bool    `gorm:"not null;default:false" json:"email_verified"`
	AuthProvider  string  `gorm:"size:20;not null" json:"auth_provider"`
	GoogleID      *string `gorm:"size:255;uniqueIndex" json:"-"`
	AvatarURL     string  `json:"avatar_url"`
	Bio           string  `gorm:"type:text" json:"bio"`
	// KitchenInventory is a semi-structured equipment record; display-only.
	KitchenInventory *datatypes.JSONType[KitchenInventory] `json:"kitchen_inventory,omitempty"`
	CreatedAt        time.Time                             `json:"created_at"`
	UpdatedAt        time.Time                             `json:"updated_at"`

	Posts []Post `gorm:"foreignKey:UserID" json:"posts,omitempty"`

	// Computed at query time for profile views; not persisted.
	PostCount  int `gorm:"->;-:migration" json:"post_count"`
	TotalLikes int `gorm:"->;-:migration" json:"total_likes"`
}

// Author is the slice of a User embedded in feed responses.
type Author struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// AuthorView returns the author projection used by post views.
func (u *User) AuthorView() Author {
	return Author{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}
