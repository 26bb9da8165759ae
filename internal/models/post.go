package models

import (
	"time"

	"gorm.io/datatypes"
)

// Difficulty levels a dish can be tagged with, in ascending order.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
	DifficultyExpert       = "expert"
)

// ValidDifficulty reports whether d is one of the fixed difficulty levels.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert:
		return true
	}
	return false
}

// Ingredient is a single recipe line. Quantity and unit are free-form
// strings, never parsed units.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// Post represents a posted dish. The author join is mandatory: a post is
// never served without its user row.
type Post struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Author      User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"author"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	RecipeNotes string `gorm:"type:text" json:"recipe_notes"`
	ImageURL    string `json:"image_url"`
	ImageKey    string `json:"image_key,omitempty"`
	// Tags keeps insertion order for display; set semantics are enforced
	// on the way in.
	Tags        datatypes.JSONSlice[string]     `json:"tags"`
	CookTime    *int                            `json:"cook_time,omitempty"`
	Difficulty  string                          `gorm:"size:20" json:"difficulty,omitempty"`
	Servings    *int                            `json:"servings,omitempty"`
	Ingredients datatypes.JSONSlice[Ingredient] `json:"ingredients,omitempty"`
	AITip       string                          `gorm:"column:ai_tip;type:text" json:"ai_tip,omitempty"`
	CreatedAt   time.Time                       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time                       `json:"updated_at"`

	// LikeCount is not persisted; computed at query time.
	LikeCount int `gorm:"->;-:migration" json:"like_count"`
	// IsLiked indicates whether the requesting viewer liked this post (computed).
	IsLiked bool `gorm:"->;-:migration" json:"is_liked"`
}
