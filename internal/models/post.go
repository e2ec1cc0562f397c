package models

import (
	"time"

	"gorm.io/datatypes"
)

// Like records that a user liked a post. At most one per user per post.
type Like struct {
	ID     string `json:"id"`
	UserID uint   `json:"user_id"`
}

// Comment is a reply embedded in a Post. Name and Avatar are copied from
// the author when the comment is written.
type Comment struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is the post aggregate. Likes and Comments are stored newest first
// inside the post row; Name and Avatar snapshot the author at creation.
type Post struct {
	ID        uint                         `gorm:"primaryKey" json:"id"`
	UserID    uint                         `gorm:"not null;index" json:"user_id"`
	Text      string                       `gorm:"type:text;not null" json:"text"`
	Name      string                       `json:"name"`
	Avatar    string                       `json:"avatar"`
	Likes     datatypes.JSONSlice[Like]    `json:"likes"`
	Comments  datatypes.JSONSlice[Comment] `json:"comments"`
	Version   uint                         `gorm:"not null;default:1" json:"-"`
	CreatedAt time.Time                    `gorm:"index" json:"created_at"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

// EnsureLists replaces nil embedded lists with empty ones so they encode as [].
func (p *Post) EnsureLists() {
	if p.Likes == nil {
		p.Likes = datatypes.JSONSlice[Like]{}
	}
	if p.Comments == nil {
		p.Comments = datatypes.JSONSlice[Comment]{}
	}
}

// LikedBy reports whether userID already likes the post.
func (p *Post) LikedBy(userID uint) bool {
	for _, like := range p.Likes {
		if like.UserID == userID {
			return true
		}
	}
	return false
}
