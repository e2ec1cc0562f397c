package models

import (
	"time"

	"gorm.io/datatypes"
)

// SocialLinks holds the optional per-platform profile URLs.
type SocialLinks struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is a job entry embedded in a Profile.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is a schooling entry embedded in a Profile.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Profile is the per-user profile aggregate. Experience and Education are
// stored newest first inside the profile row.
type Profile struct {
	ID             uint                            `gorm:"primaryKey" json:"id"`
	UserID         uint                            `gorm:"not null;uniqueIndex" json:"-"`
	User           *User                           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Company        string                          `json:"company,omitempty"`
	Website        string                          `json:"website,omitempty"`
	Location       string                          `json:"location,omitempty"`
	Bio            string                          `gorm:"type:text" json:"bio,omitempty"`
	Status         string                          `gorm:"not null" json:"status"`
	GithubUsername string                          `json:"githubusername,omitempty"`
	Skills         datatypes.JSONSlice[string]     `json:"skills"`
	Social         SocialLinks                     `gorm:"embedded;embeddedPrefix:social_" json:"social"`
	Experience     datatypes.JSONSlice[Experience] `json:"experience"`
	Education      datatypes.JSONSlice[Education]  `json:"education"`
	Version        uint                            `gorm:"not null;default:1" json:"-"`
	CreatedAt      time.Time                       `json:"created_at"`
	UpdatedAt      time.Time                       `json:"updated_at"`
}

// EnsureLists replaces nil embedded lists with empty ones so they encode as [].
func (p *Profile) EnsureLists() {
	if p.Skills == nil {
		p.Skills = datatypes.JSONSlice[string]{}
	}
	if p.Experience == nil {
		p.Experience = datatypes.JSONSlice[Experience]{}
	}
	if p.Education == nil {
		p.Education = datatypes.JSONSlice[Education]{}
	}
}
