package model

import (
	"time"
)

// 性别
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Actor 演员作品集
type Actor struct {
	ID          int64       `gorm:"primaryKey" json:"id"`
	UserID      int64       `gorm:"not null;uniqueIndex" json:"user_id"`
	DisplayName string      `gorm:"size:100;not null" json:"display_name"`
	Gender      string      `gorm:"size:10;index" json:"gender"`
	BirthDate   *time.Time  `json:"birth_date,omitempty"`
	Bio         string      `gorm:"type:text" json:"bio"`
	Experience  string      `gorm:"type:text" json:"experience"`
	Education   string      `gorm:"type:text" json:"education"`
	Links       StringArray `gorm:"type:json" json:"links,omitempty"`
	LikeCounters
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	User   *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Images []*ActorImage `gorm:"foreignKey:ActorID" json:"images,omitempty"`
}

func (Actor) TableName() string {
	return "actors"
}

// ActorImage 作品集图片，IsMain 标记主图
type ActorImage struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ActorID   int64     `gorm:"not null;index" json:"actor_id"`
	URL       string    `gorm:"size:500;not null" json:"url"`
	IsMain    bool      `gorm:"default:false;index" json:"is_main"`
	CreatedAt time.Time `json:"created_at"`
}

func (ActorImage) TableName() string {
	return "actor_images"
}
