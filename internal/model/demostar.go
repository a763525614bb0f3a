package model

import (
	"time"
)

// DemoStar 演员发布的短视频/媒体条目
type DemoStar struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	ActorID   int64  `gorm:"not null;index" json:"actor_id"`
	Title     string `gorm:"size:200;not null" json:"title"`
	Category  string `gorm:"size:50;index" json:"category"`
	URL       string `gorm:"size:500" json:"url"`
	ViewCount int64  `gorm:"default:0" json:"view_count"`
	LikeCounters
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Actor *Actor `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (DemoStar) TableName() string {
	return "demo_stars"
}
