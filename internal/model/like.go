package model

import (
	"time"
)

// ItemType 可点赞对象的类型
type ItemType string

const (
	ItemDemoStar  ItemType = "DemoStar"
	ItemPortfolio ItemType = "Portfolio"
)

// Valid 是否为已知类型
func (t ItemType) Valid() bool {
	switch t {
	case ItemDemoStar, ItemPortfolio:
		return true
	}
	return false
}

// Audience 点赞者身份，对应 LikeCounters 中的一个计数
type Audience int

const (
	AudienceMember Audience = iota
	AudienceActor
	AudienceCompany
)

// AudienceOf 根据用户角色得到点赞身份，未知角色按普通会员处理
func AudienceOf(role string) Audience {
	switch role {
	case RoleActor:
		return AudienceActor
	case RoleCompany:
		return AudienceCompany
	default:
		return AudienceMember
	}
}

// CounterColumn 对应的计数列
func (a Audience) CounterColumn() string {
	switch a {
	case AudienceActor:
		return "actor_like_count"
	case AudienceCompany:
		return "company_like_count"
	default:
		return "member_like_count"
	}
}

// Like 点赞/收藏记录，ItemType 区分 DemoStar 点赞和作品集收藏
type Like struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_like_user_item" json:"user_id"`
	ItemType  ItemType  `gorm:"size:20;not null;index:idx_like_user_item" json:"item_type"`
	ItemID    int64     `gorm:"not null;index:idx_like_user_item" json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
