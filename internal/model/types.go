package model

import (
	"database/sql/driver"

	"github.com/goccy/go-json"
)

// StringArray 用于 JSON 数组字段
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = []string{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return nil
	}
}

// LikeCounters 按点赞者身份拆分的三个计数
type LikeCounters struct {
	ActorLikeCount   int `gorm:"default:0" json:"actor_like_count"`
	CompanyLikeCount int `gorm:"default:0" json:"company_like_count"`
	MemberLikeCount  int `gorm:"default:0" json:"member_like_count"`
}

// Total 三类点赞数之和
func (c LikeCounters) Total() int {
	return c.ActorLikeCount + c.CompanyLikeCount + c.MemberLikeCount
}
