// Package recommend 根据类别、标题相似度和热度为 DemoStar 计算相关推荐
package recommend

import (
	"context"
	"errors"
	"time"
)

// DefaultLimit 默认返回的推荐条数
const DefaultLimit = 10

// ErrMalformedItem 条目数据不完整，无法参与打分
var ErrMalformedItem = errors.New("malformed item")

// Item 参与推荐计算的条目（已展开作者信息）
type Item struct {
	ID            int64
	ActorID       int64
	ActorImageURL string
	Title         string
	Category      string
	URL           string
	ViewCount     int64
	CreatedAt     time.Time
}

// Result 推荐结果
type Result struct {
	ItemID        int64
	Title         string
	URL           string
	ActorID       int64
	ActorImageURL string
}

// ItemSource 条目数据来源
type ItemSource interface {
	// GetItem 条目不存在时返回 (nil, nil)
	GetItem(ctx context.Context, id int64) (*Item, error)
	// ListItemsExcept 返回除 id 之外的全部条目
	ListItemsExcept(ctx context.Context, id int64) ([]*Item, error)
}
