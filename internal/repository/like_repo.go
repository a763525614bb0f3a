package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/demostar_server/internal/model"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Exists 检查点赞是否存在
func (r *LikeRepository) Exists(ctx context.Context, userID int64, itemType model.ItemType, itemID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND item_type = ? AND item_id = ?", userID, itemType, itemID).
		Count(&count).Error
	return count > 0, err
}

// GetUserLikedIDs 返回用户在 itemIDs 范围内点赞过的条目集合，itemIDs 为空时返回空集合
func (r *LikeRepository) GetUserLikedIDs(ctx context.Context, userID int64, itemType model.ItemType, itemIDs []int64) (map[int64]struct{}, error) {
	liked := make(map[int64]struct{})
	if len(itemIDs) == 0 {
		return liked, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND item_type = ? AND item_id IN ?", userID, itemType, itemIDs).
		Distinct().
		Pluck("item_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		liked[id] = struct{}{}
	}
	return liked, nil
}

// Add 在事务内锁定被点赞对象，不存在点赞记录时写入并增加对应计数。
// 返回 false 表示已点赞过，未做任何修改。
func (r *LikeRepository) Add(ctx context.Context, like *model.Like, audience model.Audience) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := lockTarget(tx, like.ItemType, like.ItemID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.Like{}).
			Where("user_id = ? AND item_type = ? AND item_id = ?", like.UserID, like.ItemType, like.ItemID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		if err := tx.Create(like).Error; err != nil {
			return err
		}
		added = true
		return incrementCounter(ctx, tx, target, like.ItemID, audience.CounterColumn(), 1)
	})
	return added, err
}

// Remove 在事务内删除点赞记录（包括重复记录），有记录被删除时计数减一。
func (r *LikeRepository) Remove(ctx context.Context, userID int64, itemType model.ItemType, itemID int64, audience model.Audience) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := lockTarget(tx, itemType, itemID)
		if err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND item_type = ? AND item_id = ?", userID, itemType, itemID).
			Delete(&model.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return incrementCounter(ctx, tx, target, itemID, audience.CounterColumn(), -1)
	})
	return removed, err
}

// lockTarget 对被点赞对象加行锁，同一对象上的点赞操作串行执行
func lockTarget(tx *gorm.DB, itemType model.ItemType, itemID int64) (interface{}, error) {
	var target interface{}
	switch itemType {
	case model.ItemDemoStar:
		target = &model.DemoStar{}
	case model.ItemPortfolio:
		target = &model.Actor{}
	default:
		return nil, fmt.Errorf("unknown item type %q", itemType)
	}

	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(target, itemID).Error
	return target, err
}

// incrementCounter 对计数列做带下限保护的增减
func incrementCounter(ctx context.Context, db *gorm.DB, m interface{}, id int64, column string, delta int) error {
	return db.WithContext(ctx).Model(m).
		Where("id = ? AND "+column+" + ? >= 0", id, delta).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}
