package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/demostar_server/internal/model"
)

type DemoStarRepository struct {
	db *gorm.DB
}

func NewDemoStarRepository(db *gorm.DB) *DemoStarRepository {
	return &DemoStarRepository{db: db}
}

// DemoStarRow 推荐计算所需的 DemoStar 字段，附带作者主图
type DemoStarRow struct {
	ID            int64
	ActorID       int64
	Title         string
	Category      string
	URL           string
	ViewCount     int64
	CreatedAt     time.Time
	ActorImageURL string
}

func (r *DemoStarRepository) Create(ctx context.Context, ds *model.DemoStar) error {
	return r.db.WithContext(ctx).Create(ds).Error
}

func (r *DemoStarRepository) GetByID(ctx context.Context, id int64) (*model.DemoStar, error) {
	var ds model.DemoStar
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ds).Error
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// GetByIDWithActor 获取 DemoStar 及作者（含主图）
func (r *DemoStarRepository) GetByIDWithActor(ctx context.Context, id int64) (*model.DemoStar, error) {
	var ds model.DemoStar
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Preload("Actor.Images", "is_main = ?", true).
		Where("id = ?", id).First(&ds).Error
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// ListByActor 获取演员的全部 DemoStar，新发布在前
func (r *DemoStarRepository) ListByActor(ctx context.Context, actorID int64) ([]*model.DemoStar, error) {
	var list []*model.DemoStar
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// GetRow 获取单条推荐字段，不存在时返回 (nil, nil)
func (r *DemoStarRepository) GetRow(ctx context.Context, id int64) (*DemoStarRow, error) {
	rows, err := scanRows(r.rowQuery(ctx).Where("demo_stars.id = ?", id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListRowsExcept 获取除 id 之外全部 DemoStar 的推荐字段
func (r *DemoStarRepository) ListRowsExcept(ctx context.Context, id int64) ([]*DemoStarRow, error) {
	return scanRows(r.rowQuery(ctx).Where("demo_stars.id <> ?", id))
}

func (r *DemoStarRepository) rowQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("demo_stars").
		Select("demo_stars.id, demo_stars.actor_id, demo_stars.title, demo_stars.category, demo_stars.url, " +
			"demo_stars.view_count, demo_stars.created_at, actor_images.url AS actor_image_url").
		Joins("LEFT JOIN actor_images ON actor_images.actor_id = demo_stars.actor_id AND actor_images.is_main = ?", true).
		Order("demo_stars.id ASC, actor_images.id ASC")
}

func scanRows(query *gorm.DB) ([]*DemoStarRow, error) {
	type scanRow struct {
		ID            int64
		ActorID       int64
		Title         string
		Category      string
		URL           string
		ViewCount     int64
		CreatedAt     time.Time
		ActorImageURL *string
	}

	var scanned []scanRow
	if err := query.Scan(&scanned).Error; err != nil {
		return nil, err
	}

	// 作者有多张主图时 JOIN 会产生重复行，只保留第一行
	out := make([]*DemoStarRow, 0, len(scanned))
	seen := make(map[int64]struct{}, len(scanned))
	for _, s := range scanned {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}

		row := &DemoStarRow{
			ID:        s.ID,
			ActorID:   s.ActorID,
			Title:     s.Title,
			Category:  s.Category,
			URL:       s.URL,
			ViewCount: s.ViewCount,
			CreatedAt: s.CreatedAt,
		}
		if s.ActorImageURL != nil {
			row.ActorImageURL = *s.ActorImageURL
		}
		out = append(out, row)
	}
	return out, nil
}

// IncrementViewCount 增加浏览数
func (r *DemoStarRepository) IncrementViewCount(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&model.DemoStar{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
