package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/demostar_server/internal/model"
)

// ErrImageNotOwned 图片不属于该演员
var ErrImageNotOwned = errors.New("image does not belong to actor")

type ActorRepository struct {
	db *gorm.DB
}

func NewActorRepository(db *gorm.DB) *ActorRepository {
	return &ActorRepository{db: db}
}

// PortfolioCandidate 拥有主图的演员
type PortfolioCandidate struct {
	Actor        *model.Actor
	MainImageURL string
}

func (r *ActorRepository) Create(ctx context.Context, actor *model.Actor) error {
	return r.db.WithContext(ctx).Create(actor).Error
}

func (r *ActorRepository) GetByID(ctx context.Context, id int64) (*model.Actor, error) {
	var actor model.Actor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&actor).Error
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

func (r *ActorRepository) GetByUserID(ctx context.Context, userID int64) (*model.Actor, error) {
	var actor model.Actor
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&actor).Error
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

// GetWithImages 获取演员及其全部图片，主图在前
func (r *ActorRepository) GetWithImages(ctx context.Context, id int64) (*model.Actor, error) {
	var actor model.Actor
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_main DESC, id ASC")
		}).
		Where("id = ?", id).First(&actor).Error
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

// ListPortfolioCandidates 获取所有至少有一张主图的演员。
// 全表扫描，调用方应通过缓存使用。
func (r *ActorRepository) ListPortfolioCandidates(ctx context.Context) ([]*PortfolioCandidate, error) {
	var mains []*model.ActorImage
	if err := r.db.WithContext(ctx).
		Where("is_main = ?", true).
		Order("id ASC").
		Find(&mains).Error; err != nil {
		return nil, err
	}
	if len(mains) == 0 {
		return []*PortfolioCandidate{}, nil
	}

	// 同一演员存在多张主图时取最早的一张
	mainURL := make(map[int64]string, len(mains))
	actorIDs := make([]int64, 0, len(mains))
	for _, img := range mains {
		if _, ok := mainURL[img.ActorID]; ok {
			continue
		}
		mainURL[img.ActorID] = img.URL
		actorIDs = append(actorIDs, img.ActorID)
	}

	var actors []*model.Actor
	if err := r.db.WithContext(ctx).
		Where("id IN ?", actorIDs).
		Order("created_at DESC").
		Find(&actors).Error; err != nil {
		return nil, err
	}

	candidates := make([]*PortfolioCandidate, len(actors))
	for i, a := range actors {
		candidates[i] = &PortfolioCandidate{Actor: a, MainImageURL: mainURL[a.ID]}
	}
	return candidates, nil
}

// GetImage 获取单张图片
func (r *ActorRepository) GetImage(ctx context.Context, imageID int64) (*model.ActorImage, error) {
	var img model.ActorImage
	err := r.db.WithContext(ctx).Where("id = ?", imageID).First(&img).Error
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// AddImage 添加图片
func (r *ActorRepository) AddImage(ctx context.Context, img *model.ActorImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

// SetMainImage 将 imageID 设为演员唯一主图
func (r *ActorRepository) SetMainImage(ctx context.Context, actorID, imageID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var img model.ActorImage
		if err := tx.Where("id = ?", imageID).First(&img).Error; err != nil {
			return err
		}
		if img.ActorID != actorID {
			return ErrImageNotOwned
		}

		if err := tx.Model(&model.ActorImage{}).
			Where("actor_id = ? AND id <> ?", actorID, imageID).
			Update("is_main", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.ActorImage{}).
			Where("id = ?", imageID).
			Update("is_main", true).Error; err != nil {
			return err
		}

		return tx.Model(&model.Actor{}).Where("id = ?", actorID).
			Update("updated_at", time.Now()).Error
	})
}
