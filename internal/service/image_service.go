package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs3c/demostar_server/internal/model/dto"
	"github.com/qs3c/demostar_server/internal/pkg/log"
	"github.com/qs3c/demostar_server/internal/repository"
)

// PortfolioInvalidator 作品集列表缓存失效
type PortfolioInvalidator interface {
	InvalidatePortfolios(ctx context.Context) error
}

type ImageService struct {
	actorRepo   *repository.ActorRepository
	invalidator PortfolioInvalidator
}

func NewImageService(actorRepo *repository.ActorRepository, invalidator PortfolioInvalidator) *ImageService {
	return &ImageService{
		actorRepo:   actorRepo,
		invalidator: invalidator,
	}
}

// SetMainImage 将图片设为所属作品集的主图，只有作品集本人可操作。
// 主图决定作品集是否出现在列表中，修改后立即使列表缓存失效。
func (s *ImageService) SetMainImage(ctx context.Context, userID, imageID int64) (*dto.SetMainImageResponse, error) {
	img, err := s.actorRepo.GetImage(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, dataAccess("get actor image", err)
	}

	actor, err := s.actorRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotImageOwner
		}
		return nil, dataAccess("get actor by user", err)
	}
	if img.ActorID != actor.ID {
		return nil, ErrNotImageOwner
	}

	if err := s.actorRepo.SetMainImage(ctx, actor.ID, imageID); err != nil {
		if errors.Is(err, repository.ErrImageNotOwned) {
			return nil, ErrNotImageOwner
		}
		return nil, dataAccess("set main image", err)
	}

	if s.invalidator != nil {
		if err := s.invalidator.InvalidatePortfolios(ctx); err != nil {
			// 写入已提交，缓存最迟在 TTL 到期后更新
			log.L.Error("failed to invalidate portfolio cache",
				zap.Int64("actor_id", actor.ID), zap.Error(err))
		}
	}

	return &dto.SetMainImageResponse{ActorID: actor.ID, MainImageID: imageID}, nil
}
