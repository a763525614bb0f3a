package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/qs3c/demostar_server/config"
	"github.com/qs3c/demostar_server/internal/model"
	"github.com/qs3c/demostar_server/internal/model/dto"
	"github.com/qs3c/demostar_server/internal/pkg/log"
	"github.com/qs3c/demostar_server/internal/recommend"
	"github.com/qs3c/demostar_server/internal/repository"
)

type DemoStarService struct {
	demoStarRepo *repository.DemoStarRepository
	likeRepo     *repository.LikeRepository
	userRepo     *repository.UserRepository
	engine       *recommend.Engine
	media        MediaResolver
}

func NewDemoStarService(
	demoStarRepo *repository.DemoStarRepository,
	likeRepo *repository.LikeRepository,
	userRepo *repository.UserRepository,
	media MediaResolver,
	cfg config.RecommendConfig,
) *DemoStarService {
	media = resolverOrDefault(media)
	weights := recommend.Weights{
		Category:   cfg.CategoryWeight,
		Title:      cfg.TitleWeight,
		Popularity: cfg.PopularityWeight,
	}
	if weights == (recommend.Weights{}) {
		weights = recommend.DefaultWeights
	}

	source := &demoStarItemSource{repo: demoStarRepo, media: media}
	return &DemoStarService{
		demoStarRepo: demoStarRepo,
		likeRepo:     likeRepo,
		userRepo:     userRepo,
		engine:       recommend.NewEngine(source, recommend.NewScorer(weights), cfg.Limit),
		media:        media,
	}
}

// GetDetail DemoStar 详情：累加浏览数，并附带相关推荐和当前用户的点赞状态。
// 推荐计算失败不影响详情本身，此时 RecommendationsDegraded 为 true。
func (s *DemoStarService) GetDetail(ctx context.Context, viewerID *int64, id int64) (*dto.DemoStarDetail, error) {
	ds, err := s.demoStarRepo.GetByIDWithActor(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDemoStarNotFound
		}
		return nil, dataAccess("get demostar", err)
	}

	if err := s.demoStarRepo.IncrementViewCount(ctx, id); err != nil {
		return nil, dataAccess("increment demostar views", err)
	}
	ds.ViewCount++

	detail := &dto.DemoStarDetail{
		ID:               ds.ID,
		Title:            ds.Title,
		Category:         ds.Category,
		URL:              s.media.Resolve(ds.URL),
		ViewCount:        ds.ViewCount,
		ActorLikeCount:   ds.ActorLikeCount,
		CompanyLikeCount: ds.CompanyLikeCount,
		MemberLikeCount:  ds.MemberLikeCount,
		CreatedAt:        ds.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        ds.UpdatedAt.Format(time.RFC3339),
		Recommendations:  []*dto.RecommendedItem{},
	}
	if ds.Actor != nil {
		detail.Author = &dto.AuthorInfo{
			ActorID:     ds.Actor.ID,
			DisplayName: ds.Actor.DisplayName,
		}
		if len(ds.Actor.Images) > 0 {
			detail.Author.ImageURL = s.media.Resolve(ds.Actor.Images[0].URL)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		results, err := s.engine.Recommend(gctx, id)
		if err != nil {
			log.L.Error("recommendation failed",
				zap.Int64("demostar_id", id),
				zap.Bool("transient", IsTransient(err)),
				zap.Error(err))
			detail.RecommendationsDegraded = true
			return nil
		}
		for _, r := range results {
			detail.Recommendations = append(detail.Recommendations, &dto.RecommendedItem{
				ID:            r.ItemID,
				Title:         r.Title,
				URL:           r.URL,
				ActorID:       r.ActorID,
				ActorImageURL: r.ActorImageURL,
			})
		}
		return nil
	})

	if viewerID != nil {
		g.Go(func() error {
			liked, err := s.likeRepo.Exists(gctx, *viewerID, model.ItemDemoStar, id)
			if err != nil {
				return dataAccess("check demostar like", err)
			}
			detail.Liked = liked
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return detail, nil
}

// Recommend 仅计算推荐，参考条目不存在时返回空列表
func (s *DemoStarService) Recommend(ctx context.Context, id int64) ([]*dto.RecommendedItem, error) {
	results, err := s.engine.Recommend(ctx, id)
	if err != nil {
		if errors.Is(err, recommend.ErrMalformedItem) {
			return nil, err
		}
		return nil, dataAccess("recommend demostars", err)
	}

	items := make([]*dto.RecommendedItem, len(results))
	for i, r := range results {
		items[i] = &dto.RecommendedItem{
			ID:            r.ItemID,
			Title:         r.Title,
			URL:           r.URL,
			ActorID:       r.ActorID,
			ActorImageURL: r.ActorImageURL,
		}
	}
	return items, nil
}

// Like 点赞 DemoStar，重复点赞幂等；计数按点赞者身份累加
func (s *DemoStarService) Like(ctx context.Context, userID, id int64) (*dto.LikeResponse, error) {
	ds, audience, err := s.loadLikeTarget(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	like := &model.Like{UserID: userID, ItemType: model.ItemDemoStar, ItemID: id}
	added, err := s.likeRepo.Add(ctx, like, audience)
	if err != nil {
		return nil, dataAccess("add demostar like", err)
	}
	if !added {
		return &dto.LikeResponse{Liked: true, LikeCount: ds.Total()}, nil
	}

	return &dto.LikeResponse{Liked: true, LikeCount: ds.Total() + 1}, nil
}

// Unlike 取消点赞，未点赞时幂等
func (s *DemoStarService) Unlike(ctx context.Context, userID, id int64) (*dto.LikeResponse, error) {
	ds, audience, err := s.loadLikeTarget(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	removed, err := s.likeRepo.Remove(ctx, userID, model.ItemDemoStar, id, audience)
	if err != nil {
		return nil, dataAccess("remove demostar like", err)
	}
	if !removed {
		return &dto.LikeResponse{Liked: false, LikeCount: ds.Total()}, nil
	}

	count := ds.Total() - 1
	if count < 0 {
		count = 0
	}
	return &dto.LikeResponse{Liked: false, LikeCount: count}, nil
}

func (s *DemoStarService) loadLikeTarget(ctx context.Context, userID, id int64) (*model.DemoStar, model.Audience, error) {
	ds, err := s.demoStarRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrDemoStarNotFound
		}
		return nil, 0, dataAccess("get demostar", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, dataAccess("get user", err)
	}

	return ds, model.AudienceOf(user.Role), nil
}

// demoStarItemSource 以 DemoStar 表作为推荐引擎的数据来源
type demoStarItemSource struct {
	repo  *repository.DemoStarRepository
	media MediaResolver
}

func (s *demoStarItemSource) GetItem(ctx context.Context, id int64) (*recommend.Item, error) {
	row, err := s.repo.GetRow(ctx, id)
	if err != nil {
		return nil, dataAccess("get demostar row", err)
	}
	if row == nil {
		return nil, nil
	}
	return s.toItem(row), nil
}

func (s *demoStarItemSource) ListItemsExcept(ctx context.Context, id int64) ([]*recommend.Item, error) {
	rows, err := s.repo.ListRowsExcept(ctx, id)
	if err != nil {
		return nil, dataAccess("list demostar rows", err)
	}
	items := make([]*recommend.Item, len(rows))
	for i, row := range rows {
		items[i] = s.toItem(row)
	}
	return items, nil
}

func (s *demoStarItemSource) toItem(row *repository.DemoStarRow) *recommend.Item {
	item := &recommend.Item{
		ID:        row.ID,
		ActorID:   row.ActorID,
		Title:     row.Title,
		Category:  row.Category,
		URL:       s.media.Resolve(row.URL),
		ViewCount: row.ViewCount,
		CreatedAt: row.CreatedAt,
	}
	if row.ActorImageURL != "" {
		item.ActorImageURL = s.media.Resolve(row.ActorImageURL)
	}
	return item
}
