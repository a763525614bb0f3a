package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs3c/demostar_server/config"
	"github.com/qs3c/demostar_server/internal/model"
	"github.com/qs3c/demostar_server/internal/model/dto"
	"github.com/qs3c/demostar_server/internal/pkg/cache"
	"github.com/qs3c/demostar_server/internal/pkg/log"
	"github.com/qs3c/demostar_server/internal/repository"
)

// PortfolioCacheKey 全量作品集列表的缓存 key
const PortfolioCacheKey = "AllActorPortfolios"

// 列表筛选
const (
	FilterMale   = "male"
	FilterFemale = "female"
)

// 列表排序，未识别的取值按 SortCreatedDesc 处理
const (
	SortAgeAsc      = "age_asc"
	SortAgeDesc     = "age_desc"
	SortUpdatedAsc  = "updated_asc"
	SortUpdatedDesc = "updated_desc"
	SortCreatedDesc = "created_desc"
)

const defaultPageSize = 50

type PortfolioService struct {
	actorRepo    *repository.ActorRepository
	demoStarRepo *repository.DemoStarRepository
	likeRepo     *repository.LikeRepository
	userRepo     *repository.UserRepository
	cache        *cache.Provider
	media        MediaResolver
	cfg          *config.Config
	now          func() time.Time
}

func NewPortfolioService(
	actorRepo *repository.ActorRepository,
	demoStarRepo *repository.DemoStarRepository,
	likeRepo *repository.LikeRepository,
	userRepo *repository.UserRepository,
	cacheProvider *cache.Provider,
	media MediaResolver,
	cfg *config.Config,
) *PortfolioService {
	return &PortfolioService{
		actorRepo:    actorRepo,
		demoStarRepo: demoStarRepo,
		likeRepo:     likeRepo,
		userRepo:     userRepo,
		cache:        cacheProvider,
		media:        resolverOrDefault(media),
		cfg:          cfg,
		now:          time.Now,
	}
}

// List 作品集列表：读取缓存的全量候选集，叠加当前用户收藏状态，再筛选、排序、分页。
// 页码超出范围时返回空列表。
func (s *PortfolioService) List(ctx context.Context, viewerID *int64, filter, sortKey string, page, pageSize int) (*dto.PortfolioPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	base, err := s.loadCandidates(ctx)
	if err != nil {
		return nil, err
	}

	// 缓存中的数据只读，后续操作都在副本上进行
	items := make([]*dto.PortfolioSummary, len(base))
	for i, b := range base {
		c := *b
		c.Bookmarked = false
		c.Age = ageAt(c.BirthDate, s.now())
		items[i] = &c
	}

	if viewerID != nil && len(items) > 0 {
		ids := make([]int64, len(items))
		for i, it := range items {
			ids[i] = it.ActorID
		}
		liked, err := s.likeRepo.GetUserLikedIDs(ctx, *viewerID, model.ItemPortfolio, ids)
		if err != nil {
			return nil, dataAccess("list viewer bookmarks", err)
		}
		for _, it := range items {
			if _, ok := liked[it.ActorID]; ok {
				it.Bookmarked = true
			}
		}
	}

	items = filterPortfolios(items, filter)
	sortPortfolios(items, sortKey)

	total := len(items)
	result := &dto.PortfolioPage{
		Items:      []*dto.PortfolioSummary{},
		Total:      int64(total),
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
		Page:       page,
		PageSize:   pageSize,
	}

	// 先比较页码再计算偏移，避免超大页码相乘溢出
	if page > result.TotalPages {
		return result, nil
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total || end < start {
		end = total
	}
	result.Items = items[start:end]

	return result, nil
}

// InvalidatePortfolios 丢弃作品集列表缓存，主图变更后调用
func (s *PortfolioService) InvalidatePortfolios(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx, PortfolioCacheKey); err != nil {
		return dataAccess("invalidate portfolios", err)
	}
	return nil
}

// Warm 重新计算并写入作品集列表缓存
func (s *PortfolioService) Warm(ctx context.Context) error {
	if err := s.InvalidatePortfolios(ctx); err != nil {
		log.L.Warn("portfolio cache invalidate before warm failed", zap.Error(err))
	}
	_, err := s.loadCandidates(ctx)
	return err
}

func (s *PortfolioService) loadCandidates(ctx context.Context) ([]*dto.PortfolioSummary, error) {
	list, err := cache.GetOrSet(ctx, s.cache, PortfolioCacheKey, s.cfg.Cache.PortfolioTTL(), s.computeCandidates)
	if err != nil {
		return nil, dataAccess("load portfolio candidates", err)
	}
	return list, nil
}

func (s *PortfolioService) computeCandidates(ctx context.Context) ([]*dto.PortfolioSummary, error) {
	candidates, err := s.actorRepo.ListPortfolioCandidates(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.PortfolioSummary, len(candidates))
	for i, c := range candidates {
		list[i] = &dto.PortfolioSummary{
			ActorID:       c.Actor.ID,
			DisplayName:   c.Actor.DisplayName,
			Gender:        c.Actor.Gender,
			BirthDate:     c.Actor.BirthDate,
			MainImageURL:  s.media.Resolve(c.MainImageURL),
			BookmarkCount: c.Actor.Total(),
			CreatedAt:     c.Actor.CreatedAt,
			UpdatedAt:     c.Actor.UpdatedAt,
		}
	}

	log.L.Info("portfolio candidates computed", zap.Int("count", len(list)))
	return list, nil
}

// GetDetail 作品集详情
func (s *PortfolioService) GetDetail(ctx context.Context, viewerID *int64, actorID int64) (*dto.PortfolioDetail, error) {
	actor, err := s.actorRepo.GetWithImages(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, dataAccess("get portfolio", err)
	}

	demoStars, err := s.demoStarRepo.ListByActor(ctx, actorID)
	if err != nil {
		return nil, dataAccess("list portfolio demostars", err)
	}

	detail := &dto.PortfolioDetail{
		ActorID:       actor.ID,
		DisplayName:   actor.DisplayName,
		Gender:        actor.Gender,
		Age:           ageAt(actor.BirthDate, s.now()),
		Bio:           actor.Bio,
		Experience:    actor.Experience,
		Education:     actor.Education,
		Links:         []string(actor.Links),
		BookmarkCount: actor.Total(),
		Images:        make([]*dto.PortfolioImage, len(actor.Images)),
		DemoStars:     make([]*dto.PortfolioDemoStar, len(demoStars)),
		UpdatedAt:     actor.UpdatedAt.Format(time.RFC3339),
	}
	if detail.Links == nil {
		detail.Links = []string{}
	}

	for i, img := range actor.Images {
		detail.Images[i] = &dto.PortfolioImage{
			ID:     img.ID,
			URL:    s.media.Resolve(img.URL),
			IsMain: img.IsMain,
		}
	}
	for i, ds := range demoStars {
		detail.DemoStars[i] = &dto.PortfolioDemoStar{
			ID:        ds.ID,
			Title:     ds.Title,
			Category:  ds.Category,
			URL:       s.media.Resolve(ds.URL),
			ViewCount: ds.ViewCount,
			LikeCount: ds.Total(),
		}
	}

	if viewerID != nil {
		bookmarked, err := s.likeRepo.Exists(ctx, *viewerID, model.ItemPortfolio, actorID)
		if err != nil {
			return nil, dataAccess("check portfolio bookmark", err)
		}
		detail.Bookmarked = bookmarked
	}

	return detail, nil
}

// Bookmark 收藏作品集，重复收藏幂等
func (s *PortfolioService) Bookmark(ctx context.Context, userID, actorID int64) (*dto.BookmarkResponse, error) {
	actor, audience, err := s.loadBookmarkTarget(ctx, userID, actorID)
	if err != nil {
		return nil, err
	}

	like := &model.Like{UserID: userID, ItemType: model.ItemPortfolio, ItemID: actorID}
	added, err := s.likeRepo.Add(ctx, like, audience)
	if err != nil {
		return nil, dataAccess("add portfolio bookmark", err)
	}
	if !added {
		return &dto.BookmarkResponse{Bookmarked: true, BookmarkCount: actor.Total()}, nil
	}

	return &dto.BookmarkResponse{Bookmarked: true, BookmarkCount: actor.Total() + 1}, nil
}

// Unbookmark 取消收藏，未收藏时幂等
func (s *PortfolioService) Unbookmark(ctx context.Context, userID, actorID int64) (*dto.BookmarkResponse, error) {
	actor, audience, err := s.loadBookmarkTarget(ctx, userID, actorID)
	if err != nil {
		return nil, err
	}

	removed, err := s.likeRepo.Remove(ctx, userID, model.ItemPortfolio, actorID, audience)
	if err != nil {
		return nil, dataAccess("remove portfolio bookmark", err)
	}
	if !removed {
		return &dto.BookmarkResponse{Bookmarked: false, BookmarkCount: actor.Total()}, nil
	}

	count := actor.Total() - 1
	if count < 0 {
		count = 0
	}
	return &dto.BookmarkResponse{Bookmarked: false, BookmarkCount: count}, nil
}

func (s *PortfolioService) loadBookmarkTarget(ctx context.Context, userID, actorID int64) (*model.Actor, model.Audience, error) {
	actor, err := s.actorRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrActorNotFound
		}
		return nil, 0, dataAccess("get portfolio", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, dataAccess("get user", err)
	}

	return actor, model.AudienceOf(user.Role), nil
}

func filterPortfolios(items []*dto.PortfolioSummary, filter string) []*dto.PortfolioSummary {
	var gender string
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case FilterMale:
		gender = model.GenderMale
	case FilterFemale:
		gender = model.GenderFemale
	default:
		return items
	}

	out := items[:0]
	for _, it := range items {
		if it.Gender == gender {
			out = append(out, it)
		}
	}
	return out
}

func sortPortfolios(items []*dto.PortfolioSummary, sortKey string) {
	var less func(a, b *dto.PortfolioSummary) bool

	switch strings.ToLower(strings.TrimSpace(sortKey)) {
	case SortAgeAsc:
		less = func(a, b *dto.PortfolioSummary) bool { return compareAge(a, b, true) }
	case SortAgeDesc:
		less = func(a, b *dto.PortfolioSummary) bool { return compareAge(a, b, false) }
	case SortUpdatedAsc:
		less = func(a, b *dto.PortfolioSummary) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case SortUpdatedDesc:
		less = func(a, b *dto.PortfolioSummary) bool { return a.UpdatedAt.After(b.UpdatedAt) }
	default:
		less = func(a, b *dto.PortfolioSummary) bool { return a.CreatedAt.After(b.CreatedAt) }
	}

	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
}

// compareAge 按年龄比较，没有出生日期的排在最后
func compareAge(a, b *dto.PortfolioSummary, asc bool) bool {
	if a.Age == nil || b.Age == nil {
		return a.Age != nil && b.Age == nil
	}
	if *a.Age == *b.Age {
		return false
	}
	if asc {
		return *a.Age < *b.Age
	}
	return *a.Age > *b.Age
}

// ageAt 按周岁计算年龄
func ageAt(birth *time.Time, now time.Time) *int {
	if birth == nil || birth.IsZero() {
		return nil
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return &age
}
