package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/demostar_server/config"
	"github.com/qs3c/demostar_server/internal/model"
	"github.com/qs3c/demostar_server/internal/pkg/cache"
	"github.com/qs3c/demostar_server/internal/repository"
	"github.com/qs3c/demostar_server/internal/testutil"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func setupPortfolioService(t *testing.T) (*PortfolioService, *gorm.DB, *miniredis.Miniredis, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	mr, client, closeRedis := testutil.SetupTestRedis(t)

	cfg := &config.Config{Cache: config.CacheConfig{PortfolioTTLSeconds: 600}}
	svc := NewPortfolioService(
		repository.NewActorRepository(db),
		repository.NewDemoStarRepository(db),
		repository.NewLikeRepository(db),
		repository.NewUserRepository(db),
		cache.NewProvider(client, "demostar"),
		nil,
		cfg,
	)
	svc.now = func() time.Time { return fixedNow }

	cleanup := func() {
		closeRedis()
		testutil.CleanupTestDB(t, db)
	}

	return svc, db, mr, cleanup
}

func listIDs(t *testing.T, svc *PortfolioService, viewerID *int64, filter, sortKey string) []int64 {
	t.Helper()

	page, err := svc.List(context.Background(), viewerID, filter, sortKey, 1, 50)
	require.NoError(t, err)

	ids := make([]int64, len(page.Items))
	for i, it := range page.Items {
		ids[i] = it.ActorID
	}
	return ids
}

func TestPortfolioService_List_Empty(t *testing.T) {
	svc, _, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	page, err := svc.List(context.Background(), nil, "", "", 1, 50)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.PageSize)
}

func TestPortfolioService_List_OnlyActorsWithMainImage(t *testing.T) {
	svc, db, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	withMain, img := testutil.TestPortfolio(t, db)
	noImages := testutil.TestActor(t, db)
	secondaryOnly := testutil.TestActor(t, db)
	testutil.TestActorImage(t, db, secondaryOnly.ID, false)

	page, err := svc.List(context.Background(), nil, "", "", 1, 50)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, withMain.ID, page.Items[0].ActorID)
	assert.Equal(t, img.URL, page.Items[0].MainImageURL)
	assert.NotContains(t, listIDs(t, svc, nil, "", ""), noImages.ID)
}

func TestPortfolioService_List_DefaultSortNewestFirst(t *testing.T) {
	svc, db, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	oldest, _ := testutil.TestPortfolio(t, db, testutil.WithActorCreatedAt(base))
	newest, _ := testutil.TestPortfolio(t, db, testutil.WithActorCreatedAt(base.Add(48*time.Hour)))
	middle, _ := testutil.TestPortfolio(t, db, testutil.WithActorCreatedAt(base.Add(24*time.Hour)))

	assert.Equal(t, []int64{newest.ID, middle.ID, oldest.ID}, listIDs(t, svc, nil, "", ""))
	assert.Equal(t, []int64{newest.ID, middle.ID, oldest.ID}, listIDs(t, svc, nil, "", "unknown"))
}

func TestPortfolioService_List_GenderFilter(t *testing.T) {
	svc, db, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m1, _ := testutil.TestPortfolio(t, db, testutil.WithGender(model.GenderMale), testutil.WithActorCreatedAt(base))
	f1, _ := testutil.TestPortfolio(t, db, testutil.WithGender(model.GenderFemale), testutil.WithActorCreatedAt(base.Add(time.Hour)))
	m2, _ := testutil.TestPortfolio(t, db, testutil.WithGender(model.GenderMale), testutil.WithActorCreatedAt(base.Add(2*time.Hour)))

	assert.Equal(t, []int64{m2.ID, m1.ID}, listIDs(t, svc, nil, "male", ""))
	assert.Equal(t, []int64{f1.ID}, listIDs(t, svc, nil, "FEMALE", ""))
	// 未知筛选值不生效
	assert.Len(t, listIDs(t, svc, nil, "robot", ""), 3)

	page, err := svc.List(context.Background(), nil, "male", "", 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestPortfolioService_List_FilterMatchesNothing(t *testing.T) {
	svc, db, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		testutil.TestPortfolio(t, db, testutil.WithGender(model.GenderMale))
	}

	page, err := svc.List(context.Background(), nil, "female", "", 1, 50)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 0, page.TotalPages)
}

func TestPortfolioService_List_SortByAge(t *testing.T) {
	svc, db, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	older, _ := testutil.TestPortfolio(t, db, testutil.WithBirthDate(time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC)))
	younger, _ := testutil.TestPortfolio(t, db, testutil.WithBirthDate(time.Date(2000, 3, 1, 0, 0, 0, 0, time.UTC)))
	unknown, _ := testutil.TestPortfolio(t, db)

	assert.Equal(t, []int64{younger.ID, older.ID, unknown.ID}, listIDs(t, svc, nil, "", SortAgeAsc))
	assert.Equal(t, []int64{older.ID, younger.ID, unknown.ID}, listIDs(t, svc, nil, "", SortAgeDesc))

	page, err := svc.List(context.Background(), nil, "", SortAgeAsc, 1, 50)
	require.NoError(t, err)
	require.NotNil(t, page.Items[0].Age)
	assert.Equal(t, 26, *page.Items[0].Age)
	assert.Nil(t, page.Items[2].Age)
}

func TestPortfolioService_List_SortByUpdated(t *testing.T) {
	svc, db, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a, _ := testutil.TestPortfolio(t, db, testutil.WithActorCreatedAt(base))
	b, _ := testutil.TestPortfolio(t, db, testutil.WithActorCreatedAt(base.Add(time.Hour)))
	require.NoError(t, db.Model(&model.Actor{}).Where("id = ?", a.ID).
		UpdateColumn("updated_at", base.Add(10*time.Hour)).Error)

	assert.Equal(t, []int64{a.ID, b.ID}, listIDs(t, svc, nil, "", SortUpdatedDesc))
	assert.Equal(t, []int64{b.ID, a.ID}, listIDs(t, svc, nil, "", SortUpdatedAsc))
}

func TestPortfolioService_List_Pagination(t *testing.T) {
	svc, db, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		testutil.TestPortfolio(t, db)
	}
	ctx := context.Background()

	page, err := svc.List(ctx, nil, "", "", 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)

	page, err = svc.List(ctx, nil, "", "", 3, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	// 超出范围的页码返回空列表，元数据不变
	page, err = svc.List(ctx, nil, "", "", 9, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 9, page.Page)
}

func TestPortfolioService_List_HugePage(t *testing.T) {
	svc, db, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	testutil.TestPortfolio(t, db)
	ctx := context.Background()

	huge := math.MaxInt64/50 + 2
	page, err := svc.List(ctx, nil, "", "", huge, 50)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.TotalPages)

	page, err = svc.List(ctx, nil, "", "", 1, math.MaxInt64)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestPortfolioService_List_BookmarkOverlayDoesNotLeak(t *testing.T) {
	svc, db, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	viewer := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	bookmarked, _ := testutil.TestPortfolio(t, db)
	testutil.TestPortfolio(t, db)
	testutil.TestLike(t, db, viewer.ID, model.ItemPortfolio, bookmarked.ID)
	// 同 id 的 DemoStar 点赞不算作品集收藏
	testutil.TestLike(t, db, other.ID, model.ItemDemoStar, bookmarked.ID)

	ctx := context.Background()
	page, err := svc.List(ctx, &viewer.ID, "", "", 1, 50)
	require.NoError(t, err)
	for _, it := range page.Items {
		assert.Equal(t, it.ActorID == bookmarked.ID, it.Bookmarked, "actor %d", it.ActorID)
	}

	page, err = svc.List(ctx, &other.ID, "", "", 1, 50)
	require.NoError(t, err)
	for _, it := range page.Items {
		assert.False(t, it.Bookmarked)
	}

	page, err = svc.List(ctx, nil, "", "", 1, 50)
	require.NoError(t, err)
	for _, it := range page.Items {
		assert.False(t, it.Bookmarked)
	}
}

func TestPortfolioService_List_ServedFromCache(t *testing.T) {
	svc, db, mr, cleanup := setupPortfolioService(t)
	defer cleanup()

	testutil.TestPortfolio(t, db)
	ctx := context.Background()

	page, err := svc.List(ctx, nil, "", "", 1, 50)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.True(t, mr.Exists("demostar:"+PortfolioCacheKey))
	assert.Equal(t, 10*time.Minute, mr.TTL("demostar:"+PortfolioCacheKey))

	// 缓存有效期内新增的作品集不可见
	testutil.TestPortfolio(t, db)
	page, err = svc.List(ctx, nil, "", "", 1, 50)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	require.NoError(t, svc.InvalidatePortfolios(ctx))
	page, err = svc.List(ctx, nil, "", "", 1, 50)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	testutil.TestPortfolio(t, db)
	mr.FastForward(11 * time.Minute)
	page, err = svc.List(ctx, nil, "", "", 1, 50)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
}

func TestPortfolioService_List_CacheDownStillServes(t *testing.T) {
	svc, db, mr, cleanup := setupPortfolioService(t)
	defer cleanup()

	testutil.TestPortfolio(t, db)
	mr.Close()

	page, err := svc.List(context.Background(), nil, "", "", 1, 50)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestPortfolioService_Warm(t *testing.T) {
	svc, db, mr, cleanup := setupPortfolioService(t)
	defer cleanup()

	testutil.TestPortfolio(t, db)
	ctx := context.Background()

	require.NoError(t, svc.Warm(ctx))
	assert.True(t, mr.Exists("demostar:"+PortfolioCacheKey))

	testutil.TestPortfolio(t, db)
	require.NoError(t, svc.Warm(ctx))

	page, err := svc.List(ctx, nil, "", "", 1, 50)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestPortfolioService_GetDetail(t *testing.T) {
	svc, db, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	viewer := testutil.TestUser(t, db)
	actor, mainImg := testutil.TestPortfolio(t, db,
		testutil.WithDisplayName("Li Na"),
		testutil.WithBirthDate(time.Date(1996, 1, 15, 0, 0, 0, 0, time.UTC)),
		testutil.WithActorLikes(1, 2, 3),
	)
	testutil.TestActorImage(t, db, actor.ID, false)
	ds := testutil.TestDemoStar(t, db, actor.ID, testutil.WithTitle("Monologue"))
	testutil.TestLike(t, db, viewer.ID, model.ItemPortfolio, actor.ID)

	detail, err := svc.GetDetail(context.Background(), &viewer.ID, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Li Na", detail.DisplayName)
	require.NotNil(t, detail.Age)
	assert.Equal(t, 30, *detail.Age)
	assert.Equal(t, 6, detail.BookmarkCount)
	assert.True(t, detail.Bookmarked)
	require.Len(t, detail.Images, 2)
	assert.Equal(t, mainImg.ID, detail.Images[0].ID)
	assert.True(t, detail.Images[0].IsMain)
	require.Len(t, detail.DemoStars, 1)
	assert.Equal(t, ds.ID, detail.DemoStars[0].ID)
	assert.NotNil(t, detail.Links)

	anon, err := svc.GetDetail(context.Background(), nil, actor.ID)
	require.NoError(t, err)
	assert.False(t, anon.Bookmarked)
}

func TestPortfolioService_GetDetail_NotFound(t *testing.T) {
	svc, _, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	_, err := svc.GetDetail(context.Background(), nil, 99999)
	assert.ErrorIs(t, err, ErrActorNotFound)
}

func TestPortfolioService_Bookmark(t *testing.T) {
	svc, db, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	company := testutil.TestUser(t, db, testutil.WithRole(model.RoleCompany))
	actor, _ := testutil.TestPortfolio(t, db)
	ctx := context.Background()

	resp, err := svc.Bookmark(ctx, company.ID, actor.ID)
	require.NoError(t, err)
	assert.True(t, resp.Bookmarked)
	assert.Equal(t, 1, resp.BookmarkCount)

	// 重复收藏不重复计数
	resp, err = svc.Bookmark(ctx, company.ID, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.BookmarkCount)

	var stored model.Actor
	require.NoError(t, db.First(&stored, actor.ID).Error)
	assert.Equal(t, 1, stored.CompanyLikeCount)
	assert.Equal(t, 0, stored.MemberLikeCount)

	resp, err = svc.Unbookmark(ctx, company.ID, actor.ID)
	require.NoError(t, err)
	assert.False(t, resp.Bookmarked)
	assert.Equal(t, 0, resp.BookmarkCount)

	resp, err = svc.Unbookmark(ctx, company.ID, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.BookmarkCount)

	require.NoError(t, db.First(&stored, actor.ID).Error)
	assert.Equal(t, 0, stored.CompanyLikeCount)
}

func TestPortfolioService_Bookmark_NotFound(t *testing.T) {
	svc, db, _, cleanup := setupPortfolioService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	actor, _ := testutil.TestPortfolio(t, db)

	_, err := svc.Bookmark(context.Background(), user.ID, 99999)
	assert.ErrorIs(t, err, ErrActorNotFound)

	_, err = svc.Bookmark(context.Background(), 99999, actor.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, ageAt(nil, now))

	before := time.Date(2000, 5, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 26, *ageAt(&before, now))

	after := time.Date(2000, 6, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 25, *ageAt(&after, now))
}
