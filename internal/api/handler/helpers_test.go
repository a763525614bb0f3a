package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/demostar_server/config"
	"github.com/qs3c/demostar_server/internal/api/middleware"
	"github.com/qs3c/demostar_server/internal/pkg/cache"
	"github.com/qs3c/demostar_server/internal/pkg/response"
	"github.com/qs3c/demostar_server/internal/repository"
	"github.com/qs3c/demostar_server/internal/service"
	"github.com/qs3c/demostar_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testContext struct {
	DB    *gorm.DB
	Redis *miniredis.Miniredis
}

type handlers struct {
	demoStar  *DemoStarHandler
	portfolio *PortfolioHandler
}

func setupHandlers(t *testing.T) (*handlers, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	mr, client, closeRedis := testutil.SetupTestRedis(t)

	cfg := &config.Config{
		Listing: config.ListingConfig{DefaultPageSize: 50, MaxPageSize: 100},
	}

	actorRepo := repository.NewActorRepository(db)
	demoStarRepo := repository.NewDemoStarRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	userRepo := repository.NewUserRepository(db)

	portfolioService := service.NewPortfolioService(actorRepo, demoStarRepo, likeRepo, userRepo,
		cache.NewProvider(client, "demostar"), nil, cfg)
	imageService := service.NewImageService(actorRepo, portfolioService)
	demoStarService := service.NewDemoStarService(demoStarRepo, likeRepo, userRepo, nil, cfg.Recommend)

	h := &handlers{
		demoStar:  NewDemoStarHandler(demoStarService),
		portfolio: NewPortfolioHandler(portfolioService, imageService, cfg.Listing),
	}

	cleanup := func() {
		closeRedis()
		testutil.CleanupTestDB(t, db)
	}

	return h, &testContext{DB: db, Redis: mr}, cleanup
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func mockAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func dataMap(t *testing.T, resp response.Response) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", resp.Data)
	return data
}
