package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/demostar_server/config"
	"github.com/qs3c/demostar_server/internal/api/handler"
	"github.com/qs3c/demostar_server/internal/api/middleware"
)

type Router struct {
	demoStarHandler  *handler.DemoStarHandler
	portfolioHandler *handler.PortfolioHandler
	cfg              *config.Config
}

func NewRouter(
	demoStarHandler *handler.DemoStarHandler,
	portfolioHandler *handler.PortfolioHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		demoStarHandler:  demoStarHandler,
		portfolioHandler: portfolioHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.AccessLog())
	engine.Use(middleware.Metrics())
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	engine.GET("/metrics", middleware.MetricsHandler())

	api := engine.Group("/api/v1")
	{
		// 公开接口（可选认证，登录用户额外返回点赞/收藏状态）
		public := api.Group("")
		public.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			public.GET("/demostars/:id", r.demoStarHandler.Get)
			public.GET("/demostars/:id/recommendations", r.demoStarHandler.Recommendations)
			public.GET("/portfolios", r.portfolioHandler.List)
			public.GET("/portfolios/:id", r.portfolioHandler.Get)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.POST("/demostars/:id/like", r.demoStarHandler.Like)
			authenticated.DELETE("/demostars/:id/like", r.demoStarHandler.Unlike)
			authenticated.POST("/portfolios/:id/bookmark", r.portfolioHandler.Bookmark)
			authenticated.DELETE("/portfolios/:id/bookmark", r.portfolioHandler.Unbookmark)
			authenticated.PUT("/portfolio/images/:id/main", r.portfolioHandler.SetMainImage)
		}
	}

	return engine
}
