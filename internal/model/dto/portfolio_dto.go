package dto

import "time"

// PortfolioListRequest 作品集列表请求参数
type PortfolioListRequest struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=50"`
	Filter   string `form:"filter"` // male, female
	Sort     string `form:"sort"`   // age_asc, age_desc, updated_asc, updated_desc
}

// PortfolioSummary 作品集列表项，整体缓存；Bookmarked 按请求计算后覆盖
type PortfolioSummary struct {
	ActorID       int64      `json:"actor_id"`
	DisplayName   string     `json:"display_name"`
	Gender        string     `json:"gender"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Age           *int       `json:"age,omitempty"`
	MainImageURL  string     `json:"main_image_url"`
	BookmarkCount int        `json:"bookmark_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Bookmarked    bool       `json:"bookmarked"`
}

// PortfolioPage 作品集分页结果
type PortfolioPage struct {
	Items      []*PortfolioSummary `json:"items"`
	Total      int64               `json:"total"`
	TotalPages int                 `json:"total_pages"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
}

// PortfolioImage 作品集图片
type PortfolioImage struct {
	ID     int64  `json:"id"`
	URL    string `json:"url"`
	IsMain bool   `json:"is_main"`
}

// PortfolioDemoStar 作品集详情中的 DemoStar
type PortfolioDemoStar struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	URL       string `json:"url"`
	ViewCount int64  `json:"view_count"`
	LikeCount int    `json:"like_count"`
}

// PortfolioDetail 作品集详情
type PortfolioDetail struct {
	ActorID       int64                `json:"actor_id"`
	DisplayName   string               `json:"display_name"`
	Gender        string               `json:"gender"`
	Age           *int                 `json:"age,omitempty"`
	Bio           string               `json:"bio"`
	Experience    string               `json:"experience"`
	Education     string               `json:"education"`
	Links         []string             `json:"links"`
	BookmarkCount int                  `json:"bookmark_count"`
	Bookmarked    bool                 `json:"bookmarked"`
	Images        []*PortfolioImage    `json:"images"`
	DemoStars     []*PortfolioDemoStar `json:"demo_stars"`
	UpdatedAt     string               `json:"updated_at"`
}

// SetMainImageResponse 设置主图响应
type SetMainImageResponse struct {
	ActorID     int64 `json:"actor_id"`
	MainImageID int64 `json:"main_image_id"`
}
