package dto

// AuthorInfo 作者信息
type AuthorInfo struct {
	ActorID     int64  `json:"actor_id"`
	DisplayName string `json:"display_name"`
	ImageURL    string `json:"image_url"`
}

// RecommendedItem 推荐条目
type RecommendedItem struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	ActorID       int64  `json:"actor_id"`
	ActorImageURL string `json:"actor_image_url"`
}

// DemoStarDetail DemoStar 详情
type DemoStarDetail struct {
	ID               int64              `json:"id"`
	Title            string             `json:"title"`
	Category         string             `json:"category"`
	URL              string             `json:"url"`
	ViewCount        int64              `json:"view_count"`
	ActorLikeCount   int                `json:"actor_like_count"`
	CompanyLikeCount int                `json:"company_like_count"`
	MemberLikeCount  int                `json:"member_like_count"`
	CreatedAt        string             `json:"created_at"`
	UpdatedAt        string             `json:"updated_at"`
	Author           *AuthorInfo        `json:"author,omitempty"`
	Liked            bool               `json:"liked"`
	Recommendations  []*RecommendedItem `json:"recommendations"`

	// 推荐计算失败时为 true，Recommendations 为空
	RecommendationsDegraded bool `json:"recommendations_degraded,omitempty"`
}

// LikeResponse 点赞响应
type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// BookmarkResponse 收藏响应
type BookmarkResponse struct {
	Bookmarked    bool `json:"bookmarked"`
	BookmarkCount int  `json:"bookmark_count"`
}
