package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/demostar_server/internal/model"
)

var seq int64

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

// TestUser 创建测试用户，默认普通会员
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	user := &model.User{
		Username: fmt.Sprintf("testuser_%d", nextSeq()),
		Role:     model.RoleMember,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// TestActor 创建演员（同时创建对应的 actor 用户）
func TestActor(t *testing.T, db *gorm.DB, opts ...func(*model.Actor)) *model.Actor {
	t.Helper()

	user := TestUser(t, db, WithRole(model.RoleActor))
	actor := &model.Actor{
		UserID:      user.ID,
		DisplayName: fmt.Sprintf("Actor %d", nextSeq()),
		Gender:      model.GenderMale,
	}

	for _, opt := range opts {
		opt(actor)
	}

	if err := db.Create(actor).Error; err != nil {
		t.Fatalf("Failed to create test actor: %v", err)
	}

	return actor
}

// WithGender 设置性别
func WithGender(gender string) func(*model.Actor) {
	return func(a *model.Actor) {
		a.Gender = gender
	}
}

// WithDisplayName 设置展示名
func WithDisplayName(name string) func(*model.Actor) {
	return func(a *model.Actor) {
		a.DisplayName = name
	}
}

// WithBirthDate 设置出生日期
func WithBirthDate(birth time.Time) func(*model.Actor) {
	return func(a *model.Actor) {
		a.BirthDate = &birth
	}
}

// WithActorCreatedAt 设置创建时间
func WithActorCreatedAt(ts time.Time) func(*model.Actor) {
	return func(a *model.Actor) {
		a.CreatedAt = ts
		a.UpdatedAt = ts
	}
}

// WithActorLikes 设置三类收藏数
func WithActorLikes(actor, company, member int) func(*model.Actor) {
	return func(a *model.Actor) {
		a.LikeCounters = model.LikeCounters{
			ActorLikeCount:   actor,
			CompanyLikeCount: company,
			MemberLikeCount:  member,
		}
	}
}

// TestActorImage 创建演员图片
func TestActorImage(t *testing.T, db *gorm.DB, actorID int64, isMain bool) *model.ActorImage {
	t.Helper()

	img := &model.ActorImage{
		ActorID: actorID,
		URL:     fmt.Sprintf("https://cdn.example.com/actors/%d/%d.jpg", actorID, nextSeq()),
		IsMain:  isMain,
	}

	if err := db.Create(img).Error; err != nil {
		t.Fatalf("Failed to create test actor image: %v", err)
	}

	return img
}

// TestPortfolio 创建带主图的演员
func TestPortfolio(t *testing.T, db *gorm.DB, opts ...func(*model.Actor)) (*model.Actor, *model.ActorImage) {
	t.Helper()

	actor := TestActor(t, db, opts...)
	img := TestActorImage(t, db, actor.ID, true)
	return actor, img
}

// TestDemoStar 创建 DemoStar
func TestDemoStar(t *testing.T, db *gorm.DB, actorID int64, opts ...func(*model.DemoStar)) *model.DemoStar {
	t.Helper()

	ds := &model.DemoStar{
		ActorID:  actorID,
		Title:    fmt.Sprintf("DemoStar %d", nextSeq()),
		Category: "film",
		URL:      "https://video.example.com/demo.mp4",
	}

	for _, opt := range opts {
		opt(ds)
	}

	if err := db.Create(ds).Error; err != nil {
		t.Fatalf("Failed to create test demostar: %v", err)
	}

	return ds
}

// WithTitle 设置标题
func WithTitle(title string) func(*model.DemoStar) {
	return func(d *model.DemoStar) {
		d.Title = title
	}
}

// WithCategory 设置类别
func WithCategory(category string) func(*model.DemoStar) {
	return func(d *model.DemoStar) {
		d.Category = category
	}
}

// WithViews 设置浏览数
func WithViews(views int64) func(*model.DemoStar) {
	return func(d *model.DemoStar) {
		d.ViewCount = views
	}
}

// WithCreatedAt 设置创建时间
func WithCreatedAt(ts time.Time) func(*model.DemoStar) {
	return func(d *model.DemoStar) {
		d.CreatedAt = ts
		d.UpdatedAt = ts
	}
}

// TestLike 创建点赞记录
func TestLike(t *testing.T, db *gorm.DB, userID int64, itemType model.ItemType, itemID int64) *model.Like {
	t.Helper()

	like := &model.Like{
		UserID:   userID,
		ItemType: itemType,
		ItemID:   itemID,
	}

	if err := db.Create(like).Error; err != nil {
		t.Fatalf("Failed to create test like: %v", err)
	}

	return like
}
