package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/demostar_server/internal/testutil"
)

func TestActorRepository_ListPortfolioCandidates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewActorRepository(db)
	ctx := context.Background()

	withMain, mainImg := testutil.TestPortfolio(t, db)
	testutil.TestActorImage(t, db, withMain.ID, false)

	noMain := testutil.TestActor(t, db)
	testutil.TestActorImage(t, db, noMain.ID, false)

	testutil.TestActor(t, db) // 没有图片

	candidates, err := repo.ListPortfolioCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, withMain.ID, candidates[0].Actor.ID)
	assert.Equal(t, mainImg.URL, candidates[0].MainImageURL)
}

func TestActorRepository_ListPortfolioCandidates_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	candidates, err := NewActorRepository(db).ListPortfolioCandidates(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, candidates)
	assert.Empty(t, candidates)
}

func TestActorRepository_SetMainImage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewActorRepository(db)
	ctx := context.Background()

	actor, oldMain := testutil.TestPortfolio(t, db)
	newMain := testutil.TestActorImage(t, db, actor.ID, false)

	require.NoError(t, repo.SetMainImage(ctx, actor.ID, newMain.ID))

	got, err := repo.GetWithImages(ctx, actor.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, newMain.ID, got.Images[0].ID)
	assert.True(t, got.Images[0].IsMain)
	assert.Equal(t, oldMain.ID, got.Images[1].ID)
	assert.False(t, got.Images[1].IsMain)
}

func TestActorRepository_SetMainImage_NotOwned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewActorRepository(db)
	ctx := context.Background()

	actor := testutil.TestActor(t, db)
	other, otherImg := testutil.TestPortfolio(t, db)

	err := repo.SetMainImage(ctx, actor.ID, otherImg.ID)
	assert.ErrorIs(t, err, ErrImageNotOwned)

	// 原主图不受影响
	got, err := repo.GetWithImages(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, got.Images[0].IsMain)
}

func TestActorRepository_SetMainImage_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	actor := testutil.TestActor(t, db)
	err := NewActorRepository(db).SetMainImage(context.Background(), actor.ID, 9999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
