package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/vincentFaye/dev-social-network/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "Ada", "ada@example.com")
	repo := NewPostRepository(db)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	older := &models.Post{UserID: user.ID, Text: "older", CreatedAt: base}
	newer := &models.Post{UserID: user.ID, Text: "newer", CreatedAt: base.Add(time.Hour)}
	sameTime := &models.Post{UserID: user.ID, Text: "same time, higher id", CreatedAt: base.Add(time.Hour)}
	for _, p := range []*models.Post{older, newer, sameTime} {
		require.NoError(t, repo.Create(ctx, p))
	}

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []uint{sameTime.ID, newer.ID, older.ID}, []uint{posts[0].ID, posts[1].ID, posts[2].ID})
	assert.NotNil(t, posts[0].Likes)
	assert.NotNil(t, posts[0].Comments)
}

func TestPostRepository_GetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := NewPostRepository(db).GetByID(context.Background(), 404)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	assert.Equal(t, "No post found", appErr.Message)
}

func TestPostRepository_UpdateLists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "Ada", "ada@example.com")
	repo := NewPostRepository(db)

	post := &models.Post{UserID: user.ID, Text: "hello", Name: "Ada"}
	require.NoError(t, repo.Create(ctx, post))

	stale, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)

	post.Likes = datatypes.JSONSlice[models.Like]{{ID: "l1", UserID: user.ID}}
	post.Comments = datatypes.JSONSlice[models.Comment]{{ID: "c1", UserID: user.ID, Text: "first"}}
	require.NoError(t, repo.Update(ctx, post))
	assert.Equal(t, uint(2), post.Version)

	stale.Likes = nil
	assert.ErrorIs(t, repo.Update(ctx, stale), ErrStaleVersion)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, got.LikedBy(user.ID))
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "first", got.Comments[0].Text)
}

func TestPostRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "Ada", "ada@example.com")
	repo := NewPostRepository(db)

	post := &models.Post{UserID: user.ID, Text: "bye"}
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	assert.True(t, models.HasCode(repo.Delete(ctx, post.ID), models.CodeNotFound))
}

func TestPostRepository_UpdateIsConditionalOnVersion(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	post := &models.Post{ID: 7, Version: 3, Likes: datatypes.JSONSlice[models.Like]{}}
	err := repo.Update(context.Background(), post)

	assert.ErrorIs(t, err, ErrStaleVersion)
	assert.Equal(t, uint(3), post.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
