package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nutritrack/app/models"
	"github.com/shashiranjanraj/nutritrack/app/repositories"
	"github.com/shashiranjanraj/nutritrack/app/services"
	"github.com/shashiranjanraj/nutritrack/pkg/auth"
)

type downTokens struct{}

func (downTokens) Issue(context.Context, uint, string) (string, error) {
	return "", errors.New("token store down")
}

func (downTokens) Revoke(context.Context, auth.Identity) error { return nil }

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := newDB(t)
	repo := repositories.NewUserRepository(db)

	require.NoError(t, repo.Create(ctx, &models.User{Name: "Rok", Email: "r@r.com", Password: "x"}))
	err := repo.Create(ctx, &models.User{Name: "Other", Email: "r@r.com", Password: "y"})
	assert.ErrorIs(t, err, repositories.ErrEmailTaken)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestUserDeleteCascades(t *testing.T) {
	db := newDB(t)
	u := seedUser(t, db, "r@r.com")
	seedMeal(t, db, u.ID, "oats")

	require.NoError(t, repositories.NewUserRepository(db).Delete(ctx, u.ID))

	var users, meals int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Meal{}).Count(&meals).Error)
	assert.Zero(t, users)
	assert.Zero(t, meals)
}

func TestFailedRegisterLeavesNoUser(t *testing.T) {
	db := newDB(t)
	svc := services.NewAuthService(repositories.NewUserRepository(db), downTokens{})

	_, _, err := svc.Register(ctx, "Rok", "r@r.com", "secret")
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "r@r.com").Count(&n).Error)
	assert.Zero(t, n)
}

func TestUserLookups(t *testing.T) {
	db := newDB(t)
	repo := repositories.NewUserRepository(db)
	u := seedUser(t, db, "r@r.com")

	byEmail, err := repo.FindByEmail(ctx, "r@r.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.FindByEmail(ctx, "nobody@r.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.FindByID(ctx, 777)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUpdateTargetMacrosIsPartial(t *testing.T) {
	db := newDB(t)
	repo := repositories.NewUserRepository(db)
	u := seedUser(t, db, "r@r.com")

	got, err := repo.UpdateTargetMacros(ctx, u.ID, map[string]any{"calories": 2000, "protein": 150})
	require.NoError(t, err)
	require.NotNil(t, got.Calories)
	assert.Equal(t, 2000, *got.Calories)

	got, err = repo.UpdateTargetMacros(ctx, u.ID, map[string]any{"carbs": 250})
	require.NoError(t, err)
	assert.Equal(t, 2000, *got.Calories)
	assert.Equal(t, 150, *got.Protein)
	assert.Equal(t, 250, *got.Carbs)
	assert.Nil(t, got.Sugar)
}

func TestTokenStoreLifecycle(t *testing.T) {
	db := newDB(t)
	repo := repositories.NewTokenRepository(db)
	u := seedUser(t, db, "r@r.com")

	live := auth.TokenRecord{ID: "live", UserID: u.ID, Name: "bearerToken", ExpiresAt: time.Now().Add(time.Hour)}
	stale := auth.TokenRecord{ID: "stale", UserID: u.ID, Name: "bearerToken", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Save(ctx, live))
	require.NoError(t, repo.Save(ctx, stale))

	ok, err := repo.Active(ctx, "live", u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Active(ctx, "live", u.ID+1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Active(ctx, "stale", u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	var row models.PersonalAccessToken
	require.NoError(t, db.Where("token_id = ?", "live").First(&row).Error)
	assert.NotNil(t, row.LastUsedAt)

	pruned, err := repo.PruneExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	require.NoError(t, repo.Revoke(ctx, "live"))
	n, err := repo.Count(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
