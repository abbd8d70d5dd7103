package repositories_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nutritrack/app/models"
	"github.com/shashiranjanraj/nutritrack/app/repositories"
)

func TestAddOrIncrementAccumulates(t *testing.T) {
	db := newDB(t)
	u := seedUser(t, db, "a@a.com")
	m := seedMeal(t, db, u.ID, "rice")
	repo := repositories.NewTodayRepository(db)

	first, err := repo.AddOrIncrement(ctx, u.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, first.Amount)
	assert.Equal(t, u.ID, first.UserID)
	assert.Equal(t, m.ID, first.MealID)

	second, err := repo.AddOrIncrement(ctx, u.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, second.Amount)
	assert.Equal(t, first.ID, second.ID)

	var rows int64
	require.NoError(t, db.Model(&models.Today{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

// SQLite runs on a single connection here, so the calls are serialised.
// The ON CONFLICT upsert is what rules out lost updates; this only checks
// that every call is counted once.
func TestAddOrIncrementConcurrent(t *testing.T) {
	db := newDB(t)
	u := seedUser(t, db, "a@a.com")
	m := seedMeal(t, db, u.ID, "rice")
	repo := repositories.NewTodayRepository(db)

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AddOrIncrement(ctx, u.ID, m.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var entry models.Today
	require.NoError(t, db.Where("user_id = ? AND meal_id = ?", u.ID, m.ID).First(&entry).Error)
	assert.Equal(t, float64(n), entry.Amount)
}

func TestAddOrIncrementRejectsForeignMeal(t *testing.T) {
	db := newDB(t)
	owner := seedUser(t, db, "a@a.com")
	intruder := seedUser(t, db, "b@b.com")
	m := seedMeal(t, db, owner.ID, "rice")
	repo := repositories.NewTodayRepository(db)

	_, err := repo.AddOrIncrement(ctx, intruder.ID, m.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.AddOrIncrement(ctx, owner.ID, 9999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestTodayListProjectsMealWithAmount(t *testing.T) {
	db := newDB(t)
	u := seedUser(t, db, "a@a.com")
	other := seedUser(t, db, "b@b.com")
	m := seedMeal(t, db, u.ID, "rice")
	foreign := seedMeal(t, db, other.ID, "soup")
	repo := repositories.NewTodayRepository(db)

	for i := 0; i < 3; i++ {
		_, err := repo.AddOrIncrement(ctx, u.ID, m.ID)
		require.NoError(t, err)
	}
	_, err := repo.AddOrIncrement(ctx, other.ID, foreign.ID)
	require.NoError(t, err)

	items, err := repo.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, m.ID, items[0].ID)
	assert.Equal(t, "rice", items[0].Name)
	assert.Equal(t, 300, items[0].Calories)
	assert.Equal(t, 3.0, items[0].Amount)
}

func TestTodayUpdateAndDelete(t *testing.T) {
	db := newDB(t)
	u := seedUser(t, db, "a@a.com")
	intruder := seedUser(t, db, "b@b.com")
	m := seedMeal(t, db, u.ID, "rice")
	repo := repositories.NewTodayRepository(db)

	entry, err := repo.AddOrIncrement(ctx, u.ID, m.ID)
	require.NoError(t, err)

	_, err = repo.Update(ctx, intruder.ID, entry.ID, 5)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	updated, err := repo.Update(ctx, u.ID, entry.ID, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.Amount)

	_, err = repo.Delete(ctx, intruder.ID, entry.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	deleted, err := repo.Delete(ctx, u.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.5, deleted.Amount)

	_, err = repo.Find(ctx, u.ID, entry.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDropAllIsIdempotent(t *testing.T) {
	db := newDB(t)
	u := seedUser(t, db, "a@a.com")
	other := seedUser(t, db, "b@b.com")
	repo := repositories.NewTodayRepository(db)

	for _, name := range []string{"rice", "beans"} {
		m := seedMeal(t, db, u.ID, name)
		_, err := repo.AddOrIncrement(ctx, u.ID, m.ID)
		require.NoError(t, err)
	}
	om := seedMeal(t, db, other.ID, "soup")
	_, err := repo.AddOrIncrement(ctx, other.ID, om.ID)
	require.NoError(t, err)

	n, err := repo.DropAll(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	items, err := repo.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	n, err = repo.DropAll(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	kept, err := repo.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
